// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the debug HTTP listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// DatabaseURL is the read-only connection string for the contest
	// database, e.g. "postgres://cms@localhost:5432/cmsdb".
	DatabaseURL string `koanf:"database_url"`

	// BaseURL is the contest web interface root used to build deep links
	// in notifications.
	BaseURL string `koanf:"base_url"`

	// ScoreWebhookURL receives score-change notifications.
	ScoreWebhookURL string `koanf:"score_webhook_url"`

	// QuestionWebhookURL receives new-question announcements.
	QuestionWebhookURL string `koanf:"question_webhook_url"`

	// PollIntervalSeconds is the shared interval of both polling loops.
	PollIntervalSeconds int `koanf:"poll_interval_seconds"`

	// VisibleRows caps the leaderboard rows shown in notifications; the
	// highlighted user is always shown regardless.
	VisibleRows int `koanf:"visible_rows"`

	// RetryMaxAttempts bounds delivery retries. 0 retries forever.
	RetryMaxAttempts int `koanf:"retry_max_attempts"`

	// RetryMaxBackoffSeconds caps the delivery backoff. 0 grows uncapped.
	RetryMaxBackoffSeconds int `koanf:"retry_max_backoff_seconds"`

	// Debug makes the first sweep notify every nonzero score instead of
	// silently adopting it as the baseline.
	Debug bool `koanf:"debug"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9090",
		DatabaseURL:         "postgres://cmsuser@localhost:5432/cmsdb",
		PollIntervalSeconds: 5,
		VisibleRows:         10,
	}
}
