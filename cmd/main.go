package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/okian/herald/internal/adapters/http/api"
	"github.com/okian/herald/internal/adapters/store"
	"github.com/okian/herald/internal/adapters/webhook"
	app "github.com/okian/herald/internal/app"
	"github.com/okian/herald/internal/config"
	"github.com/okian/herald/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	maxStandingsLimit = 100
)

func usage() {
	os.Stderr.WriteString("usage: herald <contest-id>\n")
}

func main() {
	// A local .env is a convenience for development; absence is fine.
	_ = godotenv.Load()

	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	contestID, err := parseContestID(os.Args[1:])
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		usage()
		os.Exit(2)
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if cfg.ScoreWebhookURL == "" || cfg.QuestionWebhookURL == "" {
		os.Stderr.WriteString("score_webhook_url and question_webhook_url must be configured\n")
		os.Exit(1)
	}

	// Connect to the contest database; unreachable store is fatal.
	st, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		os.Stderr.WriteString("failed to connect to contest database: " + err.Error() + "\n")
		os.Exit(1)
	}

	policy := webhook.DefaultPolicy()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.MaxBackoff = time.Duration(cfg.RetryMaxBackoffSeconds) * time.Second

	scoreNotifier := webhook.New(cfg.ScoreWebhookURL, webhook.WithPolicy(policy))
	questionNotifier := webhook.New(cfg.QuestionWebhookURL, webhook.WithPolicy(policy))

	svc := app.New(st, scoreNotifier, questionNotifier, contestID,
		app.WithLogger(log),
		app.WithPollInterval(time.Duration(cfg.PollIntervalSeconds)*time.Second),
		app.WithVisibleRows(cfg.VisibleRows),
		app.WithBaseURL(cfg.BaseURL),
		app.WithDebug(cfg.Debug),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		st.Close()
		os.Exit(1)
	}
	defer svc.Stop()

	// Debug HTTP surface: health, metrics, standings, stats.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, maxStandingsLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
		}
	}()

	// Block in the watch loop until interrupted.
	_ = svc.Run(ctx)

	log.Info(ctx, "shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "stopped")
}

// parseContestID extracts the single required contest id argument.
func parseContestID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errMissingContest
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, errInvalidContest
	}
	return id, nil
}
