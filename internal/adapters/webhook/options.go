package webhook

import (
	"net/http"
	"time"

	"github.com/okian/herald/pkg/logger"
)

// Option applies a configuration option to the Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Dispatcher) {
		if client != nil {
			d.client = client
		}
	}
}

// WithPolicy sets the retry policy.
func WithPolicy(policy Policy) Option {
	return func(d *Dispatcher) {
		if policy.Multiplier > 0 {
			d.policy = policy
		}
	}
}

// WithSuccessPause sets the pause after a successful delivery.
func WithSuccessPause(pause time.Duration) Option {
	return func(d *Dispatcher) {
		if pause >= 0 {
			d.successPause = pause
		}
	}
}

// WithLogger sets a custom logger for the dispatcher.
func WithLogger(log logger.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}
