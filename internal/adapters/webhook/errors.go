package webhook

import "errors"

// Sentinel kinds for delivery errors.
var (
	ErrDeliveryFailed = errors.New("webhook delivery failed")
)
