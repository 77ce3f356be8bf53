package attendanceapi

import (
	"context"
	"time"

	"github.com/googleapis/gax-go/v2"
)

const defaultRateLimitTimeout = 30 * time.Second

var defaultRateLimitBackoff = &gax.Backoff{
	Initial:    time.Second,
	Max:        10 * time.Second,
	Multiplier: 2,
}

// newRetry bounds a retry loop by timeout and returns a fresh backoff built
// from the given settings.
func newRetry(ctx context.Context, settings *gax.Backoff, timeout time.Duration) (context.Context, context.CancelFunc, *gax.Backoff) {
	if settings == nil {
		settings = defaultRateLimitBackoff
	}
	if timeout <= 0 {
		timeout = defaultRateLimitTimeout
	}

	retryCtx, cancel := context.WithTimeout(ctx, timeout)
	return retryCtx, cancel, &gax.Backoff{
		Initial:    settings.Initial,
		Max:        settings.Max,
		Multiplier: settings.Multiplier,
	}
}
