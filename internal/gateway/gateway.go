// Package gateway wraps the opaque text-completion capability with bounded
// retry on transient rate limiting. Every pipeline stage goes through a
// single Client; the retry policy here is a contract, not an implementation
// detail, because it governs user-visible latency under load.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/uiforge/uiforge/internal/log"
)

// Sentinel errors for completion outcomes, checkable with errors.Is.
var (
	// ErrRateLimited indicates the model kept rate-limiting us until the
	// retry budget was exhausted.
	ErrRateLimited = errors.New("model rate limited")

	// ErrUpstream indicates a non-transient model failure.
	ErrUpstream = errors.New("model upstream failure")
)

// Completer is the capability every pipeline stage depends on: given a
// prompt, return a text completion. Consumers define the interface; the
// production implementation is Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Model performs a single completion attempt with no retry. Implemented by
// Gemini in production and by stubs in tests.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// RetryConfig configures the retry behavior for model calls.
type RetryConfig struct {
	MaxAttempts int           // total attempts, including the first
	BaseDelay   time.Duration // wait after attempt n is BaseDelay×n
	MaxDelay    time.Duration // cap on a single wait
}

// DefaultRetryConfig returns the production policy: three attempts, waiting
// min(10s×attempt, 35s) after each rate-limited one.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Second,
		MaxDelay:    35 * time.Second,
	}
}

// Client retries a Model on rate-limit signals and propagates everything
// else immediately. Safe for concurrent use.
type Client struct {
	model   Model
	retry   RetryConfig
	limiter *rate.Limiter // optional proactive limiter, nil = disabled
	logger  log.Logger
}

// NewClient creates a Client around the given model. A zero-value retry
// config selects the default policy. limiter may be nil.
func NewClient(model Model, retry RetryConfig, limiter *rate.Limiter, logger log.Logger) *Client {
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	return &Client{model: model, retry: retry, limiter: limiter, logger: logger}
}

// Complete runs the model with the configured retry policy.
//
// On a rate-limit signal the client waits min(BaseDelay×attempt, MaxDelay)
// and tries again, up to MaxAttempts total attempts; exhaustion yields
// ErrRateLimited. Any other failure propagates immediately as ErrUpstream.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	start := time.Now()

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		// Each attempt consumes a limiter token.
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("rate limit wait: %w", err)
			}
		}

		text, err := c.model.Generate(ctx, prompt)
		if err == nil {
			c.logger.Debug("completion succeeded",
				"attempts", attempt,
				"elapsed", time.Since(start),
			)
			return text, nil
		}
		lastErr = err

		if !rateLimited(err) {
			return "", fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		if attempt == c.retry.MaxAttempts {
			break
		}

		delay := min(c.retry.BaseDelay*time.Duration(attempt), c.retry.MaxDelay)
		c.logger.Debug("rate limited, backing off",
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context canceled during backoff: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrRateLimited, c.retry.MaxAttempts, lastErr)
}
