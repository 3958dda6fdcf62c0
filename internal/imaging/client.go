package imaging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/platform/logger"
)

// Client is the image acquisition client. It wraps a Provider with the
// retry/backoff/fallback policy: transient failures are retried with
// exponential backoff up to a bounded attempt count, terminal failures and
// exhaustion degrade to a locally synthesized placeholder image.
//
// A Client is safe for concurrent use. Each acquisition is an independent
// sequential operation; the only shared state is the optional outbound
// rate budget.
type Client struct {
	provider Provider
	logger   *slog.Logger

	maxAttempts int
	backoffBase time.Duration
	backoffCap  time.Duration

	// limiter is the process-wide outbound rate budget shared across
	// concurrent acquisitions. Nil when rate limiting is disabled.
	limiter *rate.Limiter
}

// NewClient creates an acquisition client from the image configuration.
// Returns an error if the provider is missing or the retry policy is
// out of range; credential validation happens earlier, at config load
// and provider construction.
func NewClient(provider Provider, cfg config.ImageConfig, log *slog.Logger) (*Client, error) {
	if provider == nil {
		return nil, errors.New("provider is required")
	}
	if log == nil {
		log = slog.Default()
	}

	if cfg.MaxAttempts < 1 || cfg.MaxAttempts > 10 {
		return nil, fmt.Errorf("max attempts must be between 1 and 10, got %d", cfg.MaxAttempts)
	}

	backoffBase := time.Duration(cfg.BackoffBaseSeconds) * time.Second
	backoffCap := time.Duration(cfg.BackoffCapSeconds) * time.Second
	if backoffBase <= 0 {
		backoffBase = 2 * time.Second
	}
	if backoffCap < backoffBase {
		backoffCap = backoffBase
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Client{
		provider:    provider,
		logger:      log.With(slog.String("component", "image_acquisition")),
		maxAttempts: cfg.MaxAttempts,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		limiter:     limiter,
	}, nil
}

// Acquire obtains an image for the request. It never surfaces remote
// failures to the caller: the returned Result is either Generated or
// Placeholder. The only error conditions are a malformed request (empty
// prompt) and caller-side context cancellation before the first call.
func (c *Client) Acquire(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	// Per-acquisition jitter source; the Client itself stays free of
	// mutable shared state so concurrent acquisitions never contend.
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	attempts := 0
	lastReason := domain.FailureReasonUnknown

	for attempts < c.maxAttempts {
		attemptNum := attempts + 1

		// Respect the shared outbound rate budget before every call.
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				if attempts == 0 {
					return nil, fmt.Errorf("acquisition cancelled before first call: %w", err)
				}
				log.Warn("acquisition cancelled while waiting for rate budget",
					"attempt", attemptNum)
				return c.placeholderResult(req, lastReason, attempts), nil
			}
		}

		log.Info("requesting image generation",
			"attempt", attemptNum,
			"max_attempts", c.maxAttempts,
			"size", req.Size,
			"quality", req.Quality)

		img, err := c.provider.GenerateImage(ctx, req)
		attempts = attemptNum

		if err == nil {
			log.Info("image generated",
				"attempt", attemptNum,
				"has_url", img.URL != "",
				"bytes", len(img.Data))
			return &Result{
				Status:   StatusGenerated,
				URL:      img.URL,
				Data:     img.Data,
				MimeType: img.MimeType,
				Attempts: attempts,
			}, nil
		}

		reason, retryable := classify(err)
		lastReason = reason

		log.Warn("image generation attempt failed",
			"attempt", attemptNum,
			"reason", string(reason),
			"retryable", retryable,
			"error", err)

		if !retryable {
			// Terminal failure: never retried, placeholder immediately.
			return c.placeholderResult(req, reason, attempts), nil
		}

		if attempts >= c.maxAttempts {
			log.Warn("image generation attempts exhausted",
				"max_attempts", c.maxAttempts,
				"last_reason", string(reason))
			return c.placeholderResult(req, reason, attempts), nil
		}

		delay := c.retryDelay(rng, attempts, err)
		log.Info("retrying image generation after delay",
			"attempt", attemptNum,
			"delay", delay.String())

		select {
		case <-time.After(delay):
			// Continue to next attempt
		case <-ctx.Done():
			// The caller is going away; resolve to a placeholder rather
			// than leaving the request unresolved.
			log.Warn("acquisition cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return c.placeholderResult(req, reason, attempts), nil
		}
	}

	return c.placeholderResult(req, lastReason, attempts), nil
}

// retryDelay computes the exponential backoff delay for the next retry:
// base * 2^(attempt-1) with jitter in [0.5, 1.0), capped. A server-provided
// rate-limit hint overrides the computed delay when it is longer, still
// subject to the cap.
func (c *Client) retryDelay(rng *rand.Rand, attempt int, err error) time.Duration {
	backoff := float64(c.backoffBase) * math.Pow(2, float64(attempt-1))
	jitter := 0.5 + rng.Float64()*0.5
	delay := time.Duration(backoff * jitter)

	var rle *RateLimitError
	if errors.As(err, &rle) && rle.RetryAfter > delay {
		delay = rle.RetryAfter
	}

	if delay > c.backoffCap {
		delay = c.backoffCap
	}
	return delay
}

// placeholderResult builds the degraded outcome. Placeholder synthesis is
// local and deterministic; it must never block the pipeline.
func (c *Client) placeholderResult(req Request, reason domain.FailureReason, attempts int) *Result {
	data := RenderPlaceholder(req.Prompt, req.Size)
	return &Result{
		Status:   StatusPlaceholder,
		Data:     data,
		MimeType: "image/png",
		Reason:   reason,
		Attempts: attempts,
	}
}

// classify maps a provider error onto a recorded failure reason and a
// retry decision. Unrecognized errors are assumed transient, matching the
// posture taken for the article generation provider.
func classify(err error) (domain.FailureReason, bool) {
	switch {
	case errors.Is(err, ErrContentPolicy):
		return domain.FailureReasonContentPolicy, false
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrCredential):
		// Rejections of the request or the credential cannot be fixed by
		// retrying the same call.
		return domain.FailureReasonUnknown, false
	case errors.Is(err, ErrRateLimited):
		return domain.FailureReasonRateLimited, true
	case errors.Is(err, ErrServerError), errors.Is(err, ErrInvalidProviderResponse):
		return domain.FailureReasonServerError, true
	case errors.Is(err, ErrNetwork),
		errors.Is(err, context.DeadlineExceeded):
		return domain.FailureReasonNetworkFailure, true
	default:
		return domain.FailureReasonUnknown, true
	}
}
