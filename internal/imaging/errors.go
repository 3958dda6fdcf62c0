package imaging

import (
	"errors"
	"fmt"
	"time"
)

// Classification sentinels. Providers map their transport- and API-level
// failures onto these so the acquisition client can decide whether to retry.
var (
	// ErrEmptyPrompt is returned when an acquisition is requested with an
	// empty prompt. This is a caller error and fails fast without any
	// outbound call.
	ErrEmptyPrompt = errors.New("image prompt cannot be empty")

	// ErrContentPolicy indicates the prompt itself was rejected by the
	// provider's content policy. Terminal; never retried.
	ErrContentPolicy = errors.New("image prompt rejected by content policy")

	// ErrRateLimited indicates the provider rejected the call due to rate
	// limiting (HTTP 429 equivalent). Retryable.
	ErrRateLimited = errors.New("image generation rate limited")

	// ErrServerError indicates a provider-side failure (HTTP 5xx
	// equivalent). Retryable.
	ErrServerError = errors.New("image generation server error")

	// ErrNetwork indicates a transport failure or timeout before a
	// response was received. Retryable.
	ErrNetwork = errors.New("network failure calling image generation service")

	// ErrInvalidProviderResponse indicates the provider answered but the
	// response carried no usable image. Treated as a server-side failure.
	ErrInvalidProviderResponse = errors.New("image generation response contained no image")

	// ErrInvalidRequest indicates the provider rejected the request as
	// malformed (HTTP 400 equivalent). Retrying an unchanged request cannot
	// succeed; terminal.
	ErrInvalidRequest = errors.New("image generation request rejected as invalid")

	// ErrCredential indicates the provider rejected the configured
	// credential (HTTP 401/403 equivalent). Terminal; never retried.
	ErrCredential = errors.New("image generation credential rejected")
)

// RateLimitError wraps ErrRateLimited with an optional server-provided
// retry hint. A zero RetryAfter means no hint was given.
type RateLimitError struct {
	RetryAfter time.Duration
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("image generation rate limited, retry after %s", e.RetryAfter)
	}
	return ErrRateLimited.Error()
}

// Unwrap allows errors.Is(err, ErrRateLimited) to match.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
