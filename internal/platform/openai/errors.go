package openai

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"

	"github.com/draftsmith/draftsmith-api/internal/imaging"
)

// contentPolicyCode is the OpenAI error code for prompts rejected by the
// moderation layer.
const contentPolicyCode = "content_policy_violation"

// mapImageError converts an SDK error from an image generation call into
// the imaging package's classification sentinels.
func mapImageError(err error) error {
	var apierr *openaisdk.Error
	if !errors.As(err, &apierr) {
		// No structured API error: the call failed before a response was
		// received (DNS, connection reset, timeout).
		return fmt.Errorf("%w: %v", imaging.ErrNetwork, err)
	}

	switch {
	case isContentPolicy(apierr):
		return fmt.Errorf("%w: %v", imaging.ErrContentPolicy, err)
	case apierr.StatusCode == http.StatusTooManyRequests:
		return &imaging.RateLimitError{RetryAfter: retryAfterHint(apierr)}
	case apierr.StatusCode == http.StatusUnauthorized,
		apierr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %v", imaging.ErrCredential, apierr.StatusCode, err)
	case apierr.StatusCode >= 400 && apierr.StatusCode < 500:
		// Remaining 4xx: the request itself is bad; terminal.
		return fmt.Errorf("%w: status %d: %v", imaging.ErrInvalidRequest, apierr.StatusCode, err)
	case apierr.StatusCode >= 500:
		return fmt.Errorf("%w: status %d: %v", imaging.ErrServerError, apierr.StatusCode, err)
	default:
		return err
	}
}

// isContentPolicy reports whether the API error is a moderation rejection.
func isContentPolicy(apierr *openaisdk.Error) bool {
	if apierr.Code == contentPolicyCode {
		return true
	}
	return strings.Contains(strings.ToLower(apierr.Message), "content policy")
}

// retryAfterHint extracts a server-provided retry delay from the response
// headers, when present. Supports both delta-seconds and HTTP-date forms.
func retryAfterHint(apierr *openaisdk.Error) time.Duration {
	if apierr.Response == nil {
		return 0
	}

	header := apierr.Response.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(header); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}

// isTransientStatus reports whether an HTTP status from the completion API
// warrants a retry.
func isTransientStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}
