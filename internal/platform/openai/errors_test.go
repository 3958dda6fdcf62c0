package openai

import (
	"errors"
	"net/http"
	"testing"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftsmith/draftsmith-api/internal/imaging"
)

func apiError(status int, code, message string, header http.Header) *openaisdk.Error {
	apierr := &openaisdk.Error{
		Code:       code,
		Message:    message,
		StatusCode: status,
	}
	if header != nil {
		apierr.Response = &http.Response{
			StatusCode: status,
			Header:     header,
		}
	}
	return apierr
}

func TestMapImageError(t *testing.T) {
	t.Parallel()

	t.Run("transport failure maps to network", func(t *testing.T) {
		t.Parallel()
		err := mapImageError(errors.New("dial tcp: connection refused"))
		assert.ErrorIs(t, err, imaging.ErrNetwork)
	})

	t.Run("content policy code maps to content policy", func(t *testing.T) {
		t.Parallel()
		err := mapImageError(apiError(400, contentPolicyCode, "rejected", nil))
		assert.ErrorIs(t, err, imaging.ErrContentPolicy)
	})

	t.Run("content policy message maps to content policy", func(t *testing.T) {
		t.Parallel()
		err := mapImageError(apiError(400, "invalid_request_error",
			"Your request was rejected by our content policy.", nil))
		assert.ErrorIs(t, err, imaging.ErrContentPolicy)
	})

	t.Run("429 maps to rate limit with hint", func(t *testing.T) {
		t.Parallel()
		header := http.Header{}
		header.Set("Retry-After", "7")
		err := mapImageError(apiError(http.StatusTooManyRequests, "rate_limit_exceeded", "slow down", header))

		require.ErrorIs(t, err, imaging.ErrRateLimited)
		var rle *imaging.RateLimitError
		require.ErrorAs(t, err, &rle)
		assert.Equal(t, 7*time.Second, rle.RetryAfter)
	})

	t.Run("429 without header has zero hint", func(t *testing.T) {
		t.Parallel()
		err := mapImageError(apiError(http.StatusTooManyRequests, "rate_limit_exceeded", "slow down", nil))

		var rle *imaging.RateLimitError
		require.ErrorAs(t, err, &rle)
		assert.Zero(t, rle.RetryAfter)
	})

	t.Run("5xx maps to server error", func(t *testing.T) {
		t.Parallel()
		for _, status := range []int{500, 502, 503} {
			err := mapImageError(apiError(status, "server_error", "boom", nil))
			assert.ErrorIs(t, err, imaging.ErrServerError, "status %d", status)
		}
	})

	t.Run("400 maps to invalid request", func(t *testing.T) {
		t.Parallel()
		err := mapImageError(apiError(400, "invalid_request_error", "bad size", nil))

		assert.ErrorIs(t, err, imaging.ErrInvalidRequest)
		assert.NotErrorIs(t, err, imaging.ErrContentPolicy)
	})

	t.Run("credential rejections map to credential", func(t *testing.T) {
		t.Parallel()
		for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
			err := mapImageError(apiError(status, "invalid_api_key", "bad key", nil))
			assert.ErrorIs(t, err, imaging.ErrCredential, "status %d", status)
		}
	})
}

func TestRetryAfterHint(t *testing.T) {
	t.Parallel()

	t.Run("delta seconds", func(t *testing.T) {
		t.Parallel()
		header := http.Header{}
		header.Set("Retry-After", "30")
		assert.Equal(t, 30*time.Second, retryAfterHint(apiError(429, "", "", header)))
	})

	t.Run("http date in the future", func(t *testing.T) {
		t.Parallel()
		header := http.Header{}
		header.Set("Retry-After", time.Now().Add(45*time.Second).UTC().Format(http.TimeFormat))
		hint := retryAfterHint(apiError(429, "", "", header))
		assert.Greater(t, hint, 30*time.Second)
		assert.LessOrEqual(t, hint, 45*time.Second)
	})

	t.Run("http date in the past", func(t *testing.T) {
		t.Parallel()
		header := http.Header{}
		header.Set("Retry-After", time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat))
		assert.Zero(t, retryAfterHint(apiError(429, "", "", header)))
	})

	t.Run("garbage header", func(t *testing.T) {
		t.Parallel()
		header := http.Header{}
		header.Set("Retry-After", "soon")
		assert.Zero(t, retryAfterHint(apiError(429, "", "", header)))
	})

	t.Run("no response attached", func(t *testing.T) {
		t.Parallel()
		assert.Zero(t, retryAfterHint(apiError(429, "", "", nil)))
	})
}

func TestIsTransientStatus(t *testing.T) {
	t.Parallel()

	assert.True(t, isTransientStatus(http.StatusTooManyRequests))
	assert.True(t, isTransientStatus(http.StatusInternalServerError))
	assert.True(t, isTransientStatus(http.StatusBadGateway))
	assert.False(t, isTransientStatus(http.StatusBadRequest))
	assert.False(t, isTransientStatus(http.StatusUnauthorized))
	assert.False(t, isTransientStatus(http.StatusNotFound))
}
