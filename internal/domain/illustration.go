package domain

import (
	"errors"
	"time"
)

// Illustration-specific validation errors
var (
	// ErrIllustrationPromptEmpty is returned when an illustration has no prompt.
	ErrIllustrationPromptEmpty = errors.New("illustration prompt cannot be empty")

	// ErrIllustrationUnresolved is returned when an illustration carries neither
	// a remote reference nor local image data.
	ErrIllustrationUnresolved = errors.New("illustration must carry an image reference or image data")
)

// IllustrationStatus distinguishes a real generated image from a locally
// synthesized placeholder substitute.
type IllustrationStatus string

// Possible illustration status values
const (
	IllustrationStatusGenerated   IllustrationStatus = "generated"
	IllustrationStatusPlaceholder IllustrationStatus = "placeholder"
)

// FailureReason classifies why image generation did not produce a real image.
type FailureReason string

// Possible failure reasons recorded on placeholder illustrations.
const (
	FailureReasonRateLimited    FailureReason = "rate_limited"
	FailureReasonServerError    FailureReason = "server_error"
	FailureReasonContentPolicy  FailureReason = "content_policy"
	FailureReasonNetworkFailure FailureReason = "network_failure"
	FailureReasonUnknown        FailureReason = "unknown"
)

// Illustration is the persisted outcome of one cover-image acquisition.
// It is produced exactly once per article generation and never mutated
// after creation.
type Illustration struct {
	Status IllustrationStatus `json:"status"`
	Prompt string             `json:"prompt"`

	// URL references the remotely hosted image for generated illustrations.
	URL string `json:"url,omitempty"`

	// Data holds locally synthesized image bytes for placeholder
	// illustrations (PNG).
	Data []byte `json:"data,omitempty"`

	MimeType string `json:"mime_type,omitempty"`

	// Reason records the last observed failure for placeholder illustrations.
	Reason FailureReason `json:"reason,omitempty"`

	// Attempts is the number of outbound calls made before resolution.
	Attempts int `json:"attempts"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the illustration is internally consistent:
// it has a prompt and is resolved to either a remote reference or local data.
func (il *Illustration) Validate() error {
	if il.Prompt == "" {
		return ErrIllustrationPromptEmpty
	}

	if il.URL == "" && len(il.Data) == 0 {
		return ErrIllustrationUnresolved
	}

	return nil
}

// IsPlaceholder reports whether the illustration is a degraded substitute.
func (il *Illustration) IsPlaceholder() bool {
	return il.Status == IllustrationStatusPlaceholder
}
