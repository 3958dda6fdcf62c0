package imaging

import (
	"context"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// Request describes one image acquisition. It is immutable once submitted.
type Request struct {
	// Prompt is the textual description of the desired image.
	Prompt string

	// Size is the requested image dimensions, e.g. "1024x1024".
	Size string

	// Quality is the requested rendering quality ("standard" or "hd").
	Quality string
}

// ResultStatus distinguishes a real generated image from a placeholder.
type ResultStatus string

// Possible result status values
const (
	StatusGenerated   ResultStatus = "generated"
	StatusPlaceholder ResultStatus = "placeholder"
)

// Result is the outcome of one acquisition. Exactly one Result is produced
// per Request and it is not mutated after creation.
type Result struct {
	Status ResultStatus

	// URL references the remotely hosted image for generated results.
	URL string

	// Data holds image bytes: the provider payload when it returned bytes,
	// or the synthesized PNG for placeholder results.
	Data []byte

	MimeType string

	// Reason records the last observed failure for placeholder results.
	Reason domain.FailureReason

	// Attempts is the number of outbound calls made.
	Attempts int
}

// ProviderImage is the successful payload returned by a Provider.
// Exactly one of URL or Data is expected to be set.
type ProviderImage struct {
	URL      string
	Data     []byte
	MimeType string

	// RevisedPrompt is the provider's rewritten prompt, when reported.
	RevisedPrompt string
}

// Provider issues a single image-generation call to a remote service.
// Implementations map provider failures onto this package's classification
// sentinels (ErrRateLimited, ErrServerError, ErrContentPolicy, ErrNetwork).
type Provider interface {
	GenerateImage(ctx context.Context, req Request) (*ProviderImage, error)
}
