package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/draftsmith/draftsmith-api/internal/imaging"
	"github.com/draftsmith/draftsmith-api/internal/platform/logger"
)

// ErrMissingAPIKey is returned at construction when no API key is
// configured. Startup-fatal: features depending on the provider must not
// come up without a credential.
var ErrMissingAPIKey = errors.New("openai API key is required")

// imagesAPI is the slice of the SDK's image service used by the provider,
// abstracted for testing.
type imagesAPI interface {
	Generate(ctx context.Context, body openaisdk.ImageGenerateParams, opts ...option.RequestOption) (*openaisdk.ImagesResponse, error)
}

// ImageProvider implements imaging.Provider using the OpenAI Images API.
// It issues exactly one outbound call per GenerateImage invocation; retry
// policy belongs to the acquisition client, so SDK-internal retries are
// disabled.
type ImageProvider struct {
	images imagesAPI
	model  string
	logger *slog.Logger
}

// Ensure ImageProvider implements imaging.Provider
var _ imaging.Provider = (*ImageProvider)(nil)

// NewImageProvider creates an OpenAI-backed image provider from the image
// configuration. Returns ErrMissingAPIKey when no credential is configured.
func NewImageProvider(cfg config.ImageConfig, log *slog.Logger) (*ImageProvider, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.ModelName == "" {
		return nil, errors.New("image model name cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	client := openaisdk.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	return &ImageProvider{
		images: &client.Images,
		model:  cfg.ModelName,
		logger: log.With(slog.String("component", "openai_image_provider")),
	}, nil
}

// GenerateImage issues a single image-generation call and maps failures
// onto the imaging classification sentinels.
func (p *ImageProvider) GenerateImage(ctx context.Context, req imaging.Request) (*imaging.ProviderImage, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	params := openaisdk.ImageGenerateParams{
		Prompt:         req.Prompt,
		Model:          openaisdk.ImageModel(p.model),
		N:              openaisdk.Int(1),
		ResponseFormat: openaisdk.ImageGenerateParamsResponseFormatURL,
	}
	if req.Size != "" {
		params.Size = openaisdk.ImageGenerateParamsSize(req.Size)
	}
	if req.Quality != "" {
		params.Quality = openaisdk.ImageGenerateParamsQuality(req.Quality)
	}

	resp, err := p.images.Generate(ctx, params)
	if err != nil {
		log.Warn("image generation call failed", "model", p.model, "error", err)
		return nil, mapImageError(err)
	}

	if resp == nil || len(resp.Data) == 0 {
		return nil, imaging.ErrInvalidProviderResponse
	}

	data := resp.Data[0]
	switch {
	case data.URL != "":
		return &imaging.ProviderImage{
			URL:           data.URL,
			RevisedPrompt: data.RevisedPrompt,
		}, nil
	case data.B64JSON != "":
		raw, decodeErr := base64.StdEncoding.DecodeString(data.B64JSON)
		if decodeErr != nil {
			return nil, fmt.Errorf("%w: undecodable image payload: %v",
				imaging.ErrInvalidProviderResponse, decodeErr)
		}
		return &imaging.ProviderImage{
			Data:          raw,
			MimeType:      "image/png",
			RevisedPrompt: data.RevisedPrompt,
		}, nil
	default:
		return nil, imaging.ErrInvalidProviderResponse
	}
}
