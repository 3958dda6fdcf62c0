package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/generation"
	"github.com/draftsmith/draftsmith-api/internal/seo"
)

// articlePromptTemplate is the instruction sent to the chat model for each
// brief. The model must answer with a single JSON object matching
// articleSchema; the JSON response format enforces well-formed JSON but not
// the shape, so the shape is spelled out here and validated on parse.
const articlePromptTemplate = `You are a senior content writer. Write a complete article in {{.Language}}.

Writing style ({{.ToneName}}): {{.Personality}}
Target audience: {{.TargetAudience}}
Voice guidelines:
{{- range .Voice}}
- {{.}}
{{- end}}

Topic:
{{.Topic}}
{{- if .Keywords}}

Focus keywords (work them in naturally, primary keyword first):
{{- range .Keywords}}
- {{.}}
{{- end}}
{{- end}}

Produce exactly {{.SectionCount}} body sections. Respond with a single JSON object and nothing else, using this shape:

{
  "title": "article headline",
  "seo_title": "search-optimized headline, at most 60 characters",
  "meta_description": "search snippet, at most 160 characters",
  "sections": [
    {"heading": "section heading", "content": "section body text", "keywords": ["keywords used"]}
  ],
  "conclusion": "closing paragraph",
  "cta": "one-sentence call to action"
}`

// chatAPI is the slice of the SDK's chat completion service used by the
// generator, abstracted for testing.
type chatAPI interface {
	New(ctx context.Context, body openaisdk.ChatCompletionNewParams, opts ...option.RequestOption) (*openaisdk.ChatCompletion, error)
}

// ArticleGenerator implements the generation.Generator interface using the
// OpenAI chat completions API to generate articles from briefs.
type ArticleGenerator struct {
	// logger is used for structured logging
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// chat is the chat completion API for making requests
	chat chatAPI

	// model is the name of the chat model to use
	model string
}

// Ensure ArticleGenerator implements generation.Generator
var _ generation.Generator = (*ArticleGenerator)(nil)

// NewArticleGenerator creates a new instance of ArticleGenerator with the
// provided dependencies.
//
// Parameters:
//   - logger: A structured logger for operation logging
//   - config: LLM configuration containing API key, model name, and retry settings
//
// Returns:
//   - A properly initialized ArticleGenerator or an error if initialization fails
func NewArticleGenerator(logger *slog.Logger, cfg config.LLMConfig) (*ArticleGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	// Validate configuration
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidConfig, ErrMissingAPIKey)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("article").Parse(articlePromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client := openaisdk.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	)

	return &ArticleGenerator{
		logger:         logger.With(slog.String("component", "openai_article_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		chat:           &client.Chat.Completions,
		model:          cfg.ModelName,
	}, nil
}

// createPrompt generates a prompt string from the template with the provided brief.
func (g *ArticleGenerator) createPrompt(ctx context.Context, brief generation.Brief) (string, error) {
	if brief.Topic == "" {
		return "", generation.ErrEmptyTopic
	}

	profile := generation.ProfileFor(brief.Tone)
	data := promptData{
		Topic:          brief.Topic,
		Keywords:       brief.Keywords,
		ToneName:       string(brief.Tone),
		Personality:    profile.Personality,
		TargetAudience: profile.TargetAudience,
		Voice:          profile.Voice,
		Language:       brief.Language,
		SectionCount:   brief.SectionCount,
	}

	g.logger.DebugContext(ctx, "Generating prompt from template",
		"topic_length", len(brief.Topic),
		"section_count", brief.SectionCount)

	var promptBuffer bytes.Buffer
	if err := g.promptTemplate.Execute(&promptBuffer, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// callChatWithRetry makes a call to the chat completions API with exponential
// backoff retry logic.
//
// It attempts the call up to config.MaxRetries additional times, using
// exponential backoff with jitter between retries for transient errors.
// Permanent errors (content blocked by the provider's filters, unparseable
// responses) are returned immediately without retrying.
func (g *ArticleGenerator) callChatWithRetry(ctx context.Context, prompt string) (*articleSchema, error) {
	if prompt == "" {
		return nil, generation.ErrEmptyTopic
	}

	maxRetries := g.config.MaxRetries
	baseDelaySeconds := g.config.RetryDelaySeconds
	attempt := 0
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	if maxRetries < 0 {
		g.logger.WarnContext(ctx, "Invalid max retries value, using default", "max_retries", 3)
		maxRetries = 3
	}

	if baseDelaySeconds < 1 {
		g.logger.WarnContext(ctx, "Invalid retry delay value, using default", "base_delay_seconds", 2)
		baseDelaySeconds = 2
	}

	params := openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(prompt),
		},
		ResponseFormat: openaisdk.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if g.config.MaxTokens > 0 {
		params.MaxCompletionTokens = openaisdk.Int(int64(g.config.MaxTokens))
	}

	for attempt <= maxRetries {
		attemptNum := attempt + 1 // For logging (1-based)
		g.logger.InfoContext(ctx, "Making chat completion call",
			"attempt", attemptNum,
			"max_attempts", maxRetries+1)

		var response *articleSchema
		var isTransientError bool

		resp, err := g.chat.New(ctx, params)
		if err != nil {
			// API or transport failure. Retry only for rate limits,
			// server errors and plain transport errors.
			var apierr *openaisdk.Error
			if errors.As(err, &apierr) {
				isTransientError = isTransientStatus(apierr.StatusCode)
			} else {
				isTransientError = true
			}
			g.logger.ErrorContext(ctx, "Chat completion call error",
				"error", err,
				"attempt", attemptNum)
		} else if resp == nil || len(resp.Choices) == 0 {
			err = fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
		} else if resp.Choices[0].FinishReason == "content_filter" {
			err = fmt.Errorf("%w: content blocked by provider filters", generation.ErrContentBlocked)
		} else if resp.Choices[0].Message.Content == "" {
			err = fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
		} else {
			var parsed articleSchema
			if err = json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
				err = fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
			} else {
				response = &parsed
			}
		}

		if err == nil {
			g.logger.InfoContext(ctx, "Chat completion call successful",
				"attempt", attemptNum)
			return response, nil
		}

		g.logger.ErrorContext(ctx, "Chat completion call failed",
			"attempt", attemptNum,
			"error", err)

		// Permanent errors are returned immediately
		if errors.Is(err, generation.ErrContentBlocked) || errors.Is(err, generation.ErrInvalidResponse) {
			g.logger.WarnContext(ctx, "Permanent error occurred, not retrying",
				"error_type", err)
			return nil, err
		}

		if attempt >= maxRetries {
			g.logger.WarnContext(ctx, "Maximum retry attempts reached",
				"max_retries", maxRetries)
			return nil, fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
				generation.ErrTransientFailure, maxRetries, err)
		}

		if !isTransientError {
			g.logger.WarnContext(ctx, "Non-transient error occurred, not retrying")
			return nil, err
		}

		// Calculate exponential backoff with jitter
		// delay = baseDelay * (2^attempt) * (0.5 + rand(0, 0.5))
		backoffSeconds := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		jitterFactor := 0.5 + rng.Float64()*0.5 // Between 0.5 and 1.0
		delaySeconds := backoffSeconds * jitterFactor
		delay := time.Duration(delaySeconds * float64(time.Second))

		g.logger.InfoContext(ctx, "Retrying after delay",
			"attempt", attemptNum,
			"delay_seconds", delaySeconds)

		select {
		case <-time.After(delay):
			// Continue to next retry
		case <-ctx.Done():
			g.logger.WarnContext(ctx, "API call cancelled during retry delay",
				"attempt", attemptNum,
				"ctx_err", ctx.Err())
			return nil, fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
		}

		attempt++
	}

	// Unreachable given the checks inside the loop, kept as a safeguard.
	return nil, fmt.Errorf("%w: failed after %d attempts",
		generation.ErrTransientFailure, attempt)
}

// parseResponse converts an articleSchema from the API into generation.ArticleContent.
//
// It validates the structural requirements of the response and fills in the
// derived fields (slug, per-section word counts). If any required field is
// missing, it returns an error and no content.
func (g *ArticleGenerator) parseResponse(
	ctx context.Context,
	response *articleSchema,
	brief generation.Brief,
) (*generation.ArticleContent, error) {
	if response == nil {
		return nil, fmt.Errorf("%w: response is nil", generation.ErrInvalidResponse)
	}

	if response.Title == "" {
		return nil, fmt.Errorf("%w: missing article title", generation.ErrInvalidResponse)
	}

	if len(response.Sections) == 0 {
		return nil, fmt.Errorf("%w: no sections in response", generation.ErrInvalidResponse)
	}

	g.logger.InfoContext(ctx, "Parsing chat completion response",
		"section_count", len(response.Sections),
		"title_length", len(response.Title))

	sections := make([]domain.Section, 0, len(response.Sections))
	for i, s := range response.Sections {
		if s.Heading == "" {
			return nil, fmt.Errorf("%w: section %d missing heading", generation.ErrInvalidResponse, i)
		}
		if s.Content == "" {
			return nil, fmt.Errorf("%w: section %d missing content", generation.ErrInvalidResponse, i)
		}

		sections = append(sections, domain.Section{
			Heading:   s.Heading,
			Content:   s.Content,
			Keywords:  s.Keywords,
			WordCount: len(strings.Fields(s.Content)),
		})
	}

	seoTitle := response.SEOTitle
	if seoTitle == "" {
		seoTitle = response.Title
	}

	content := &generation.ArticleContent{
		Title:           response.Title,
		SEOTitle:        seoTitle,
		MetaDescription: seo.TrimMetaDescription(response.MetaDescription),
		Slug:            seo.Slugify(response.Title),
		Sections:        sections,
		Conclusion:      response.Conclusion,
		CTA:             response.CTA,
	}

	g.logger.InfoContext(ctx, "Successfully parsed API response",
		"slug", content.Slug,
		"sections", len(content.Sections))

	return content, nil
}

// GenerateArticle produces article content for the given brief.
func (g *ArticleGenerator) GenerateArticle(
	ctx context.Context,
	brief generation.Brief,
) (*generation.ArticleContent, error) {
	prompt, err := g.createPrompt(ctx, brief)
	if err != nil {
		return nil, err
	}

	response, err := g.callChatWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return g.parseResponse(ctx, response, brief)
}
