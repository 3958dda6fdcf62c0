package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/generation"
	"github.com/draftsmith/draftsmith-api/internal/imaging"
)

// Status constants for ArticleGenerationTask
// These match the TaskStatus values defined in task.go
const (
	statusPending    = "pending"
	statusProcessing = "processing"
	statusCompleted  = "completed"
	statusFailed     = "failed"
)

// Common errors
var (
	ErrNilArticleService = errors.New("article service cannot be nil")
	ErrNilGenerator      = errors.New("generator cannot be nil")
	ErrNilImageAcquirer  = errors.New("image acquirer cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyArticleID    = errors.New("article ID cannot be empty")
)

// ArticleService defines the article operations the task needs.
// The service layer implements this; keeping it narrow avoids a task
// dependency on the full service package.
type ArticleService interface {
	// GetArticle retrieves an article by its ID
	GetArticle(ctx context.Context, articleID uuid.UUID) (*domain.Article, error)

	// UpdateArticleStatus updates an article's status
	UpdateArticleStatus(ctx context.Context, articleID uuid.UUID, status domain.ArticleStatus) error

	// MarkArticleFailed transitions an article to the failed state with a detail message
	MarkArticleFailed(ctx context.Context, articleID uuid.UUID, detail string) error

	// SaveGeneratedArticle persists a fully generated article, including
	// its content and cover illustration
	SaveGeneratedArticle(ctx context.Context, article *domain.Article) error
}

// ImageAcquirer resolves a cover image request to exactly one result,
// real or placeholder.
type ImageAcquirer interface {
	Acquire(ctx context.Context, req imaging.Request) (*imaging.Result, error)
}

// articleGenerationPayload represents the serialized data stored in the task
type articleGenerationPayload struct {
	ArticleID uuid.UUID `json:"article_id"`
}

// ArticleGenerationTask implements the Task interface for generating an
// article and acquiring its cover illustration
type ArticleGenerationTask struct {
	id             uuid.UUID
	articleID      uuid.UUID
	articleService ArticleService
	generator      generation.Generator
	imageAcquirer  ImageAcquirer
	coverSize      string
	coverQuality   string
	logger         *slog.Logger
	status         string
}

// NewArticleGenerationTask creates a new article generation task
func NewArticleGenerationTask(
	articleID uuid.UUID,
	articleService ArticleService,
	generator generation.Generator,
	imageAcquirer ImageAcquirer,
	coverSize string,
	coverQuality string,
	logger *slog.Logger,
) (*ArticleGenerationTask, error) {
	if articleService == nil {
		return nil, ErrNilArticleService
	}
	if generator == nil {
		return nil, ErrNilGenerator
	}
	if imageAcquirer == nil {
		return nil, ErrNilImageAcquirer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	if articleID == uuid.Nil {
		return nil, ErrEmptyArticleID
	}

	return &ArticleGenerationTask{
		id:             uuid.New(),
		articleID:      articleID,
		articleService: articleService,
		generator:      generator,
		imageAcquirer:  imageAcquirer,
		coverSize:      coverSize,
		coverQuality:   coverQuality,
		logger:         logger.With("task_type", TaskTypeArticleGeneration, "article_id", articleID),
		status:         statusPending,
	}, nil
}

// ID returns the task's unique identifier
func (t *ArticleGenerationTask) ID() uuid.UUID {
	return t.id
}

// Type returns the task type identifier
func (t *ArticleGenerationTask) Type() string {
	return TaskTypeArticleGeneration
}

// Payload returns the task data as a byte slice
func (t *ArticleGenerationTask) Payload() []byte {
	payload := articleGenerationPayload{
		ArticleID: t.articleID,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		// If marshal fails, return an empty payload with error logged
		t.logger.Error("failed to marshal task payload", "error", err)
		return []byte{}
	}

	return data
}

// Status returns the current task status
func (t *ArticleGenerationTask) Status() TaskStatus {
	return TaskStatus(t.status)
}

// Execute runs the article generation task, handling the complete lifecycle:
// fetching the article, generating its content, acquiring the cover
// illustration, and saving the result. Content generation failures mark the
// article failed; cover image failures never do, because acquisition always
// resolves to a usable image, real or placeholder.
func (t *ArticleGenerationTask) Execute(ctx context.Context) error {
	t.status = statusProcessing
	t.logger.Info("starting article generation task")

	if err := ctx.Err(); err != nil {
		t.status = statusFailed
		t.logger.Error("task cancelled by context", "error", err)
		return fmt.Errorf("task cancelled by context: %w", err)
	}

	// 1. Retrieve the article
	article, err := t.articleService.GetArticle(ctx, t.articleID)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to retrieve article", "error", err)
		return fmt.Errorf("failed to retrieve article: %w", err)
	}

	t.logger.Info("retrieved article", "topic_length", len(article.Topic), "article_status", article.Status)

	// 2. Update article status to processing
	err = t.articleService.UpdateArticleStatus(ctx, t.articleID, domain.ArticleStatusProcessing)
	if err != nil {
		t.status = statusFailed
		t.logger.Error("failed to update article status to processing", "error", err)
		return fmt.Errorf("failed to update article status to processing: %w", err)
	}

	// 3. Generate the article content
	t.logger.Info("generating article content")
	content, err := t.generator.GenerateArticle(ctx, generation.Brief{
		Topic:        article.Topic,
		Keywords:     article.Keywords,
		Tone:         article.Tone,
		Language:     article.Language,
		SectionCount: article.SectionCount,
	})
	if err != nil {
		_ = t.articleService.MarkArticleFailed(ctx, t.articleID, err.Error())
		t.status = statusFailed
		t.logger.Error("failed to generate article content", "error", err)
		return fmt.Errorf("failed to generate article content: %w", err)
	}

	article.Title = content.Title
	article.SEOTitle = content.SEOTitle
	article.MetaDescription = content.MetaDescription
	article.Slug = content.Slug
	article.Sections = content.Sections
	article.Conclusion = content.Conclusion
	article.CTA = content.CTA
	article.WordCount = article.TotalWordCount()

	t.logger.Info("article content generated",
		"sections", len(article.Sections),
		"word_count", article.WordCount)

	// 4. Acquire the cover illustration. This always resolves: on repeated
	// provider failures the acquirer substitutes a placeholder.
	prompt := imaging.BuildCoverPrompt(article)
	result, err := t.imageAcquirer.Acquire(ctx, imaging.Request{
		Prompt:  prompt,
		Size:    t.coverSize,
		Quality: t.coverQuality,
	})
	if err != nil {
		// Only reachable on cancellation before the first outbound call or
		// an empty prompt. The generated content is kept either way.
		_ = t.articleService.MarkArticleFailed(ctx, t.articleID, err.Error())
		t.status = statusFailed
		t.logger.Error("cover image acquisition aborted", "error", err)
		return fmt.Errorf("cover image acquisition aborted: %w", err)
	}

	article.Illustration = &domain.Illustration{
		Status:    illustrationStatus(result.Status),
		Prompt:    prompt,
		URL:       result.URL,
		Data:      result.Data,
		MimeType:  result.MimeType,
		Reason:    result.Reason,
		Attempts:  result.Attempts,
		CreatedAt: time.Now().UTC(),
	}

	if result.Status == imaging.StatusPlaceholder {
		t.logger.Warn("cover image fell back to placeholder",
			"reason", result.Reason,
			"attempts", result.Attempts)
	}

	// 5. Save the completed article
	article.MarkCompleted()
	if err := t.articleService.SaveGeneratedArticle(ctx, article); err != nil {
		_ = t.articleService.MarkArticleFailed(ctx, t.articleID, err.Error())
		t.status = statusFailed
		t.logger.Error("failed to save generated article", "error", err)
		return fmt.Errorf("failed to save generated article: %w", err)
	}

	t.status = statusCompleted
	t.logger.Info("article generation task completed successfully",
		"slug", article.Slug,
		"illustration_status", article.Illustration.Status)
	return nil
}

// illustrationStatus converts an acquisition result status to the domain type.
func illustrationStatus(s imaging.ResultStatus) domain.IllustrationStatus {
	if s == imaging.StatusPlaceholder {
		return domain.IllustrationStatusPlaceholder
	}
	return domain.IllustrationStatusGenerated
}
