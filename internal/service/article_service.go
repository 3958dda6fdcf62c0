package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/events"
	"github.com/draftsmith/draftsmith-api/internal/store"
	"github.com/draftsmith/draftsmith-api/internal/task"
)

// ArticleRepository defines the repository interface for the service layer.
// It is aligned with store.ArticleStore, plus access to the underlying
// database handle for transactional operations.
type ArticleRepository interface {
	// Create saves a new article to the store
	Create(ctx context.Context, article *domain.Article) error

	// GetByID retrieves an article by its unique ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// GetBySlug retrieves an article by its URL slug
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)

	// Update saves changes to an existing article
	Update(ctx context.Context, article *domain.Article) error

	// UpdateStatus updates only the status column of an article
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ArticleStatus) error

	// List retrieves articles ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Article, error)

	// FindArticlesByStatus retrieves articles in the given status
	FindArticlesByStatus(ctx context.Context, status domain.ArticleStatus, limit, offset int) ([]*domain.Article, error)

	// Delete removes an article
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) ArticleRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ArticleRequest carries the inputs for generating a new article.
type ArticleRequest struct {
	Topic        string
	Keywords     []string
	Tone         domain.Tone
	Language     string
	SectionCount int
}

// ArticleService provides article-related operations.
type ArticleService interface {
	// CreateArticleAndEnqueueTask creates a new pending article and emits an
	// event requesting its generation
	CreateArticleAndEnqueueTask(ctx context.Context, req ArticleRequest) (*domain.Article, error)

	// GetArticle retrieves an article by its ID
	GetArticle(ctx context.Context, articleID uuid.UUID) (*domain.Article, error)

	// GetArticleBySlug retrieves an article by its URL slug
	GetArticleBySlug(ctx context.Context, slug string) (*domain.Article, error)

	// ListArticles retrieves articles, newest first
	ListArticles(ctx context.Context, limit, offset int) ([]*domain.Article, error)

	// UpdateArticleStatus updates an article's status
	UpdateArticleStatus(ctx context.Context, articleID uuid.UUID, status domain.ArticleStatus) error

	// MarkArticleFailed transitions an article to the failed state,
	// recording the failure detail
	MarkArticleFailed(ctx context.Context, articleID uuid.UUID, detail string) error

	// SaveGeneratedArticle persists a fully generated article, including
	// its content and cover illustration
	SaveGeneratedArticle(ctx context.Context, article *domain.Article) error

	// DeleteArticle removes an article
	DeleteArticle(ctx context.Context, articleID uuid.UUID) error
}

// Common sentinel errors for ArticleService
var (
	// ErrArticleNotFound indicates that the article does not exist
	ErrArticleNotFound = errors.New("article not found")

	// ErrSlugTaken indicates the generated slug collides with an existing article
	ErrSlugTaken = errors.New("article slug already taken")
)

// ArticleServiceError wraps errors from the article service with context.
type ArticleServiceError struct {
	// Operation is the operation that failed (e.g., "create_article")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ArticleServiceError.
func (e *ArticleServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("article service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("article service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ArticleServiceError) Unwrap() error {
	return e.Err
}

// NewArticleServiceError creates a new ArticleServiceError.
// It returns known sentinel errors directly without wrapping.
func NewArticleServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrArticleNotFound) {
		return ErrArticleNotFound
	}
	if errors.Is(err, store.ErrArticleNotFound) {
		return ErrArticleNotFound
	}
	if errors.Is(err, ErrSlugTaken) || errors.Is(err, store.ErrSlugExists) {
		return ErrSlugTaken
	}

	return &ArticleServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// articleServiceImpl implements the ArticleService interface
type articleServiceImpl struct {
	articleRepo  ArticleRepository
	eventEmitter events.EventEmitter
	logger       *slog.Logger
}

// Compile-time check that the service satisfies the task layer's contract.
var _ task.ArticleService = (ArticleService)(nil)

// NewArticleService creates a new ArticleService.
// It returns an error if any of the required dependencies are nil.
func NewArticleService(
	articleRepo ArticleRepository,
	eventEmitter events.EventEmitter,
	logger *slog.Logger,
) (ArticleService, error) {
	if articleRepo == nil {
		return nil, &ArticleServiceError{
			Operation: "create_service",
			Message:   "articleRepo cannot be nil",
		}
	}
	if eventEmitter == nil {
		return nil, &ArticleServiceError{
			Operation: "create_service",
			Message:   "eventEmitter cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &articleServiceImpl{
		articleRepo:  articleRepo,
		eventEmitter: eventEmitter,
		logger:       logger.With("component", "article_service"),
	}, nil
}

// runInTransaction runs fn against a transaction-bound repository. A
// repository without a database handle (already transaction-scoped, or an
// in-memory implementation) runs fn directly.
func (s *articleServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(ctx context.Context, repo ArticleRepository) error,
) error {
	db := s.articleRepo.DB()
	if db == nil {
		return fn(ctx, s.articleRepo)
	}
	return store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.articleRepo.WithTx(tx))
	})
}

// CreateArticleAndEnqueueTask creates a new article with pending status and
// emits an event requesting its generation.
// Uses a transaction for the article creation part to ensure atomicity.
func (s *articleServiceImpl) CreateArticleAndEnqueueTask(
	ctx context.Context,
	req ArticleRequest,
) (*domain.Article, error) {
	// 1. Create a new article with pending status
	article, err := domain.NewArticle(req.Topic, req.Keywords, req.Tone, req.Language, req.SectionCount)
	if err != nil {
		s.logger.Error("failed to create article object",
			"error", err,
			"topic", req.Topic)
		return nil, NewArticleServiceError("create_article", "failed to create article object", err)
	}

	// 2. Save the article to the database using a transaction
	err = s.runInTransaction(ctx, func(ctx context.Context, txRepo ArticleRepository) error {
		if err := txRepo.Create(ctx, article); err != nil {
			s.logger.Error("failed to create article in transaction",
				"error", err,
				"article_id", article.ID)
			return NewArticleServiceError("create_article", "failed to save article to database", err)
		}
		return nil
	})
	if err != nil {
		// Error is already wrapped in the transaction
		return nil, err
	}

	s.logger.Info("article created successfully with pending status",
		"article_id", article.ID,
		"topic", article.Topic)

	// 3. Create a payload for the event
	payload := struct {
		ArticleID uuid.UUID `json:"article_id"`
	}{
		ArticleID: article.ID,
	}

	// 4. Create and emit a TaskRequestEvent
	event, err := events.NewTaskRequestEvent(task.TaskTypeArticleGeneration, payload)
	if err != nil {
		s.logger.Error("failed to create article generation event",
			"error", err,
			"article_id", article.ID)
		return nil, NewArticleServiceError("create_article", "failed to create event", err)
	}

	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit article generation event",
			"error", err,
			"article_id", article.ID,
			"event_id", event.ID)
		return nil, NewArticleServiceError("create_article", "failed to emit event", err)
	}

	s.logger.Info("article generation event emitted successfully",
		"article_id", article.ID,
		"event_id", event.ID)

	return article, nil
}

// GetArticle retrieves an article by its ID.
func (s *articleServiceImpl) GetArticle(ctx context.Context, articleID uuid.UUID) (*domain.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrArticleNotFound) {
			return nil, ErrArticleNotFound
		}
		s.logger.Error("failed to retrieve article",
			"error", err,
			"article_id", articleID)
		return nil, NewArticleServiceError("get_article", "failed to retrieve article", err)
	}

	return article, nil
}

// GetArticleBySlug retrieves an article by its URL slug.
func (s *articleServiceImpl) GetArticleBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	article, err := s.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrArticleNotFound) {
			return nil, ErrArticleNotFound
		}
		s.logger.Error("failed to retrieve article by slug",
			"error", err,
			"slug", slug)
		return nil, NewArticleServiceError("get_article_by_slug", "failed to retrieve article", err)
	}

	return article, nil
}

// ListArticles retrieves articles, newest first.
func (s *articleServiceImpl) ListArticles(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	articles, err := s.articleRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list articles", "error", err)
		return nil, NewArticleServiceError("list_articles", "failed to list articles", err)
	}
	return articles, nil
}

// UpdateArticleStatus updates an article's status.
func (s *articleServiceImpl) UpdateArticleStatus(
	ctx context.Context,
	articleID uuid.UUID,
	status domain.ArticleStatus,
) error {
	err := s.articleRepo.UpdateStatus(ctx, articleID, status)
	if err != nil {
		if errors.Is(err, store.ErrArticleNotFound) {
			return ErrArticleNotFound
		}
		s.logger.Error("failed to update article status",
			"error", err,
			"article_id", articleID,
			"status", status)
		return NewArticleServiceError(
			"update_article_status",
			fmt.Sprintf("failed to update article status to %s", status),
			err,
		)
	}

	s.logger.Info("article status updated",
		"article_id", articleID,
		"status", status)
	return nil
}

// MarkArticleFailed transitions an article to the failed state, recording
// the failure detail. Uses a transaction so the status and detail change
// atomically.
func (s *articleServiceImpl) MarkArticleFailed(
	ctx context.Context,
	articleID uuid.UUID,
	detail string,
) error {
	return s.runInTransaction(
		ctx,
		func(ctx context.Context, txRepo ArticleRepository) error {
			article, err := txRepo.GetByID(ctx, articleID)
			if err != nil {
				if errors.Is(err, store.ErrArticleNotFound) {
					return ErrArticleNotFound
				}
				s.logger.Error("failed to retrieve article to mark failed",
					"error", err,
					"article_id", articleID)
				return NewArticleServiceError("mark_article_failed", "failed to retrieve article", err)
			}

			article.MarkFailed(detail)

			if err := txRepo.Update(ctx, article); err != nil {
				s.logger.Error("failed to save failed article",
					"error", err,
					"article_id", articleID)
				return NewArticleServiceError("mark_article_failed", "failed to save article", err)
			}

			s.logger.Info("article marked as failed",
				"article_id", articleID,
				"detail", detail)
			return nil
		},
	)
}

// SaveGeneratedArticle persists a fully generated article, including its
// content and cover illustration.
func (s *articleServiceImpl) SaveGeneratedArticle(ctx context.Context, article *domain.Article) error {
	if article == nil {
		return &ArticleServiceError{
			Operation: "save_generated_article",
			Message:   "article cannot be nil",
		}
	}

	err := s.articleRepo.Update(ctx, article)
	if err != nil {
		if errors.Is(err, store.ErrArticleNotFound) {
			return ErrArticleNotFound
		}
		if errors.Is(err, store.ErrSlugExists) {
			return ErrSlugTaken
		}
		s.logger.Error("failed to save generated article",
			"error", err,
			"article_id", article.ID)
		return NewArticleServiceError("save_generated_article", "failed to save article", err)
	}

	s.logger.Info("generated article saved",
		"article_id", article.ID,
		"status", article.Status,
		"word_count", article.WordCount)
	return nil
}

// DeleteArticle removes an article.
func (s *articleServiceImpl) DeleteArticle(ctx context.Context, articleID uuid.UUID) error {
	err := s.articleRepo.Delete(ctx, articleID)
	if err != nil {
		if errors.Is(err, store.ErrArticleNotFound) {
			return ErrArticleNotFound
		}
		s.logger.Error("failed to delete article",
			"error", err,
			"article_id", articleID)
		return NewArticleServiceError("delete_article", "failed to delete article", err)
	}

	s.logger.Info("article deleted", "article_id", articleID)
	return nil
}
