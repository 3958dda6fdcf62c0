package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// ArticleStore defines the interface for article data persistence.
type ArticleStore interface {
	// Create saves a new article to the store.
	// It handles domain validation internally.
	// Returns validation errors from the domain Article if data is invalid.
	Create(ctx context.Context, article *domain.Article) error

	// GetByID retrieves an article by its unique ID.
	// Returns ErrArticleNotFound if the article does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// GetBySlug retrieves a completed article by its slug.
	// Returns ErrArticleNotFound if no article carries the slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)

	// Update saves changes to an existing article, including its
	// generated content and cover illustration.
	// Returns ErrArticleNotFound if the article does not exist.
	// Returns validation errors if the article data is invalid.
	Update(ctx context.Context, article *domain.Article) error

	// UpdateStatus updates the status of an existing article.
	// Returns ErrArticleNotFound if the article does not exist.
	// Returns validation errors if the status is invalid.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ArticleStatus) error

	// FindArticlesByStatus retrieves all articles with the specified status,
	// newest first. Returns an empty slice if no articles match.
	// Can limit the number of results and paginate through offset.
	FindArticlesByStatus(ctx context.Context, status domain.ArticleStatus, limit, offset int) ([]*domain.Article, error)

	// List retrieves articles regardless of status, newest first.
	// Can limit the number of results and paginate through offset.
	List(ctx context.Context, limit, offset int) ([]*domain.Article, error)

	// Delete removes an article from the store by its ID.
	// Returns ErrArticleNotFound if the article does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ArticleStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ArticleStore
}
