package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/platform/logger"
	"github.com/draftsmith/draftsmith-api/internal/store"
)

// PostgresArticleStore implements the store.ArticleStore interface
// using a PostgreSQL database as the storage backend. Structured fields
// (keywords, sections, illustration) are stored as JSONB.
type PostgresArticleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresArticleStore creates a new PostgreSQL implementation of the
// ArticleStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresArticleStore(db store.DBTX, logger *slog.Logger) *PostgresArticleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresArticleStore{
		db:     db,
		logger: logger.With(slog.String("component", "article_store")),
	}
}

// Ensure PostgresArticleStore implements store.ArticleStore interface
var _ store.ArticleStore = (*PostgresArticleStore)(nil)

const articleColumns = `id, topic, keywords, tone, language, section_count, status,
	title, seo_title, meta_description, slug, sections, conclusion, cta,
	word_count, illustration, failure_detail, created_at, updated_at`

// Create implements store.ArticleStore.Create
// It saves a new article to the database, handling domain validation.
// Returns store.ErrSlugExists if the slug is already taken.
func (s *PostgresArticleStore) Create(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		log.Warn("article validation failed during create",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return err
	}

	keywords, sections, illustration, err := marshalArticleFields(article)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (` + articleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		article.ID,
		article.Topic,
		keywords,
		article.Tone,
		article.Language,
		article.SectionCount,
		article.Status,
		article.Title,
		article.SEOTitle,
		article.MetaDescription,
		nullableSlug(article.Slug),
		sections,
		article.Conclusion,
		article.CTA,
		article.WordCount,
		illustration,
		article.FailureDetail,
		article.CreatedAt,
		article.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return MapUniqueViolation(MapError(err), "article slug", store.ErrSlugExists)
	}

	log.Info("article created successfully",
		slog.String("article_id", article.ID.String()),
		slog.String("status", string(article.Status)))
	return nil
}

// GetByID implements store.ArticleStore.GetByID
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving article by ID", slog.String("article_id", id.String()))

	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	row := s.db.QueryRowContext(ctx, query, id)

	article, err := scanArticle(row)
	if err != nil {
		if IsNotFoundError(err) {
			log.Debug("article not found", slog.String("article_id", id.String()))
			return nil, store.ErrArticleNotFound
		}
		log.Error("failed to get article by ID",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()))
		return nil, err
	}

	return article, nil
}

// GetBySlug implements store.ArticleStore.GetBySlug
// Returns store.ErrArticleNotFound if no article carries the slug.
func (s *PostgresArticleStore) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`
	row := s.db.QueryRowContext(ctx, query, slug)

	article, err := scanArticle(row)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrArticleNotFound
		}
		log.Error("failed to get article by slug",
			slog.String("error", err.Error()),
			slog.String("slug", slug))
		return nil, err
	}

	return article, nil
}

// Update implements store.ArticleStore.Update
// It saves changes to an existing article, including generated content
// and the cover illustration.
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) Update(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := article.Validate(); err != nil {
		log.Warn("article validation failed during update",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return err
	}

	keywords, sections, illustration, err := marshalArticleFields(article)
	if err != nil {
		return err
	}

	query := `
		UPDATE articles
		SET topic = $2, keywords = $3, tone = $4, language = $5, section_count = $6,
			status = $7, title = $8, seo_title = $9, meta_description = $10,
			slug = $11, sections = $12, conclusion = $13, cta = $14,
			word_count = $15, illustration = $16, failure_detail = $17, updated_at = $18
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		article.ID,
		article.Topic,
		keywords,
		article.Tone,
		article.Language,
		article.SectionCount,
		article.Status,
		article.Title,
		article.SEOTitle,
		article.MetaDescription,
		nullableSlug(article.Slug),
		sections,
		article.Conclusion,
		article.CTA,
		article.WordCount,
		illustration,
		article.FailureDetail,
		article.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return MapUniqueViolation(MapError(err), "article slug", store.ErrSlugExists)
	}

	if err := CheckRowsAffected(result, "article"); err != nil {
		return store.ErrArticleNotFound
	}

	log.Debug("article updated successfully",
		slog.String("article_id", article.ID.String()),
		slog.String("status", string(article.Status)))
	return nil
}

// UpdateStatus implements store.ArticleStore.UpdateStatus
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ArticleStatus) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !domain.IsValidArticleStatus(status) {
		return domain.ErrInvalidArticleStatus
	}

	query := `UPDATE articles SET status = $2, updated_at = now() WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id, status)
	if err != nil {
		log.Error("failed to update article status",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "article"); err != nil {
		return store.ErrArticleNotFound
	}

	return nil
}

// FindArticlesByStatus implements store.ArticleStore.FindArticlesByStatus
func (s *PostgresArticleStore) FindArticlesByStatus(
	ctx context.Context,
	status domain.ArticleStatus,
	limit, offset int,
) ([]*domain.Article, error) {
	query := `SELECT ` + articleColumns + `
		FROM articles
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	return s.queryArticles(ctx, query, status, normalizeLimit(limit), offset)
}

// List implements store.ArticleStore.List
func (s *PostgresArticleStore) List(ctx context.Context, limit, offset int) ([]*domain.Article, error) {
	query := `SELECT ` + articleColumns + `
		FROM articles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	return s.queryArticles(ctx, query, normalizeLimit(limit), offset)
}

// Delete implements store.ArticleStore.Delete
// Returns store.ErrArticleNotFound if the article does not exist.
func (s *PostgresArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete article",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "article"); err != nil {
		return store.ErrArticleNotFound
	}

	log.Info("article deleted", slog.String("article_id", id.String()))
	return nil
}

// WithTx implements store.ArticleStore.WithTx
func (s *PostgresArticleStore) WithTx(tx *sql.Tx) store.ArticleStore {
	return &PostgresArticleStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresArticleStore) queryArticles(ctx context.Context, query string, args ...any) ([]*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query articles", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			log.Error("failed to scan article row", slog.String("error", err.Error()))
			return nil, err
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating article rows", slog.String("error", err.Error()))
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanArticle reads one article row, decoding the JSONB fields.
func scanArticle(row rowScanner) (*domain.Article, error) {
	var (
		article      domain.Article
		keywords     []byte
		slug         sql.NullString
		sections     []byte
		illustration []byte
	)

	err := row.Scan(
		&article.ID,
		&article.Topic,
		&keywords,
		&article.Tone,
		&article.Language,
		&article.SectionCount,
		&article.Status,
		&article.Title,
		&article.SEOTitle,
		&article.MetaDescription,
		&slug,
		&sections,
		&article.Conclusion,
		&article.CTA,
		&article.WordCount,
		&illustration,
		&article.FailureDetail,
		&article.CreatedAt,
		&article.UpdatedAt,
	)
	if err != nil {
		return nil, MapError(err)
	}

	article.Slug = slug.String

	if len(keywords) > 0 {
		if err := json.Unmarshal(keywords, &article.Keywords); err != nil {
			return nil, fmt.Errorf("failed to decode article keywords: %w", err)
		}
	}
	if len(sections) > 0 {
		if err := json.Unmarshal(sections, &article.Sections); err != nil {
			return nil, fmt.Errorf("failed to decode article sections: %w", err)
		}
	}
	if len(illustration) > 0 {
		article.Illustration = &domain.Illustration{}
		if err := json.Unmarshal(illustration, article.Illustration); err != nil {
			return nil, fmt.Errorf("failed to decode article illustration: %w", err)
		}
	}

	return &article, nil
}

// marshalArticleFields encodes the JSONB columns for insert/update.
func marshalArticleFields(article *domain.Article) (keywords, sections, illustration []byte, err error) {
	if len(article.Keywords) > 0 {
		keywords, err = json.Marshal(article.Keywords)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode article keywords: %w", err)
		}
	}
	if len(article.Sections) > 0 {
		sections, err = json.Marshal(article.Sections)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode article sections: %w", err)
		}
	}
	if article.Illustration != nil {
		illustration, err = json.Marshal(article.Illustration)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode article illustration: %w", err)
		}
	}
	return keywords, sections, illustration, nil
}

// nullableSlug stores empty slugs as NULL so the unique index only applies
// to articles that have one.
func nullableSlug(slug string) sql.NullString {
	return sql.NullString{String: slug, Valid: slug != ""}
}

// normalizeLimit applies a sane default when the caller passes a
// non-positive limit.
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	return limit
}
