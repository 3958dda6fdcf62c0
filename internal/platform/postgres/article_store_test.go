package postgres

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/store"
)

func newArticleStoreWithMock(t *testing.T) (*PostgresArticleStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewPostgresArticleStore(db, log), mock
}

func testArticle(t *testing.T) *domain.Article {
	t.Helper()
	article, err := domain.NewArticle(
		"how tidal energy works",
		[]string{"tidal energy", "renewables"},
		domain.ToneTechnical,
		"English",
		4,
	)
	require.NoError(t, err)
	return article
}

func articleRow(article *domain.Article) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "topic", "keywords", "tone", "language", "section_count", "status",
		"title", "seo_title", "meta_description", "slug", "sections", "conclusion",
		"cta", "word_count", "illustration", "failure_detail", "created_at", "updated_at",
	}).AddRow(
		article.ID.String(),
		article.Topic,
		[]byte(`["tidal energy","renewables"]`),
		string(article.Tone),
		article.Language,
		article.SectionCount,
		string(article.Status),
		article.Title,
		article.SEOTitle,
		article.MetaDescription,
		nil,
		nil,
		article.Conclusion,
		article.CTA,
		article.WordCount,
		nil,
		article.FailureDetail,
		article.CreatedAt,
		article.UpdatedAt,
	)
}

func TestPostgresArticleStore_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)
		article := testArticle(t)

		mock.ExpectExec("INSERT INTO articles").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, articleStore.Create(context.Background(), article))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate slug", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)
		article := testArticle(t)
		article.Slug = "how-tidal-energy-works"

		mock.ExpectExec("INSERT INTO articles").
			WillReturnError(pgError(uniqueViolationCode, "idx_articles_slug"))

		err := articleStore.Create(context.Background(), article)
		assert.ErrorIs(t, err, store.ErrSlugExists)
	})

	t.Run("invalid article rejected before hitting the database", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)
		article := testArticle(t)
		article.Topic = ""

		err := articleStore.Create(context.Background(), article)
		assert.ErrorIs(t, err, domain.ErrArticleTopicEmpty)
		assert.NoError(t, mock.ExpectationsWereMet(), "no query should be issued")
	})
}

func TestPostgresArticleStore_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)
		article := testArticle(t)

		mock.ExpectQuery("SELECT (.+) FROM articles WHERE id =").
			WillReturnRows(articleRow(article))

		got, err := articleStore.GetByID(context.Background(), article.ID)
		require.NoError(t, err)
		assert.Equal(t, article.ID, got.ID)
		assert.Equal(t, article.Topic, got.Topic)
		assert.Equal(t, []string{"tidal energy", "renewables"}, got.Keywords)
		assert.Empty(t, got.Slug)
		assert.Nil(t, got.Illustration)
	})

	t.Run("not found", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectQuery("SELECT (.+) FROM articles WHERE id =").
			WillReturnError(sql.ErrNoRows)

		_, err := articleStore.GetByID(context.Background(), testArticle(t).ID)
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})
}

func TestPostgresArticleStore_GetBySlug(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectQuery("SELECT (.+) FROM articles WHERE slug =").
			WillReturnError(sql.ErrNoRows)

		_, err := articleStore.GetBySlug(context.Background(), "missing-slug")
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})
}

func TestPostgresArticleStore_Update(t *testing.T) {
	t.Run("success with illustration", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)
		article := testArticle(t)
		article.Title = "How Tidal Energy Works"
		article.Slug = "how-tidal-energy-works"
		article.Sections = []domain.Section{{Heading: "Basics", Content: "Tides move water.", WordCount: 3}}
		article.Illustration = &domain.Illustration{
			Status:    domain.IllustrationStatusGenerated,
			Prompt:    "tidal turbines at sunrise",
			URL:       "https://img.example.com/tidal.png",
			Attempts:  1,
			CreatedAt: time.Now().UTC(),
		}
		article.MarkCompleted()

		mock.ExpectExec("UPDATE articles").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, articleStore.Update(context.Background(), article))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing article", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectExec("UPDATE articles").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := articleStore.Update(context.Background(), testArticle(t))
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})
}

func TestPostgresArticleStore_UpdateStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectExec("UPDATE articles SET status =").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := articleStore.UpdateStatus(context.Background(), testArticle(t).ID, domain.ArticleStatusProcessing)
		assert.NoError(t, err)
	})

	t.Run("invalid status", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		err := articleStore.UpdateStatus(context.Background(), testArticle(t).ID, domain.ArticleStatus("archived"))
		assert.ErrorIs(t, err, domain.ErrInvalidArticleStatus)
		assert.NoError(t, mock.ExpectationsWereMet(), "no query should be issued")
	})

	t.Run("missing article", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectExec("UPDATE articles SET status =").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := articleStore.UpdateStatus(context.Background(), testArticle(t).ID, domain.ArticleStatusFailed)
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})
}

func TestPostgresArticleStore_List(t *testing.T) {
	articleStore, mock := newArticleStoreWithMock(t)
	article := testArticle(t)

	mock.ExpectQuery("SELECT (.+) FROM articles").
		WillReturnRows(articleRow(article))

	articles, err := articleStore.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, article.ID, articles[0].ID)
}

func TestPostgresArticleStore_FindArticlesByStatus(t *testing.T) {
	articleStore, mock := newArticleStoreWithMock(t)

	mock.ExpectQuery("SELECT (.+) FROM articles").
		WillReturnRows(articleRow(testArticle(t)))

	articles, err := articleStore.FindArticlesByStatus(context.Background(), domain.ArticleStatusPending, 10, 0)
	require.NoError(t, err)
	assert.Len(t, articles, 1)
}

func TestPostgresArticleStore_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectExec("DELETE FROM articles").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, articleStore.Delete(context.Background(), testArticle(t).ID))
	})

	t.Run("missing article", func(t *testing.T) {
		articleStore, mock := newArticleStoreWithMock(t)

		mock.ExpectExec("DELETE FROM articles").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := articleStore.Delete(context.Background(), testArticle(t).ID)
		assert.ErrorIs(t, err, store.ErrArticleNotFound)
	})
}

func TestPostgresArticleStore_WithTx(t *testing.T) {
	articleStore, mock := newArticleStoreWithMock(t)

	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()
	dbMock.ExpectBegin()

	tx, err := db.Begin()
	require.NoError(t, err)

	txStore := articleStore.WithTx(tx)
	assert.NotNil(t, txStore)
	assert.NotSame(t, articleStore, txStore)
	assert.NoError(t, mock.ExpectationsWereMet())
}
