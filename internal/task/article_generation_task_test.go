package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/generation"
	"github.com/draftsmith/draftsmith-api/internal/imaging"
)

// mockArticleService records calls and returns scripted results.
type mockArticleService struct {
	article *domain.Article

	getErr    error
	updateErr error
	saveErr   error

	statusUpdates []domain.ArticleStatus
	failedDetail  string
	failedCalls   int
	saved         *domain.Article
}

func (m *mockArticleService) GetArticle(_ context.Context, _ uuid.UUID) (*domain.Article, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.article, nil
}

func (m *mockArticleService) UpdateArticleStatus(_ context.Context, _ uuid.UUID, status domain.ArticleStatus) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockArticleService) MarkArticleFailed(_ context.Context, _ uuid.UUID, detail string) error {
	m.failedCalls++
	m.failedDetail = detail
	return nil
}

func (m *mockArticleService) SaveGeneratedArticle(_ context.Context, article *domain.Article) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = article
	return nil
}

// mockGenerator returns a scripted ArticleContent or error.
type mockGenerator struct {
	content *generation.ArticleContent
	err     error
	calls   int
}

func (m *mockGenerator) GenerateArticle(_ context.Context, _ generation.Brief) (*generation.ArticleContent, error) {
	m.calls++
	return m.content, m.err
}

// mockAcquirer returns a scripted imaging result or error.
type mockAcquirer struct {
	result *imaging.Result
	err    error
	calls  int
	req    imaging.Request
}

func (m *mockAcquirer) Acquire(_ context.Context, req imaging.Request) (*imaging.Result, error) {
	m.calls++
	m.req = req
	return m.result, m.err
}

func taskTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingArticle(t *testing.T) *domain.Article {
	t.Helper()
	article, err := domain.NewArticle(
		"the quiet resurgence of urban beekeeping",
		[]string{"beekeeping", "urban agriculture"},
		domain.ToneCasual,
		"English",
		3,
	)
	require.NoError(t, err)
	return article
}

func generatedContent() *generation.ArticleContent {
	return &generation.ArticleContent{
		Title:           "The Quiet Resurgence of Urban Beekeeping",
		SEOTitle:        "Urban Beekeeping Is Back",
		MetaDescription: "Why cities are buzzing again.",
		Slug:            "the-quiet-resurgence-of-urban-beekeeping",
		Sections: []domain.Section{
			{Heading: "Rooftop Hives", Content: "Hives are appearing on rooftops across the city.", WordCount: 8},
			{Heading: "Why Now", Content: "Several trends converged at once.", WordCount: 5},
			{Heading: "Getting Started", Content: "You need less than you think.", WordCount: 6},
		},
		Conclusion: "The bees are staying.",
		CTA:        "Find a local beekeeping association.",
	}
}

func newTestTask(t *testing.T, svc *mockArticleService, gen *mockGenerator, acq *mockAcquirer) *ArticleGenerationTask {
	t.Helper()
	articleID := uuid.New()
	if svc.article != nil {
		articleID = svc.article.ID
	}
	task, err := NewArticleGenerationTask(
		articleID, svc, gen, acq, "1024x1024", "standard", taskTestLogger(),
	)
	require.NoError(t, err)
	return task
}

func TestNewArticleGenerationTask_Validation(t *testing.T) {
	t.Parallel()

	svc := &mockArticleService{}
	gen := &mockGenerator{}
	acq := &mockAcquirer{}
	log := taskTestLogger()
	id := uuid.New()

	tests := []struct {
		name    string
		build   func() (*ArticleGenerationTask, error)
		wantErr error
	}{
		{
			name: "nil article service",
			build: func() (*ArticleGenerationTask, error) {
				return NewArticleGenerationTask(id, nil, gen, acq, "", "", log)
			},
			wantErr: ErrNilArticleService,
		},
		{
			name: "nil generator",
			build: func() (*ArticleGenerationTask, error) {
				return NewArticleGenerationTask(id, svc, nil, acq, "", "", log)
			},
			wantErr: ErrNilGenerator,
		},
		{
			name: "nil image acquirer",
			build: func() (*ArticleGenerationTask, error) {
				return NewArticleGenerationTask(id, svc, gen, nil, "", "", log)
			},
			wantErr: ErrNilImageAcquirer,
		},
		{
			name: "nil logger",
			build: func() (*ArticleGenerationTask, error) {
				return NewArticleGenerationTask(id, svc, gen, acq, "", "", nil)
			},
			wantErr: ErrNilLogger,
		},
		{
			name: "empty article ID",
			build: func() (*ArticleGenerationTask, error) {
				return NewArticleGenerationTask(uuid.Nil, svc, gen, acq, "", "", log)
			},
			wantErr: ErrEmptyArticleID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := tt.build()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, task)
		})
	}
}

func TestArticleGenerationTask_Metadata(t *testing.T) {
	t.Parallel()

	svc := &mockArticleService{article: pendingArticle(t)}
	task := newTestTask(t, svc, &mockGenerator{}, &mockAcquirer{})

	assert.NotEqual(t, uuid.Nil, task.ID())
	assert.Equal(t, TaskTypeArticleGeneration, task.Type())
	assert.Equal(t, TaskStatusPending, task.Status())
	assert.Contains(t, string(task.Payload()), svc.article.ID.String())
}

func TestArticleGenerationTask_Execute(t *testing.T) {
	t.Parallel()

	t.Run("successful generation with real cover image", func(t *testing.T) {
		t.Parallel()
		svc := &mockArticleService{article: pendingArticle(t)}
		gen := &mockGenerator{content: generatedContent()}
		acq := &mockAcquirer{result: &imaging.Result{
			Status:   imaging.StatusGenerated,
			URL:      "https://img.example.com/cover.png",
			Attempts: 1,
		}}

		task := newTestTask(t, svc, gen, acq)
		require.NoError(t, task.Execute(context.Background()))

		assert.Equal(t, TaskStatusCompleted, task.Status())
		assert.Equal(t, []domain.ArticleStatus{domain.ArticleStatusProcessing}, svc.statusUpdates)

		require.NotNil(t, svc.saved)
		assert.Equal(t, domain.ArticleStatusCompleted, svc.saved.Status)
		assert.Equal(t, "The Quiet Resurgence of Urban Beekeeping", svc.saved.Title)
		assert.Equal(t, 23, svc.saved.WordCount, "section word counts plus conclusion")

		require.NotNil(t, svc.saved.Illustration)
		assert.Equal(t, domain.IllustrationStatusGenerated, svc.saved.Illustration.Status)
		assert.Equal(t, "https://img.example.com/cover.png", svc.saved.Illustration.URL)
		assert.NotEmpty(t, svc.saved.Illustration.Prompt)

		// Cover request carries the configured rendition settings.
		assert.Equal(t, "1024x1024", acq.req.Size)
		assert.Equal(t, "standard", acq.req.Quality)
	})

	t.Run("placeholder cover still completes the article", func(t *testing.T) {
		t.Parallel()
		svc := &mockArticleService{article: pendingArticle(t)}
		gen := &mockGenerator{content: generatedContent()}
		acq := &mockAcquirer{result: &imaging.Result{
			Status:   imaging.StatusPlaceholder,
			Data:     []byte{0x89, 'P', 'N', 'G'},
			MimeType: "image/png",
			Reason:   domain.FailureReasonServerError,
			Attempts: 3,
		}}

		task := newTestTask(t, svc, gen, acq)
		require.NoError(t, task.Execute(context.Background()))

		require.NotNil(t, svc.saved)
		assert.Equal(t, domain.ArticleStatusCompleted, svc.saved.Status)
		require.NotNil(t, svc.saved.Illustration)
		assert.True(t, svc.saved.Illustration.IsPlaceholder())
		assert.Equal(t, domain.FailureReasonServerError, svc.saved.Illustration.Reason)
		assert.Equal(t, 3, svc.saved.Illustration.Attempts)
		assert.Zero(t, svc.failedCalls)
	})

	t.Run("generation failure marks article failed", func(t *testing.T) {
		t.Parallel()
		genErr := errors.New("model unavailable")
		svc := &mockArticleService{article: pendingArticle(t)}
		gen := &mockGenerator{err: genErr}
		acq := &mockAcquirer{}

		task := newTestTask(t, svc, gen, acq)
		err := task.Execute(context.Background())

		assert.ErrorIs(t, err, genErr)
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.Equal(t, 1, svc.failedCalls)
		assert.Contains(t, svc.failedDetail, "model unavailable")
		assert.Zero(t, acq.calls, "no cover image is requested when generation fails")
		assert.Nil(t, svc.saved)
	})

	t.Run("article fetch failure", func(t *testing.T) {
		t.Parallel()
		svc := &mockArticleService{getErr: errors.New("not found")}
		task := newTestTask(t, svc, &mockGenerator{}, &mockAcquirer{})

		err := task.Execute(context.Background())
		assert.Error(t, err)
		assert.Equal(t, TaskStatusFailed, task.Status())
	})

	t.Run("save failure marks article failed", func(t *testing.T) {
		t.Parallel()
		svc := &mockArticleService{
			article: pendingArticle(t),
			saveErr: errors.New("db down"),
		}
		gen := &mockGenerator{content: generatedContent()}
		acq := &mockAcquirer{result: &imaging.Result{Status: imaging.StatusGenerated, URL: "https://x/y.png", Attempts: 1}}

		task := newTestTask(t, svc, gen, acq)
		err := task.Execute(context.Background())

		assert.Error(t, err)
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.Equal(t, 1, svc.failedCalls)
	})

	t.Run("cancelled context fails fast", func(t *testing.T) {
		t.Parallel()
		svc := &mockArticleService{article: pendingArticle(t)}
		gen := &mockGenerator{content: generatedContent()}
		task := newTestTask(t, svc, gen, &mockAcquirer{})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := task.Execute(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, TaskStatusFailed, task.Status())
		assert.Zero(t, gen.calls)
	})
}
