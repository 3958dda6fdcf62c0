package task

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/config"
	"github.com/draftsmith/draftsmith-api/internal/generation"
)

// ArticleGenerationTaskFactory creates ArticleGenerationTask instances
type ArticleGenerationTaskFactory struct {
	articleService ArticleService
	generator      generation.Generator
	imageAcquirer  ImageAcquirer
	imageCfg       config.ImageConfig
	logger         *slog.Logger
}

// NewArticleGenerationTaskFactory creates a new factory for ArticleGenerationTasks
func NewArticleGenerationTaskFactory(
	articleService ArticleService,
	generator generation.Generator,
	imageAcquirer ImageAcquirer,
	imageCfg config.ImageConfig,
	logger *slog.Logger,
) *ArticleGenerationTaskFactory {
	return &ArticleGenerationTaskFactory{
		articleService: articleService,
		generator:      generator,
		imageAcquirer:  imageAcquirer,
		imageCfg:       imageCfg,
		logger:         logger.With("component", "article_generation_task_factory"),
	}
}

// CreateTask creates a new ArticleGenerationTask for the specified article
func (f *ArticleGenerationTaskFactory) CreateTask(articleID uuid.UUID) (Task, error) {
	task, err := NewArticleGenerationTask(
		articleID,
		f.articleService,
		f.generator,
		f.imageAcquirer,
		f.imageCfg.Size,
		f.imageCfg.Quality,
		f.logger,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}
