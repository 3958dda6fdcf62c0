package generation

import (
	"context"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// Brief carries everything the generator needs to produce an article.
type Brief struct {
	// Topic is the subject matter or source material for the article.
	Topic string

	// Keywords are the focus keywords the article should work in,
	// primary keyword first.
	Keywords []string

	// Tone selects the writing-style profile.
	Tone domain.Tone

	// Language is the output language, e.g. "English".
	Language string

	// SectionCount is the number of body sections to produce.
	SectionCount int
}

// ArticleContent is the generated output for one brief. The caller merges
// it into the owning domain.Article.
type ArticleContent struct {
	Title           string
	SEOTitle        string
	MetaDescription string
	Slug            string
	Sections        []domain.Section
	Conclusion      string
	CTA             string
}

// Generator defines the interface for generating articles from briefs.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
type Generator interface {
	// GenerateArticle produces article content for the given brief.
	// It returns an ArticleContent or an error if generation fails
	// (see errors.go for the specific error types).
	GenerateArticle(ctx context.Context, brief Brief) (*ArticleContent, error)
}
