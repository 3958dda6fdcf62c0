// Package export renders completed articles to portable formats. It produces
// plain Markdown and standalone HTML with embedded styling, Open Graph meta
// tags, and schema.org JSON-LD markup.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// Format identifies an export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// readingWordsPerMinute is the average reading speed used for the
// estimated read time.
const readingWordsPerMinute = 225

var (
	// ErrUnknownFormat is returned for format strings that are not supported.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrNotCompleted is returned when exporting an article that has not
	// finished generating.
	ErrNotCompleted = errors.New("article is not completed")
)

// ParseFormat maps a user-supplied format string to a Format.
// Common aliases ("md", "htm") are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatHTML:
		return "html"
	default:
		return "md"
	}
}

// Exporter renders completed articles.
type Exporter struct{}

// NewExporter creates an Exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export renders the article in the given format. Only completed articles
// can be exported.
func (e *Exporter) Export(article *domain.Article, format Format) ([]byte, error) {
	if article == nil {
		return nil, errors.New("article cannot be nil")
	}
	if article.Status != domain.ArticleStatusCompleted {
		return nil, fmt.Errorf("%w: status is %s", ErrNotCompleted, article.Status)
	}

	switch format {
	case FormatMarkdown:
		return e.renderMarkdown(article), nil
	case FormatHTML:
		return e.renderHTML(article)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FileName builds a download file name from the article's slug (or ID when
// no slug was generated).
func (e *Exporter) FileName(article *domain.Article, format Format) string {
	base := article.Slug
	if base == "" {
		base = article.ID.String()
	}
	return base + "." + format.Extension()
}

// readTime estimates reading time in minutes, never less than one.
func readTime(wordCount int) int {
	minutes := (wordCount + readingWordsPerMinute/2) / readingWordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
