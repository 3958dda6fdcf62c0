package export

import (
	"fmt"
	"strings"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// renderMarkdown produces a plain Markdown document with YAML front matter
// carrying the SEO metadata.
func (e *Exporter) renderMarkdown(article *domain.Article) []byte {
	var b strings.Builder

	// Front matter
	b.WriteString("---\n")
	fmt.Fprintf(&b, "title: %q\n", article.Title)
	if article.SEOTitle != "" && article.SEOTitle != article.Title {
		fmt.Fprintf(&b, "seo_title: %q\n", article.SEOTitle)
	}
	if article.MetaDescription != "" {
		fmt.Fprintf(&b, "description: %q\n", article.MetaDescription)
	}
	if article.Slug != "" {
		fmt.Fprintf(&b, "slug: %s\n", article.Slug)
	}
	if len(article.Keywords) > 0 {
		b.WriteString("keywords:\n")
		for _, kw := range article.Keywords {
			fmt.Fprintf(&b, "  - %q\n", kw)
		}
	}
	fmt.Fprintf(&b, "word_count: %d\n", article.WordCount)
	fmt.Fprintf(&b, "date: %s\n", article.UpdatedAt.Format("2006-01-02"))
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", article.Title)

	if il := article.Illustration; il != nil && il.URL != "" {
		fmt.Fprintf(&b, "![%s](%s)\n\n", article.Title, il.URL)
	}

	for _, section := range article.Sections {
		fmt.Fprintf(&b, "## %s\n\n", section.Heading)
		b.WriteString(strings.TrimSpace(section.Content))
		b.WriteString("\n\n")
	}

	if article.Conclusion != "" {
		b.WriteString("## Conclusion\n\n")
		b.WriteString(strings.TrimSpace(article.Conclusion))
		b.WriteString("\n\n")
	}

	if article.CTA != "" {
		fmt.Fprintf(&b, "> **%s**\n", strings.TrimSpace(article.CTA))
	}

	return []byte(b.String())
}
