package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// htmlDocument is the standalone HTML page template. Styling is embedded so
// the exported file renders on its own.
const htmlDocument = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<meta name="description" content="{{.MetaDescription}}">
{{if .Keywords}}<meta name="keywords" content="{{.Keywords}}">
{{end}}<meta property="og:title" content="{{.Title}}">
<meta property="og:description" content="{{.MetaDescription}}">
<meta property="og:type" content="article">
<script type="application/ld+json">
{{.SchemaMarkup}}
</script>
<style>
* { margin: 0; padding: 0; box-sizing: border-box; }
body { font-family: 'Georgia', 'Times New Roman', serif; line-height: 1.6; color: #2c3e50; background-color: #f8f9fa; }
article { max-width: 800px; margin: 0 auto; background: white; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1); }
header { padding: 3rem 2rem 2rem; text-align: center; border-bottom: 1px solid #e9ecef; }
h1 { font-size: 2.5rem; font-weight: 700; margin-bottom: 1rem; line-height: 1.2; }
.meta-description { font-size: 1.1rem; color: #6c757d; margin-bottom: 1.5rem; font-style: italic; }
.article-info span { margin: 0 0.5rem; color: #6c757d; font-size: 0.9rem; }
.cover img { width: 100%; height: auto; display: block; }
.article-content { padding: 2rem; }
.article-content h2 { font-size: 1.75rem; margin: 2rem 0 1rem; }
.article-content p { margin-bottom: 1rem; }
footer { padding: 2rem; background: #f8f9fa; text-align: center; font-weight: 600; }
</style>
</head>
<body>
<article>
<header>
<h1>{{.Title}}</h1>
<div class="article-meta">
<p class="meta-description">{{.MetaDescription}}</p>
<div class="article-info">
<span>{{.WordCount}} words</span>
<span>{{.ReadTime}} min read</span>
</div>
</div>
</header>
{{if .CoverURL}}<div class="cover"><img src="{{.CoverURL}}" alt="{{.Title}}"></div>
{{end}}<div class="article-content">
{{range .Sections}}<h2>{{.Heading}}</h2>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}{{end}}{{if .Conclusion}}<h2>Conclusion</h2>
{{range .Conclusion}}<p>{{.}}</p>
{{end}}{{end}}</div>
{{if .CTA}}<footer>{{.CTA}}</footer>
{{end}}</article>
</body>
</html>
`

var htmlTemplate = template.Must(template.New("article").Parse(htmlDocument))

type htmlSection struct {
	Heading    string
	Paragraphs []string
}

type htmlData struct {
	Title           string
	MetaDescription string
	Keywords        string
	SchemaMarkup    template.JS
	WordCount       int
	ReadTime        int
	CoverURL        string
	Sections        []htmlSection
	Conclusion      []string
	CTA             string
}

// renderHTML produces a standalone HTML page for the article.
func (e *Exporter) renderHTML(article *domain.Article) ([]byte, error) {
	schema, err := schemaMarkup(article)
	if err != nil {
		return nil, fmt.Errorf("failed to build schema markup: %w", err)
	}

	data := htmlData{
		Title:           article.Title,
		MetaDescription: article.MetaDescription,
		Keywords:        strings.Join(article.Keywords, ", "),
		SchemaMarkup:    template.JS(schema),
		WordCount:       article.WordCount,
		ReadTime:        readTime(article.WordCount),
		Conclusion:      paragraphs(article.Conclusion),
		CTA:             strings.TrimSpace(article.CTA),
	}

	if il := article.Illustration; il != nil && il.URL != "" {
		data.CoverURL = il.URL
	}

	for _, section := range article.Sections {
		data.Sections = append(data.Sections, htmlSection{
			Heading:    section.Heading,
			Paragraphs: paragraphs(section.Content),
		})
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}
	return buf.Bytes(), nil
}

// schemaMarkup builds the schema.org Article JSON-LD block.
func schemaMarkup(article *domain.Article) (string, error) {
	schema := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    article.Title,
		"description": article.MetaDescription,
		"author": map[string]string{
			"@type": "Organization",
			"name":  "Draftsmith",
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  "Draftsmith",
		},
		"datePublished": article.CreatedAt.Format(time.RFC3339),
		"dateModified":  article.UpdatedAt.Format(time.RFC3339),
		"wordCount":     article.WordCount,
		"keywords":      article.Keywords,
	}

	out, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// paragraphs splits text on blank lines into display paragraphs.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}
