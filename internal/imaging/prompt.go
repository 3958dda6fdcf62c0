package imaging

import (
	"strings"

	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/seo"
)

// maxPromptLength bounds the cover prompt sent to the provider.
const maxPromptLength = 450

// styleTemplates maps each tone to the artistic direction appended to
// cover prompts.
var styleTemplates = map[domain.Tone]string{
	domain.ToneProfessional: "clean, minimalist, corporate style, professional lighting, high-quality",
	domain.ToneCasual:       "friendly, approachable, warm lighting, casual but polished",
	domain.ToneAcademic:     "scholarly, detailed, educational illustration, clear and informative",
	domain.ToneTechnical:    "precise, detailed, schematic style, clear diagrams, technical illustration",
	domain.ToneCreative:     "artistic, innovative, bold colors, creative composition, inspiring",
	domain.TonePlayful:      "fun, vibrant, colorful, engaging, dynamic composition",
}

// StyleFor returns the illustration style phrase for a tone, falling back
// to the professional style for unknown tones.
func StyleFor(tone domain.Tone) string {
	if style, ok := styleTemplates[tone]; ok {
		return style
	}
	return styleTemplates[domain.ToneProfessional]
}

// BuildCoverPrompt assembles the image prompt for an article's cover
// illustration from its title, extracted keywords, and tone style.
func BuildCoverPrompt(article *domain.Article) string {
	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = strings.TrimSpace(article.Topic)
	}

	// Pull thematic keywords from the full article body for context.
	var body strings.Builder
	body.WriteString(title)
	body.WriteString(" ")
	body.WriteString(article.MetaDescription)
	for _, s := range article.Sections {
		body.WriteString(" ")
		body.WriteString(s.Heading)
		body.WriteString(" ")
		body.WriteString(s.Content)
	}
	keywords := seo.ExtractKeywords(body.String(), 6)

	parts := []string{
		"A high-quality editorial cover illustration for an article titled \"" + title + "\"",
	}
	if len(keywords) > 0 {
		parts = append(parts, "featuring "+strings.Join(keywords, ", "))
	}
	parts = append(parts,
		"rendered in "+StyleFor(article.Tone),
		"no text or lettering in the image",
	)

	prompt := strings.Join(parts, ", ")
	return truncatePrompt(prompt, maxPromptLength)
}

// truncatePrompt bounds the prompt length, cutting at a word boundary.
func truncatePrompt(prompt string, limit int) string {
	if len(prompt) <= limit {
		return prompt
	}
	cut := prompt[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
