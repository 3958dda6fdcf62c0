package openai

// promptData represents the data passed to the article prompt template.
type promptData struct {
	Topic          string
	Keywords       []string
	ToneName       string
	Personality    string
	TargetAudience string
	Voice          []string
	Language       string
	SectionCount   int
}

// articleSchema represents the expected structure of the model's JSON reply.
type articleSchema struct {
	// Title is the human-facing article headline.
	Title string `json:"title"`

	// SEOTitle is the search-optimized variant of the headline.
	SEOTitle string `json:"seo_title"`

	// MetaDescription is the search-snippet summary, at most 160 characters.
	MetaDescription string `json:"meta_description"`

	// Sections are the article body sections in order.
	Sections []sectionSchema `json:"sections"`

	// Conclusion wraps up the article.
	Conclusion string `json:"conclusion"`

	// CTA is an optional closing call to action.
	CTA string `json:"cta,omitempty"`
}

// sectionSchema represents a single body section in the API response.
type sectionSchema struct {
	// Heading is the section heading without markup.
	Heading string `json:"heading"`

	// Content is the section body text.
	Content string `json:"content"`

	// Keywords are the focus keywords the section worked in.
	Keywords []string `json:"keywords,omitempty"`
}
