package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article-specific validation errors
var (
	// ErrArticleIDEmpty is returned when an article ID is empty or nil.
	ErrArticleIDEmpty = errors.New("article ID cannot be empty")

	// ErrArticleTopicEmpty is returned when an article's topic brief is empty.
	ErrArticleTopicEmpty = errors.New("article topic cannot be empty")

	// ErrArticleTopicTooLong is returned when an article's topic brief exceeds the maximum length.
	ErrArticleTopicTooLong = errors.New("article topic exceeds maximum length")

	// ErrArticleSectionCountInvalid is returned when the requested section count is out of range.
	ErrArticleSectionCountInvalid = errors.New("article section count must be between 1 and 12")
)

// MaxTopicLength is the maximum allowed length of a topic brief in characters.
const MaxTopicLength = 10000

// ArticleStatus represents the lifecycle state of an article.
type ArticleStatus string

// Possible article status values
const (
	ArticleStatusPending    ArticleStatus = "pending"
	ArticleStatusProcessing ArticleStatus = "processing"
	ArticleStatusCompleted  ArticleStatus = "completed"
	ArticleStatusFailed     ArticleStatus = "failed"
)

// validArticleStatuses defines the set of allowed status values.
var validArticleStatuses = map[ArticleStatus]bool{
	ArticleStatusPending:    true,
	ArticleStatusProcessing: true,
	ArticleStatusCompleted:  true,
	ArticleStatusFailed:     true,
}

// IsValidArticleStatus reports whether the given status is a known
// lifecycle state.
func IsValidArticleStatus(status ArticleStatus) bool {
	return validArticleStatuses[status]
}

// Tone identifies a writing/illustration style profile.
type Tone string

// Known tone profiles, carried through both article generation and
// illustration style templates.
const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneAcademic     Tone = "academic"
	ToneTechnical    Tone = "technical"
	ToneCreative     Tone = "creative"
	TonePlayful      Tone = "playful"
)

// ValidTones lists every tone profile the service accepts.
var ValidTones = []Tone{
	ToneProfessional,
	ToneCasual,
	ToneAcademic,
	ToneTechnical,
	ToneCreative,
	TonePlayful,
}

// IsValidTone reports whether the given tone is a known profile.
func IsValidTone(t Tone) bool {
	for _, v := range ValidTones {
		if t == v {
			return true
		}
	}
	return false
}

// Section is a single heading/body unit of a generated article.
type Section struct {
	Heading   string   `json:"heading"`
	Content   string   `json:"content"`
	Keywords  []string `json:"keywords,omitempty"`
	WordCount int      `json:"word_count"`
}

// Article represents one article generation request and, once completed,
// its generated content and cover illustration.
type Article struct {
	ID           uuid.UUID     `json:"id"`
	Topic        string        `json:"topic"`
	Keywords     []string      `json:"keywords,omitempty"`
	Tone         Tone          `json:"tone"`
	Language     string        `json:"language"`
	SectionCount int           `json:"section_count"`
	Status       ArticleStatus `json:"status"`

	// Generated content; empty until the article reaches the completed state.
	Title           string    `json:"title,omitempty"`
	SEOTitle        string    `json:"seo_title,omitempty"`
	MetaDescription string    `json:"meta_description,omitempty"`
	Slug            string    `json:"slug,omitempty"`
	Sections        []Section `json:"sections,omitempty"`
	Conclusion      string    `json:"conclusion,omitempty"`
	CTA             string    `json:"cta,omitempty"`
	WordCount       int       `json:"word_count"`

	// Illustration is the cover image outcome. Its status tells the consumer
	// whether a real image was produced or a placeholder was substituted.
	Illustration *Illustration `json:"illustration,omitempty"`

	// FailureDetail records why generation failed, for failed articles only.
	FailureDetail string `json:"failure_detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewArticle creates a pending Article from a topic brief.
// It generates a new UUID for the article ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewArticle(topic string, keywords []string, tone Tone, language string, sectionCount int) (*Article, error) {
	if language == "" {
		language = "English"
	}

	article := &Article{
		ID:           uuid.New(),
		Topic:        strings.TrimSpace(topic),
		Keywords:     keywords,
		Tone:         tone,
		Language:     language,
		SectionCount: sectionCount,
		Status:       ArticleStatusPending,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := article.Validate(); err != nil {
		return nil, err
	}

	return article, nil
}

// Validate checks if the Article has valid data.
// Returns an error if any field fails validation.
func (a *Article) Validate() error {
	if a.ID == uuid.Nil {
		return ErrArticleIDEmpty
	}

	if strings.TrimSpace(a.Topic) == "" {
		return ErrArticleTopicEmpty
	}

	if len(a.Topic) > MaxTopicLength {
		return ErrArticleTopicTooLong
	}

	if !IsValidTone(a.Tone) {
		return ErrInvalidTone
	}

	if a.SectionCount < 1 || a.SectionCount > 12 {
		return ErrArticleSectionCountInvalid
	}

	if !validArticleStatuses[a.Status] {
		return ErrInvalidArticleStatus
	}

	return nil
}

// MarkProcessing transitions the article to the processing state.
func (a *Article) MarkProcessing() {
	a.Status = ArticleStatusProcessing
	a.UpdatedAt = time.Now().UTC()
}

// MarkFailed transitions the article to the failed state, recording the
// failure detail for observability.
func (a *Article) MarkFailed(detail string) {
	a.Status = ArticleStatusFailed
	a.FailureDetail = detail
	a.UpdatedAt = time.Now().UTC()
}

// MarkCompleted transitions the article to the completed state.
// The caller is expected to have populated the generated content first.
func (a *Article) MarkCompleted() {
	a.Status = ArticleStatusCompleted
	a.FailureDetail = ""
	a.UpdatedAt = time.Now().UTC()
}

// TotalWordCount sums the word counts of all sections plus the conclusion.
func (a *Article) TotalWordCount() int {
	total := 0
	for _, s := range a.Sections {
		total += s.WordCount
	}
	if a.Conclusion != "" {
		total += len(strings.Fields(a.Conclusion))
	}
	return total
}
