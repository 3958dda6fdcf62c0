package api

import (
	"time"

	"github.com/draftsmith/draftsmith-api/internal/domain"
)

// LoginRequest represents the request body for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the response for a successful login.
type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// CreateArticleRequest represents the request body for requesting a new article.
type CreateArticleRequest struct {
	Topic        string   `json:"topic"         validate:"required,min=3,max=500"`
	Keywords     []string `json:"keywords"      validate:"omitempty,dive,min=1"`
	Tone         string   `json:"tone"          validate:"omitempty"`
	Language     string   `json:"language"      validate:"omitempty"`
	SectionCount int      `json:"section_count" validate:"omitempty,gte=1,lte=12"`
}

// SectionResponse represents one generated body section.
type SectionResponse struct {
	Heading   string   `json:"heading"`
	Content   string   `json:"content"`
	Keywords  []string `json:"keywords,omitempty"`
	WordCount int      `json:"word_count"`
}

// IllustrationResponse represents the article's cover illustration.
type IllustrationResponse struct {
	Status   string `json:"status"`
	URL      string `json:"url,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
	Reason   string `json:"reason,omitempty"`
	Attempts int    `json:"attempts"`
}

// ArticleResponse represents the response data for an article.
type ArticleResponse struct {
	ID              string                `json:"id"`
	Topic           string                `json:"topic"`
	Keywords        []string              `json:"keywords,omitempty"`
	Tone            string                `json:"tone"`
	Language        string                `json:"language"`
	SectionCount    int                   `json:"section_count"`
	Status          string                `json:"status"`
	Title           string                `json:"title,omitempty"`
	SEOTitle        string                `json:"seo_title,omitempty"`
	MetaDescription string                `json:"meta_description,omitempty"`
	Slug            string                `json:"slug,omitempty"`
	Sections        []SectionResponse     `json:"sections,omitempty"`
	Conclusion      string                `json:"conclusion,omitempty"`
	CTA             string                `json:"cta,omitempty"`
	WordCount       int                   `json:"word_count"`
	Illustration    *IllustrationResponse `json:"illustration,omitempty"`
	FailureDetail   string                `json:"failure_detail,omitempty"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// ArticleListResponse wraps a page of articles.
type ArticleListResponse struct {
	Articles []ArticleResponse `json:"articles"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// articleToResponse converts a domain.Article to an ArticleResponse.
func articleToResponse(article *domain.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:              article.ID.String(),
		Topic:           article.Topic,
		Keywords:        article.Keywords,
		Tone:            string(article.Tone),
		Language:        article.Language,
		SectionCount:    article.SectionCount,
		Status:          string(article.Status),
		Title:           article.Title,
		SEOTitle:        article.SEOTitle,
		MetaDescription: article.MetaDescription,
		Slug:            article.Slug,
		Conclusion:      article.Conclusion,
		CTA:             article.CTA,
		WordCount:       article.WordCount,
		FailureDetail:   article.FailureDetail,
		CreatedAt:       article.CreatedAt,
		UpdatedAt:       article.UpdatedAt,
	}

	for _, section := range article.Sections {
		resp.Sections = append(resp.Sections, SectionResponse{
			Heading:   section.Heading,
			Content:   section.Content,
			Keywords:  section.Keywords,
			WordCount: section.WordCount,
		})
	}

	if article.Illustration != nil {
		resp.Illustration = &IllustrationResponse{
			Status:   string(article.Illustration.Status),
			URL:      article.Illustration.URL,
			MimeType: article.Illustration.MimeType,
			Reason:   string(article.Illustration.Reason),
			Attempts: article.Illustration.Attempts,
		}
	}

	return resp
}
