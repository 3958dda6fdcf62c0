package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/draftsmith/draftsmith-api/internal/api/shared"
	"github.com/draftsmith/draftsmith-api/internal/domain"
	"github.com/draftsmith/draftsmith-api/internal/export"
	"github.com/draftsmith/draftsmith-api/internal/seo"
	"github.com/draftsmith/draftsmith-api/internal/service"
)

// Defaults applied when a create request leaves optional fields empty.
const (
	defaultTone         = domain.ToneProfessional
	defaultSectionCount = 5
	defaultListLimit    = 20
	maxListLimit        = 100
)

// ArticleHandler handles article-related HTTP requests
type ArticleHandler struct {
	articleService service.ArticleService
	exporter       *export.Exporter
	validator      *validator.Validate
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(articleService service.ArticleService) *ArticleHandler {
	return &ArticleHandler{
		articleService: articleService,
		exporter:       export.NewExporter(),
		validator:      validator.New(),
	}
}

// CreateArticle handles POST /api/articles requests.
// Generation happens asynchronously, so a successful request returns
// 202 Accepted with the pending article.
func (h *ArticleHandler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	tone := domain.Tone(req.Tone)
	if req.Tone == "" {
		tone = defaultTone
	}
	sectionCount := req.SectionCount
	if sectionCount == 0 {
		sectionCount = defaultSectionCount
	}

	article, err := h.articleService.CreateArticleAndEnqueueTask(r.Context(), service.ArticleRequest{
		Topic:        req.Topic,
		Keywords:     req.Keywords,
		Tone:         tone,
		Language:     req.Language,
		SectionCount: sectionCount,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, articleToResponse(article))
}

// GetArticle handles GET /api/articles/{id} requests.
func (h *ArticleHandler) GetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, articleToResponse(article))
}

// GetArticleBySlug handles GET /api/articles/slug/{slug} requests.
func (h *ArticleHandler) GetArticleBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Slug is required")
		return
	}

	article, err := h.articleService.GetArticleBySlug(r.Context(), slug)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, articleToResponse(article))
}

// ListArticles handles GET /api/articles requests with limit/offset paging.
func (h *ArticleHandler) ListArticles(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultListLimit)
	offset := queryInt(r, "offset", 0)

	if limit < 1 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	articles, err := h.articleService.ListArticles(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := ArticleListResponse{
		Articles: make([]ArticleResponse, 0, len(articles)),
		Limit:    limit,
		Offset:   offset,
	}
	for _, article := range articles {
		resp.Articles = append(resp.Articles, articleToResponse(article))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// ExportArticle handles GET /api/articles/{id}/export?format= requests.
// The article is returned as a downloadable Markdown or HTML file.
func (h *ArticleHandler) ExportArticle(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Unknown export format")
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	body, err := h.exporter.Export(article, format)
	if err != nil {
		if errors.Is(err, export.ErrNotCompleted) {
			shared.RespondWithError(w, r, http.StatusConflict, "Article is not completed yet")
			return
		}
		HandleAPIError(w, r, err, "Failed to export article")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", h.exporter.FileName(article, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write export body", "error", err, "article_id", id)
	}
}

// AnalyzeArticleSEO handles GET /api/articles/{id}/seo requests, scoring
// a completed article's content against its target keywords.
func (h *ArticleHandler) AnalyzeArticleSEO(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	article, err := h.articleService.GetArticle(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if article.Status != domain.ArticleStatusCompleted {
		shared.RespondWithError(w, r, http.StatusConflict, "Article is not completed yet")
		return
	}

	report := seo.Analyze(articleToAnalyzableContent(article), article.Keywords)
	shared.RespondWithJSON(w, r, http.StatusOK, report)
}

// articleToAnalyzableContent flattens an article into the text the SEO
// analyzer works on.
func articleToAnalyzableContent(article *domain.Article) seo.Content {
	content := seo.Content{
		Title:           article.Title,
		MetaDescription: article.MetaDescription,
		Conclusion:      article.Conclusion,
		CTA:             article.CTA,
	}
	for _, section := range article.Sections {
		content.Sections = append(content.Sections, seo.SectionText{
			Heading: section.Heading,
			Body:    section.Content,
		})
	}
	return content
}

// DeleteArticle handles DELETE /api/articles/{id} requests.
func (h *ArticleHandler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.articleService.DeleteArticle(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.ErrInvalidID
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}

	return id, nil
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
