package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/draftsmith/draftsmith-api/internal/api"
	apiMiddleware "github.com/draftsmith/draftsmith-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.authenticator)
	articleHandler := api.NewArticleHandler(app.articleService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoint (public)
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/articles", articleHandler.CreateArticle)
			r.Get("/articles", articleHandler.ListArticles)
			r.Get("/articles/{id}", articleHandler.GetArticle)
			r.Get("/articles/slug/{slug}", articleHandler.GetArticleBySlug)
			r.Get("/articles/{id}/export", articleHandler.ExportArticle)
			r.Get("/articles/{id}/seo", articleHandler.AnalyzeArticleSEO)
			r.Delete("/articles/{id}", articleHandler.DeleteArticle)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
