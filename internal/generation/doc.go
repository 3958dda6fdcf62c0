// Package generation provides interfaces and implementations for interacting
// with external AI/LLM services for content generation. It abstracts the
// details of LLM API integration, allowing the application to generate
// articles from topic briefs without coupling to specific external services.
package generation
