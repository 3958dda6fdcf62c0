package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewArticle(t *testing.T) {
	t.Parallel() // Enable parallel execution
	topic := "The state of heat pump adoption in northern Europe"
	keywords := []string{"heat pumps", "energy"}

	article, err := NewArticle(topic, keywords, ToneProfessional, "English", 5)

	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if article.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}

	if article.Topic != topic {
		t.Errorf("Expected topic %s, got %s", topic, article.Topic)
	}

	if article.Status != ArticleStatusPending {
		t.Errorf("Expected status %s, got %s", ArticleStatusPending, article.Status)
	}

	if article.Language != "English" {
		t.Errorf("Expected language English, got %s", article.Language)
	}

	if article.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}

	// Empty language falls back to English
	article, err = NewArticle(topic, nil, ToneCasual, "", 3)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if article.Language != "English" {
		t.Errorf("Expected default language English, got %s", article.Language)
	}

	// Test empty topic
	_, err = NewArticle("   ", nil, ToneProfessional, "English", 5)
	if !errors.Is(err, ErrArticleTopicEmpty) {
		t.Errorf("Expected error %v, got %v", ErrArticleTopicEmpty, err)
	}

	// Test unknown tone
	_, err = NewArticle(topic, nil, Tone("sardonic"), "English", 5)
	if !errors.Is(err, ErrInvalidTone) {
		t.Errorf("Expected error %v, got %v", ErrInvalidTone, err)
	}

	// Test section count out of range
	_, err = NewArticle(topic, nil, ToneProfessional, "English", 0)
	if !errors.Is(err, ErrArticleSectionCountInvalid) {
		t.Errorf("Expected error %v, got %v", ErrArticleSectionCountInvalid, err)
	}

	_, err = NewArticle(topic, nil, ToneProfessional, "English", 13)
	if !errors.Is(err, ErrArticleSectionCountInvalid) {
		t.Errorf("Expected error %v, got %v", ErrArticleSectionCountInvalid, err)
	}

	// Test oversized topic
	_, err = NewArticle(strings.Repeat("x", MaxTopicLength+1), nil, ToneProfessional, "English", 5)
	if !errors.Is(err, ErrArticleTopicTooLong) {
		t.Errorf("Expected error %v, got %v", ErrArticleTopicTooLong, err)
	}
}

func TestArticleStatusTransitions(t *testing.T) {
	t.Parallel() // Enable parallel execution
	article, err := NewArticle("A topic", nil, ToneTechnical, "English", 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	article.MarkProcessing()
	if article.Status != ArticleStatusProcessing {
		t.Errorf("Expected status %s, got %s", ArticleStatusProcessing, article.Status)
	}

	article.MarkFailed("provider unavailable")
	if article.Status != ArticleStatusFailed {
		t.Errorf("Expected status %s, got %s", ArticleStatusFailed, article.Status)
	}
	if article.FailureDetail != "provider unavailable" {
		t.Errorf("Expected failure detail to be recorded, got %q", article.FailureDetail)
	}

	article.MarkCompleted()
	if article.Status != ArticleStatusCompleted {
		t.Errorf("Expected status %s, got %s", ArticleStatusCompleted, article.Status)
	}
	if article.FailureDetail != "" {
		t.Errorf("Expected failure detail cleared on completion, got %q", article.FailureDetail)
	}
}

func TestArticleTotalWordCount(t *testing.T) {
	t.Parallel() // Enable parallel execution
	article := Article{
		Sections: []Section{
			{Heading: "One", Content: "a b c", WordCount: 3},
			{Heading: "Two", Content: "d e", WordCount: 2},
		},
		Conclusion: "three more words",
	}

	if got := article.TotalWordCount(); got != 8 {
		t.Errorf("Expected total word count 8, got %d", got)
	}
}

func TestIsValidTone(t *testing.T) {
	t.Parallel() // Enable parallel execution
	for _, tone := range ValidTones {
		if !IsValidTone(tone) {
			t.Errorf("Expected tone %s to be valid", tone)
		}
	}

	if IsValidTone(Tone("moody")) {
		t.Error("Expected unknown tone to be invalid")
	}
}
