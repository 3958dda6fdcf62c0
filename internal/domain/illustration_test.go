package domain

import (
	"errors"
	"testing"
)

func TestIllustrationValidate(t *testing.T) {
	t.Parallel() // Enable parallel execution
	valid := Illustration{
		Status: IllustrationStatusGenerated,
		Prompt: "a hummingbird in flight",
		URL:    "https://images.example.com/abc.png",
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Placeholder with local data is also resolved
	placeholder := Illustration{
		Status:   IllustrationStatusPlaceholder,
		Prompt:   "a hummingbird in flight",
		Data:     []byte{0x89, 0x50, 0x4e, 0x47},
		MimeType: "image/png",
		Reason:   FailureReasonServerError,
	}

	if err := placeholder.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Missing prompt
	noPrompt := Illustration{Status: IllustrationStatusGenerated, URL: "https://x"}
	if err := noPrompt.Validate(); !errors.Is(err, ErrIllustrationPromptEmpty) {
		t.Errorf("Expected error %v, got %v", ErrIllustrationPromptEmpty, err)
	}

	// Neither URL nor data
	unresolved := Illustration{Status: IllustrationStatusGenerated, Prompt: "p"}
	if err := unresolved.Validate(); !errors.Is(err, ErrIllustrationUnresolved) {
		t.Errorf("Expected error %v, got %v", ErrIllustrationUnresolved, err)
	}
}

func TestIllustrationIsPlaceholder(t *testing.T) {
	t.Parallel() // Enable parallel execution
	il := Illustration{Status: IllustrationStatusPlaceholder}
	if !il.IsPlaceholder() {
		t.Error("Expected IsPlaceholder to be true for placeholder status")
	}

	il.Status = IllustrationStatusGenerated
	if il.IsPlaceholder() {
		t.Error("Expected IsPlaceholder to be false for generated status")
	}
}
