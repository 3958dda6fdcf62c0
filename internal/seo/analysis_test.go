package seo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContent() Content {
	body := strings.Repeat("Beekeeping rewards patience and careful observation through the seasons. ", 10)
	return Content{
		Title:           "Backyard Beekeeping: A Practical Guide for First-Year Keepers",
		MetaDescription: "Learn how to start backyard beekeeping: choosing a hive, installing your first colony, seasonal care, and the mistakes most first-year keepers make with bees.",
		Sections: []SectionText{
			{Heading: "Choosing a Hive", Body: body},
			{Heading: "Installing the Colony", Body: body},
			{Heading: "Seasonal Care", Body: body},
		},
		Conclusion: "Beekeeping is a slow craft, and the first season teaches the most.",
		CTA:        "Start your first hive this spring.",
	}
}

func TestAnalyzeScoresContentWithKeywords(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleContent(), []string{"beekeeping", "hive"})
	require.NotNil(t, report)

	assert.Equal(t, "beekeeping", report.FocusKeyword)
	assert.True(t, report.TitleHasKeyword)
	assert.True(t, report.MetaHasKeyword)
	assert.Empty(t, report.MissingKeywords)

	require.Len(t, report.Keywords, 2)
	assert.Equal(t, "beekeeping", report.Keywords[0].Keyword)
	assert.Greater(t, report.Keywords[0].Count, 1)
	assert.Greater(t, report.Keywords[0].Density, 0.0)

	assert.Greater(t, report.WordCount, 100)
	assert.Greater(t, report.SentenceCount, 3)
	assert.Equal(t, 3, report.SectionCount)
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.LessOrEqual(t, report.Score, 100)
	assert.Greater(t, report.Score, 30, "well-formed content with present keywords scores substantially")
}

func TestAnalyzeReportsMissingKeyword(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleContent(), []string{"beekeeping", "cryptocurrency"})

	assert.Equal(t, []string{"cryptocurrency"}, report.MissingKeywords)

	found := false
	for _, rec := range report.Recommendations {
		if strings.Contains(rec, "cryptocurrency") {
			found = true
		}
	}
	assert.True(t, found, "missing keywords produce a recommendation naming them")
}

func TestAnalyzeReportsOverusedKeyword(t *testing.T) {
	t.Parallel()

	content := Content{
		Title: "Bitcoin",
		Sections: []SectionText{
			{Body: "Bitcoin bitcoin bitcoin and some other words entirely here."},
		},
	}
	report := Analyze(content, []string{"bitcoin"})

	assert.Contains(t, report.OverusedKeywords, "bitcoin")
}

func TestAnalyzeWithoutKeywords(t *testing.T) {
	t.Parallel()

	report := Analyze(sampleContent(), nil)

	assert.Empty(t, report.FocusKeyword)
	assert.Empty(t, report.Keywords)
	assert.Empty(t, report.MissingKeywords)
	assert.False(t, report.TitleHasKeyword)
	assert.GreaterOrEqual(t, report.Score, 0)
	assert.LessOrEqual(t, report.Score, 100)
}

func TestAnalyzeRecommendationsAreCapped(t *testing.T) {
	t.Parallel()

	// Everything wrong at once: short title, no meta, missing keywords,
	// a single tiny section.
	content := Content{
		Title:    "Hi",
		Sections: []SectionText{{Body: "Brief."}},
	}
	report := Analyze(content, []string{"alpha", "beta", "gamma", "delta", "epsilon"})

	assert.NotEmpty(t, report.Recommendations)
	assert.LessOrEqual(t, len(report.Recommendations), maxRecommendations)
}

func TestCountSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"three sentences", "One. Two! Three?", 3},
		{"ellipsis is one ending", "Wait... what happened?", 2},
		{"no terminator floors at one", "a fragment without punctuation", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, countSentences(tt.text))
		})
	}
}

func TestCountSyllables(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		words []string
		want  int
	}{
		{"single closed syllable", []string{"cat"}, 1},
		{"two vowel groups", []string{"hello"}, 2},
		{"three vowel groups", []string{"beautiful"}, 3},
		{"no vowels floors at one", []string{"tsk"}, 1},
		{"silent e discounted", []string{"note"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, countSyllables(tt.words))
		})
	}
}

func TestFleschScore(t *testing.T) {
	t.Parallel()

	assert.Zero(t, fleschScore(0, 0, 0))

	// Short simple sentences read easier than long polysyllabic ones.
	easy := fleschScore(10, 100, 120)
	hard := fleschScore(2, 100, 220)
	assert.Greater(t, easy, hard)

	assert.GreaterOrEqual(t, hard, 0.0)
	assert.LessOrEqual(t, easy, 100.0)
}

func TestReadingLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		flesch float64
		want   string
	}{
		{95, "Very Easy"},
		{85, "Easy"},
		{75, "Fairly Easy"},
		{65, "Standard"},
		{55, "Fairly Difficult"},
		{40, "Difficult"},
		{10, "Very Difficult"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, readingLevel(tt.flesch), "flesch %.0f", tt.flesch)
	}
}

func TestContentBalance(t *testing.T) {
	t.Parallel()

	section := func(words int) SectionText {
		return SectionText{Body: strings.TrimSpace(strings.Repeat("word ", words))}
	}

	assert.Equal(t, "too_short", contentBalance(nil))
	assert.Equal(t, "too_short", contentBalance([]SectionText{section(10), section(10)}))
	assert.Equal(t, "good", contentBalance([]SectionText{section(60), section(60), section(60)}))
	assert.Equal(t, "uneven", contentBalance([]SectionText{section(10), section(300)}))
	assert.Equal(t, "sections_too_long", contentBalance([]SectionText{section(400), section(400)}))
}
