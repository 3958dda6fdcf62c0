package seo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Optimization thresholds used by Analyze.
const (
	minTitleLength = 50
	maxTitleLength = 60

	minMetaLength = 150
	maxMetaLength = MaxMetaDescriptionLength

	minKeywordDensity = 1.0 // percent
	maxKeywordDensity = 2.5

	minReadableFlesch = 60.0
	maxReadableFlesch = 80.0

	maxRecommendations = 8
)

// Content is the analyzable text of an article.
type Content struct {
	Title           string
	MetaDescription string
	Sections        []SectionText
	Conclusion      string
	CTA             string
}

// SectionText is one body section of the content.
type SectionText struct {
	Heading string
	Body    string
}

// KeywordUsage records how often a target keyword appears and its density
// as a percentage of total words.
type KeywordUsage struct {
	Keyword string  `json:"keyword"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

// Report is the outcome of analyzing a piece of content against its
// target keywords.
type Report struct {
	FocusKeyword string `json:"focus_keyword,omitempty"`

	// Score is the overall optimization score in [0, 100].
	Score int `json:"score"`

	WordCount           int     `json:"word_count"`
	SentenceCount       int     `json:"sentence_count"`
	AvgSentenceLength   float64 `json:"avg_sentence_length"`
	AvgSyllablesPerWord float64 `json:"avg_syllables_per_word"`
	FleschScore         float64 `json:"flesch_score"`
	ReadingLevel        string  `json:"reading_level"`

	Keywords         []KeywordUsage `json:"keywords,omitempty"`
	MissingKeywords  []string       `json:"missing_keywords,omitempty"`
	OverusedKeywords []string       `json:"overused_keywords,omitempty"`

	TitleLength     int  `json:"title_length"`
	TitleOptimal    bool `json:"title_length_optimal"`
	TitleHasKeyword bool `json:"title_has_focus_keyword"`
	MetaLength      int  `json:"meta_length"`
	MetaOptimal     bool `json:"meta_length_optimal"`
	MetaHasKeyword  bool `json:"meta_has_focus_keyword"`

	SectionCount int `json:"section_count"`

	// ContentBalance is one of "good", "uneven", "too_short",
	// "sections_too_long".
	ContentBalance string `json:"content_balance"`

	Recommendations []string `json:"recommendations,omitempty"`
}

// Analyze scores content against its target keywords: keyword usage and
// density, Flesch reading ease, title and meta description bounds, and
// section balance, with actionable recommendations.
func Analyze(content Content, keywords []string) *Report {
	full := collectText(content)
	fullLower := strings.ToLower(full)
	words := strings.Fields(full)
	wordCount := len(words)

	report := &Report{
		WordCount:      wordCount,
		SectionCount:   len(content.Sections),
		TitleLength:    len(content.Title),
		MetaLength:     len(content.MetaDescription),
		ContentBalance: contentBalance(content.Sections),
	}

	report.TitleOptimal = report.TitleLength >= minTitleLength && report.TitleLength <= maxTitleLength
	report.MetaOptimal = report.MetaLength >= minMetaLength && report.MetaLength <= maxMetaLength

	report.SentenceCount = countSentences(full)
	syllables := countSyllables(words)
	if report.SentenceCount > 0 {
		report.AvgSentenceLength = round1(float64(wordCount) / float64(report.SentenceCount))
	}
	if wordCount > 0 {
		report.AvgSyllablesPerWord = round2(float64(syllables) / float64(wordCount))
	}
	report.FleschScore = round1(fleschScore(report.SentenceCount, wordCount, syllables))
	report.ReadingLevel = readingLevel(report.FleschScore)

	if len(keywords) > 0 {
		report.FocusKeyword = strings.ToLower(strings.TrimSpace(keywords[0]))
	}

	for _, raw := range keywords {
		keyword := strings.ToLower(strings.TrimSpace(raw))
		if keyword == "" {
			continue
		}

		count := strings.Count(fullLower, keyword)
		density := 0.0
		if wordCount > 0 {
			density = round2(float64(count) / float64(wordCount) * 100)
		}

		report.Keywords = append(report.Keywords, KeywordUsage{
			Keyword: keyword,
			Count:   count,
			Density: density,
		})

		if count == 0 {
			report.MissingKeywords = append(report.MissingKeywords, keyword)
		} else if density > maxKeywordDensity {
			report.OverusedKeywords = append(report.OverusedKeywords, keyword)
		}
	}

	if report.FocusKeyword != "" {
		report.TitleHasKeyword = strings.Contains(strings.ToLower(content.Title), report.FocusKeyword)
		report.MetaHasKeyword = strings.Contains(strings.ToLower(content.MetaDescription), report.FocusKeyword)
	}

	report.Score = optimizationScore(report)
	report.Recommendations = recommendations(report)

	return report
}

// collectText joins all analyzable text of the content.
func collectText(content Content) string {
	parts := make([]string, 0, len(content.Sections)*2+4)
	if content.Title != "" {
		parts = append(parts, content.Title)
	}
	if content.MetaDescription != "" {
		parts = append(parts, content.MetaDescription)
	}
	for _, section := range content.Sections {
		if section.Heading != "" {
			parts = append(parts, section.Heading)
		}
		if section.Body != "" {
			parts = append(parts, section.Body)
		}
	}
	if content.Conclusion != "" {
		parts = append(parts, content.Conclusion)
	}
	if content.CTA != "" {
		parts = append(parts, content.CTA)
	}
	return strings.Join(parts, " ")
}

var sentenceEndings = "!.?"

// countSentences counts sentence-ending punctuation runs, with a floor of
// one for non-empty text.
func countSentences(text string) int {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	count := 0
	inRun := false
	for _, r := range text {
		if strings.ContainsRune(sentenceEndings, r) {
			if !inRun {
				count++
			}
			inRun = true
		} else {
			inRun = false
		}
	}

	if count == 0 {
		return 1
	}
	return count
}

// countSyllables estimates total syllables across words by counting vowel
// groups, discounting a trailing silent e, with a floor of one per word.
func countSyllables(words []string) int {
	total := 0
	for _, word := range words {
		word = strings.ToLower(word)
		syllables := 0
		prevVowel := false
		for _, r := range word {
			isVowel := strings.ContainsRune("aeiouy", r)
			if isVowel && !prevVowel {
				syllables++
			}
			prevVowel = isVowel
		}
		if strings.HasSuffix(word, "e") {
			syllables--
		}
		if syllables < 1 {
			syllables = 1
		}
		total += syllables
	}
	return total
}

// fleschScore computes the Flesch Reading Ease score, clamped to [0, 100].
func fleschScore(sentences, words, syllables int) float64 {
	if sentences == 0 || words == 0 {
		return 0
	}

	avgSentenceLength := float64(words) / float64(sentences)
	avgSyllablesPerWord := float64(syllables) / float64(words)

	score := 206.835 - 1.015*avgSentenceLength - 84.6*avgSyllablesPerWord
	return math.Max(0, math.Min(100, score))
}

// readingLevel labels a Flesch score with its conventional band.
func readingLevel(flesch float64) string {
	switch {
	case flesch >= 90:
		return "Very Easy"
	case flesch >= 80:
		return "Easy"
	case flesch >= 70:
		return "Fairly Easy"
	case flesch >= 60:
		return "Standard"
	case flesch >= 50:
		return "Fairly Difficult"
	case flesch >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

// contentBalance labels the distribution of section lengths.
func contentBalance(sections []SectionText) string {
	if len(sections) == 0 {
		return "too_short"
	}

	lengths := make([]int, len(sections))
	sum := 0
	for i, section := range sections {
		lengths[i] = len(strings.Fields(section.Body))
		sum += lengths[i]
	}

	avg := float64(sum) / float64(len(lengths))
	variance := 0.0
	for _, l := range lengths {
		variance += (float64(l) - avg) * (float64(l) - avg)
	}
	variance /= float64(len(lengths))

	switch {
	case variance > avg*0.5:
		return "uneven"
	case allBelow(lengths, 50):
		return "too_short"
	case anyAbove(lengths, 300):
		return "sections_too_long"
	default:
		return "good"
	}
}

func allBelow(lengths []int, bound int) bool {
	for _, l := range lengths {
		if l >= bound {
			return false
		}
	}
	return true
}

func anyAbove(lengths []int, bound int) bool {
	for _, l := range lengths {
		if l > bound {
			return true
		}
	}
	return false
}

// optimizationScore weights the individual analyses into a 0-100 score:
// title 20, meta 15, keywords 25, readability 20, structure 20.
func optimizationScore(r *Report) int {
	score := 0

	if r.TitleOptimal {
		score += 10
	}
	if r.TitleHasKeyword {
		score += 10
	}

	if r.MetaOptimal {
		score += 8
	}
	if r.MetaHasKeyword {
		score += 7
	}

	focusDensity := 0.0
	for _, usage := range r.Keywords {
		if usage.Keyword == r.FocusKeyword {
			focusDensity = usage.Density
			break
		}
	}
	switch {
	case focusDensity >= minKeywordDensity && focusDensity <= maxKeywordDensity:
		score += 15
	case focusDensity > 0:
		score += 8
	}
	switch {
	case len(r.MissingKeywords) == 0:
		score += 10
	case len(r.MissingKeywords) <= 2:
		score += 5
	}

	switch {
	case r.FleschScore >= minReadableFlesch && r.FleschScore <= maxReadableFlesch:
		score += 20
	case r.FleschScore >= 50:
		score += 12
	case r.FleschScore >= 30:
		score += 8
	}

	if r.SectionCount >= 3 {
		score += 8
	}
	switch r.ContentBalance {
	case "good":
		score += 12
	case "uneven", "sections_too_long":
		score += 6
	}

	if score > 100 {
		score = 100
	}
	return score
}

// recommendations turns the analysis into actionable advice, most
// impactful first, capped.
func recommendations(r *Report) []string {
	var recs []string

	if r.TitleLength < minTitleLength {
		recs = append(recs, fmt.Sprintf("Title is too short. Expand to %d-%d characters.", minTitleLength, maxTitleLength))
	} else if r.TitleLength > maxTitleLength {
		recs = append(recs, fmt.Sprintf("Title is too long. Shorten to under %d characters.", maxTitleLength))
	}
	if r.FocusKeyword != "" && !r.TitleHasKeyword {
		recs = append(recs, fmt.Sprintf("Include the focus keyword %q in the title.", r.FocusKeyword))
	}

	if r.MetaLength < minMetaLength {
		recs = append(recs, fmt.Sprintf("Meta description is too short. Expand to %d-%d characters.", minMetaLength, maxMetaLength))
	} else if r.MetaLength > maxMetaLength {
		recs = append(recs, fmt.Sprintf("Meta description is too long. Shorten to under %d characters.", maxMetaLength))
	}
	if r.FocusKeyword != "" && !r.MetaHasKeyword {
		recs = append(recs, fmt.Sprintf("Include the focus keyword %q in the meta description.", r.FocusKeyword))
	}

	if len(r.MissingKeywords) > 0 {
		shown := append([]string(nil), r.MissingKeywords...)
		sort.Strings(shown)
		if len(shown) > 3 {
			shown = shown[:3]
		}
		recs = append(recs, "Add the missing keywords: "+strings.Join(shown, ", ")+".")
	}
	if len(r.OverusedKeywords) > 0 {
		recs = append(recs, "Reduce usage of overused keywords: "+strings.Join(r.OverusedKeywords, ", ")+".")
	}

	if r.FleschScore < 30 {
		recs = append(recs, "Content is very difficult to read. Significantly simplify language and structure.")
	} else if r.FleschScore < minReadableFlesch {
		recs = append(recs, "Improve readability with shorter sentences and simpler words.")
	}

	if r.SectionCount < 3 {
		recs = append(recs, "Add more sections to improve content structure.")
	}
	switch r.ContentBalance {
	case "uneven":
		recs = append(recs, "Balance section lengths for better content flow.")
	case "too_short":
		recs = append(recs, "Expand sections to provide more substantial content.")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
