// Package seo implements the SEO helpers used around article generation:
// URL slug generation, keyword parsing and extraction, and meta
// description bounds.
package seo

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLength bounds generated slugs.
const MaxSlugLength = 80

// MaxMetaDescriptionLength is the recommended upper bound for meta
// descriptions before search engines truncate them.
const MaxMetaDescriptionLength = 160

var (
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9]+`)
	repeatedHyphens = regexp.MustCompile(`-{2,}`)
)

// diacriticsRemover strips combining marks after canonical decomposition,
// so "café" slugifies to "cafe".
var diacriticsRemover = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify converts a title into a URL-safe slug: ASCII lowercase words
// joined by single hyphens, bounded in length, with diacritics folded.
func Slugify(title string) string {
	folded, _, err := transform.String(diacriticsRemover, title)
	if err != nil {
		folded = title
	}

	slug := strings.ToLower(folded)
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = repeatedHyphens.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugLength {
		slug = slug[:MaxSlugLength]
		// Never cut mid-word when a boundary exists.
		if idx := strings.LastIndex(slug, "-"); idx > 0 {
			slug = slug[:idx]
		}
	}

	return slug
}

// ParseKeywordList splits a raw keyword field into cleaned keywords.
// Newline separation is the primary format; comma separation is accepted
// as a fallback.
func ParseKeywordList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	sep := ","
	if strings.Contains(raw, "\n") {
		sep = "\n"
	}

	parts := strings.Split(raw, sep)
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if k := strings.TrimSpace(p); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}

// stopWords are excluded from frequency-based keyword extraction.
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "have": true, "they": true,
	"from": true, "been": true, "your": true, "more": true, "will": true,
	"time": true, "like": true, "make": true, "than": true, "into": true,
	"could": true, "other": true, "after": true, "first": true, "well": true,
	"many": true, "some": true, "what": true, "know": true, "would": true,
	"there": true, "think": true, "people": true, "take": true, "year": true,
	"good": true, "just": true, "most": true, "work": true, "life": true,
	"only": true, "over": true, "also": true, "back": true, "very": true,
	"where": true, "much": true, "should": true, "through": true, "long": true,
	"little": true, "before": true,
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]{4,}`)

// ExtractKeywords returns up to limit keywords from the text, ranked by
// frequency with stop words removed. Ties break alphabetically so the
// result is deterministic.
func ExtractKeywords(text string, limit int) []string {
	if limit <= 0 {
		return nil
	}

	counts := make(map[string]int)
	for _, word := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if !stopWords[word] {
			counts[word]++
		}
	}

	words := make([]string, 0, len(counts))
	for word := range counts {
		words = append(words, word)
	}

	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

// TrimMetaDescription bounds a meta description to the recommended length,
// cutting at a word boundary and appending an ellipsis when truncated.
func TrimMetaDescription(desc string) string {
	desc = strings.TrimSpace(desc)
	if len(desc) <= MaxMetaDescriptionLength {
		return desc
	}

	// Back the cut point off to a rune boundary so scripts without spaces
	// are never split mid-rune.
	limit := MaxMetaDescriptionLength - 1
	for limit > 0 && !utf8.RuneStart(desc[limit]) {
		limit--
	}

	cut := desc[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
