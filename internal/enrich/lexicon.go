// internal/enrich/lexicon.go

package enrich

import (
	"time"
)

// SentimentKeywords holds the keyword lists per sentiment category.
// Category order is significant: ties between categories are resolved
// positive, then negative, then neutral.
type SentimentKeywords struct {
	Positive []string
	Negative []string
	Neutral  []string
}

// Lexicon bundles the fixed lookup tables the analyzer and extractor
// match content against. It is injected rather than embedded so the
// tables can be replaced in tests or swapped for live data feeds later.
type Lexicon struct {
	Sentiment SentimentKeywords

	// CTAPhrases are matched case-insensitively as substrings.
	CTAPhrases []string

	// KnownBrands are matched case-insensitively as substrings, in
	// declared order. Substring containment produces false positives
	// (e.g. "applesauce" matches "apple"); that is a known limitation
	// of the matching, kept until proper entity recognition replaces it.
	KnownBrands []string

	// TrendingTerms is a static stand-in for a live trend feed.
	TrendingTerms []string

	// SeasonalKeywords maps a UTC calendar month to the keywords that
	// count as a seasonality match for that month.
	SeasonalKeywords map[time.Month][]string
}

// DefaultLexicon returns the built-in lookup tables.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Sentiment: SentimentKeywords{
			Positive: []string{"amazing", "love", "great", "awesome", "excellent", "fantastic", "wonderful", "brilliant"},
			Negative: []string{"bad", "hate", "terrible", "awful", "horrible", "worst", "disappointed", "poor"},
			Neutral:  []string{"okay", "fine", "average", "normal", "decent", "fair", "moderate"},
		},
		CTAPhrases:    []string{"click", "share", "comment", "like", "follow", "subscribe"},
		KnownBrands:   []string{"nike", "apple", "google", "amazon", "microsoft", "coca-cola", "pepsi"},
		TrendingTerms: []string{"ai", "tech", "sustainability", "wellness", "crypto"},
		SeasonalKeywords: map[time.Month][]string{
			time.January:  {"new year", "resolution", "fresh start"},
			time.February: {"valentine", "love"},
			time.December: {"christmas", "holiday", "gift"},
		},
	}
}

// isTrending reports whether a hashtag or topic matches the trending list.
// Terms are compared lowercased with any leading '#' stripped.
func (l Lexicon) isTrending(term string) bool {
	t := normalizeTerm(term)
	for _, trending := range l.TrendingTerms {
		if t == trending {
			return true
		}
	}
	return false
}
