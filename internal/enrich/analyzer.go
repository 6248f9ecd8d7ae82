// internal/enrich/analyzer.go

package enrich

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"verisignal/internal/domain/signal"
)

var (
	mentionPattern     = regexp.MustCompile(`@\w+`)
	linkPattern        = regexp.MustCompile(`https?://\S+`)
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][a-z]+(?:\s[A-Z][a-z]+)*\b`)
)

// Engagement-potential scoring weights.
const (
	questionScore     = 20.0
	emojiScore        = 5.0
	emojiScoreCap     = 25.0
	ctaScore          = 15.0
	lengthScore       = 10.0
	optimalWordsMin   = 10
	optimalWordsMax   = 50
	topicLimit        = 5
	minTopicPhraseLen = 3
)

// Analyzer derives sentiment, topics, entities and an engagement-potential
// estimate from free-text content. Analysis is best-effort: it always
// produces a result and never returns an error.
type Analyzer struct {
	lexicon Lexicon
	logger  *logrus.Logger
}

// NewAnalyzer creates an analyzer matching against the given lexicon.
func NewAnalyzer(lexicon Lexicon, logger *logrus.Logger) *Analyzer {
	return &Analyzer{lexicon: lexicon, logger: logger}
}

// Analyze runs the four content analyses concurrently and assembles the
// result once all of them have completed. Empty content returns the empty
// result without running any analysis. A panicking analysis leaves its
// slot zero-valued rather than failing the whole event.
func (a *Analyzer) Analyze(content string) signal.ContentAnalysis {
	if content == "" {
		return signal.ContentAnalysis{}
	}

	var (
		wg        sync.WaitGroup
		sentiment signal.Sentiment
		topics    []string
		entities  signal.Entities
		potential signal.EngagementPotential
	)

	stages := []struct {
		name string
		run  func()
	}{
		{"sentiment", func() { sentiment = a.analyzeSentiment(content) }},
		{"topics", func() { topics = a.analyzeTopics(content) }},
		{"entities", func() { entities = a.analyzeEntities(content) }},
		{"engagement_potential", func() { potential = a.analyzeEngagementPotential(content) }},
	}

	wg.Add(len(stages))
	for _, stage := range stages {
		go func(name string, run func()) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.logger.WithField("analysis", name).Errorf("Content analysis panicked: %v", r)
				}
			}()
			run()
		}(stage.name, stage.run)
	}
	wg.Wait()

	return signal.ContentAnalysis{
		Sentiment:           sentiment,
		Topics:              topics,
		Entities:            entities,
		EngagementPotential: potential,
		ContentLength:       len(content),
		WordCount:           len(strings.Fields(content)),
	}
}

// analyzeSentiment counts keyword occurrences per category. With no hits
// at all the result is neutral at 0.5 confidence; otherwise the category
// with the most hits wins and confidence is its share of all hits. Ties
// resolve in category declaration order: positive, negative, neutral.
func (a *Analyzer) analyzeSentiment(content string) signal.Sentiment {
	lower := strings.ToLower(content)

	categories := []struct {
		label    string
		keywords []string
	}{
		{"positive", a.lexicon.Sentiment.Positive},
		{"negative", a.lexicon.Sentiment.Negative},
		{"neutral", a.lexicon.Sentiment.Neutral},
	}

	counts := make([]int, len(categories))
	total := 0
	for i, category := range categories {
		for _, keyword := range category.keywords {
			counts[i] += strings.Count(lower, keyword)
		}
		total += counts[i]
	}

	scores := signal.SentimentScores{
		Positive: counts[0],
		Negative: counts[1],
		Neutral:  counts[2],
	}

	if total == 0 {
		return signal.Sentiment{Label: "neutral", Confidence: 0.5, Scores: scores}
	}

	best := 0
	for i := 1; i < len(counts); i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}

	return signal.Sentiment{
		Label:      categories[best].label,
		Confidence: float64(counts[best]) / float64(total),
		Scores:     scores,
	}
}

// analyzeTopics extracts candidate topics from hashtags and capitalized
// phrases, then returns the five most frequent, ties broken by first
// appearance in the combined sequence.
func (a *Analyzer) analyzeTopics(content string) []string {
	var terms []string

	for _, tag := range extractHashtags(content) {
		terms = append(terms, strings.ToLower(strings.TrimPrefix(tag, "#")))
	}

	for _, phrase := range capitalizedPattern.FindAllString(content, -1) {
		if len(phrase) > minTopicPhraseLen {
			terms = append(terms, strings.ToLower(phrase))
		}
	}

	counts := make(map[string]int, len(terms))
	ordered := make([]string, 0, len(terms))
	for _, term := range terms {
		if counts[term] == 0 {
			ordered = append(ordered, term)
		}
		counts[term]++
	}

	// ordered is in first-seen order, so a stable sort by count keeps the
	// first-seen tie-break.
	sort.SliceStable(ordered, func(i, j int) bool {
		return counts[ordered[i]] > counts[ordered[j]]
	})

	if len(ordered) > topicLimit {
		ordered = ordered[:topicLimit]
	}
	return ordered
}

// analyzeEntities extracts mentions, links and known-brand references.
// Mentions and links are deduplicated; brands keep the lexicon's declared
// order. Brand matching is plain substring containment, so embedded
// matches count (see Lexicon.KnownBrands).
func (a *Analyzer) analyzeEntities(content string) signal.Entities {
	entities := signal.Entities{
		Mentions: dedupe(mentionPattern.FindAllString(content, -1)),
		Links:    dedupe(linkPattern.FindAllString(content, -1)),
		Brands:   []string{},
	}

	lower := strings.ToLower(content)
	for _, brand := range a.lexicon.KnownBrands {
		if strings.Contains(lower, brand) {
			entities.Brands = append(entities.Brands, brand)
		}
	}
	return entities
}

// analyzeEngagementPotential scores content on the engagement drivers we
// can detect statically: questions, emojis, calls to action and length.
func (a *Analyzer) analyzeEngagementPotential(content string) signal.EngagementPotential {
	score := 0.0
	factors := []string{}
	lower := strings.ToLower(content)

	if strings.Contains(content, "?") {
		score += questionScore
		factors = append(factors, "contains_question")
	}

	if count := countEmojis(content); count > 0 {
		score += math.Min(float64(count)*emojiScore, emojiScoreCap)
		factors = append(factors, "contains_emojis")
	}

	for _, phrase := range a.lexicon.CTAPhrases {
		if strings.Contains(lower, phrase) {
			score += ctaScore
			factors = append(factors, "has_cta")
			break
		}
	}

	if words := len(strings.Fields(content)); words >= optimalWordsMin && words <= optimalWordsMax {
		score += lengthScore
		factors = append(factors, "optimal_length")
	}

	normalized := math.Min(score/100, 1.0)

	return signal.EngagementPotential{
		Score:          normalized,
		Factors:        factors,
		Recommendation: engagementRecommendation(normalized),
	}
}

func engagementRecommendation(score float64) string {
	switch {
	case score >= 0.7:
		return "High engagement potential"
	case score >= 0.4:
		return "Moderate engagement potential"
	default:
		return "Consider adding questions or CTAs"
	}
}

// countEmojis counts characters in the primary emoji code-point range.
func countEmojis(content string) int {
	count := 0
	for _, r := range content {
		if r >= 0x1F600 && r <= 0x1F64F {
			count++
		}
	}
	return count
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

// normalizeTerm lowercases a hashtag or topic and strips a leading '#'.
func normalizeTerm(term string) string {
	return strings.ToLower(strings.TrimPrefix(term, "#"))
}
