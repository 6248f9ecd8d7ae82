// internal/enrich/extractor.go

package enrich

import (
	"math"
	"strings"
	"time"

	"verisignal/internal/domain/event"
	"verisignal/internal/domain/signal"
)

// ExtractorConfig holds the recommendation thresholds and the score
// normalization constants. The normalizers have no documented derivation;
// they are carried as configuration rather than reinterpreted.
type ExtractorConfig struct {
	ViralPotentialThreshold    float64
	BrandSafetyThreshold       float64
	EngagementQualityThreshold float64

	// VelocityNormalizer scales engagement velocity into [0,1] territory
	// for the viral-potential score.
	VelocityNormalizer float64

	// ViralMultiplier scales the share-to-view ratio before clamping.
	ViralMultiplier float64
}

// DefaultExtractorConfig returns the standard thresholds and normalizers.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		ViralPotentialThreshold:    0.7,
		BrandSafetyThreshold:       0.8,
		EngagementQualityThreshold: 0.6,
		VelocityNormalizer:         1000,
		ViralMultiplier:            10,
	}
}

// audienceQualityPlaceholder stands in for audience data this pipeline
// does not receive; audience signals are declared values, not computed.
const audienceQualityPlaceholder = 0.7

// engagementQualityWeights value engagement actions by effort, with
// comments as the strongest signal. The quality score is normalized
// against the theoretical maximum where every action were a comment.
var engagementQualityWeights = map[string]float64{
	"comments": 3,
	"shares":   2,
	"retweets": 2,
	"likes":    1,
	"saves":    2.5,
}

const maxEngagementWeight = 3

// Extractor folds an enriched record and its optional content analysis
// into the four signal groups, composite scores and recommendations.
type Extractor struct {
	lexicon Lexicon
	config  ExtractorConfig
	clock   Clock
}

// NewExtractor creates an extractor using the given clock for
// wall-clock-dependent signals (velocity, seasonality).
func NewExtractor(lexicon Lexicon, config ExtractorConfig, clock Clock) *Extractor {
	if clock == nil {
		clock = time.Now
	}
	return &Extractor{lexicon: lexicon, config: config, clock: clock}
}

// Extract builds the signal bundle for one record. A nil analysis (empty
// content) yields neutral content-signal defaults. The bundle is a fresh
// object graph per call.
func (e *Extractor) Extract(rec event.EnrichedRecord, analysis *signal.ContentAnalysis) signal.Bundle {
	engagement := e.extractEngagementSignals(rec)
	content := e.extractContentSignals(rec, analysis)
	audience := e.extractAudienceSignals(rec)
	trends := e.extractTrendSignals(rec, analysis)

	scores := e.calculateScores(engagement, content, audience, trends, rec)

	return signal.Bundle{
		EngagementSignals: engagement,
		ContentSignals:    content,
		AudienceSignals:   audience,
		TrendSignals:      trends,
		Scores:            scores,
		Recommendations:   e.generateRecommendations(scores),
	}
}

func (e *Extractor) extractEngagementSignals(rec event.EnrichedRecord) signal.EngagementSignals {
	merged := mergeCounters(rec.Engagement, rec.Metrics)

	total := 0.0
	for _, v := range merged {
		total += v
	}

	return signal.EngagementSignals{
		TotalEngagement:    total,
		EngagementRate:     rec.EngagementRate,
		EngagementVelocity: e.engagementVelocity(merged, rec.Timestamp),
		ViralCoefficient:   e.viralCoefficient(merged),
		EngagementQuality:  engagementQuality(merged),
	}
}

// engagementVelocity is core engagement actions per hour since the post.
// A non-positive elapsed time yields 0, never a negative or infinite rate.
func (e *Extractor) engagementVelocity(merged map[string]float64, posted time.Time) float64 {
	hours := e.clock().UTC().Sub(posted).Hours()
	if hours <= 0 {
		return 0
	}
	actions := merged["likes"] + merged["comments"] + merged["shares"] + merged["retweets"]
	return actions / hours
}

// viralCoefficient is the share-type to view-type ratio, scaled and
// clamped to [0,1]. A zero denominator yields 0.
func (e *Extractor) viralCoefficient(merged map[string]float64) float64 {
	shares := merged["shares"] + merged["retweets"]
	views := merged["views"] + merged["impressions"]
	if views <= 0 {
		return 0
	}
	return math.Min(shares/views*e.config.ViralMultiplier, 1.0)
}

func engagementQuality(merged map[string]float64) float64 {
	weightedSum := 0.0
	total := 0.0
	for key, weight := range engagementQualityWeights {
		weightedSum += merged[key] * weight
		total += merged[key]
	}
	if total <= 0 {
		return 0
	}
	return weightedSum / (total * maxEngagementWeight)
}

func (e *Extractor) extractContentSignals(rec event.EnrichedRecord, analysis *signal.ContentAnalysis) signal.ContentSignals {
	contentType := string(rec.MediaType)
	if contentType == "" {
		contentType = string(event.MediaText)
	}

	signals := signal.ContentSignals{
		Sentiment:    "neutral",
		Topics:       []string{},
		Entities:     signal.Entities{Mentions: []string{}, Links: []string{}, Brands: []string{}},
		ContentType:  contentType,
		HashtagCount: len(rec.Hashtags),
	}

	if analysis == nil {
		return signals
	}

	if analysis.Sentiment.Label != "" {
		signals.Sentiment = analysis.Sentiment.Label
	}
	signals.SentimentConfidence = analysis.Sentiment.Confidence
	if analysis.Topics != nil {
		signals.Topics = analysis.Topics
	}
	if analysis.Entities.Mentions != nil {
		signals.Entities.Mentions = analysis.Entities.Mentions
	}
	if analysis.Entities.Links != nil {
		signals.Entities.Links = analysis.Entities.Links
	}
	if analysis.Entities.Brands != nil {
		signals.Entities.Brands = analysis.Entities.Brands
	}
	signals.EngagementPotential = analysis.EngagementPotential.Score
	return signals
}

// extractAudienceSignals returns declared stand-ins: only audience size
// is derived from the event (reach, falling back to impressions); the
// rest await data this pipeline does not carry.
func (e *Extractor) extractAudienceSignals(rec event.EnrichedRecord) signal.AudienceSignals {
	size := rec.Metrics["reach"]
	if size == 0 {
		size = rec.Engagement["impressions"]
	}
	return signal.AudienceSignals{
		AudienceSize:         size,
		AudienceGrowthRate:   0,
		AudienceQualityScore: audienceQualityPlaceholder,
		AudienceOverlap:      []string{},
	}
}

func (e *Extractor) extractTrendSignals(rec event.EnrichedRecord, analysis *signal.ContentAnalysis) signal.TrendSignals {
	var topics []string
	if analysis != nil {
		topics = analysis.Topics
	}

	trendingHashtags := []string{}
	for _, tag := range rec.Hashtags {
		if e.lexicon.isTrending(tag) {
			trendingHashtags = append(trendingHashtags, tag)
		}
	}

	trendingTopics := []string{}
	for _, topic := range topics {
		if e.lexicon.isTrending(topic) {
			trendingTopics = append(trendingTopics, topic)
		}
	}

	return signal.TrendSignals{
		TrendingHashtags:    trendingHashtags,
		TrendingTopics:      trendingTopics,
		TrendAlignmentScore: trendAlignment(len(rec.Hashtags)+len(topics), len(trendingHashtags)+len(trendingTopics)),
		SeasonalityMatch:    e.seasonalityMatch(rec.Content),
	}
}

func trendAlignment(total, trending int) float64 {
	if total == 0 {
		return 0
	}
	return float64(trending) / float64(total)
}

// seasonalityMatch checks the content against the keywords for the
// current UTC calendar month.
func (e *Extractor) seasonalityMatch(content string) bool {
	lower := strings.ToLower(content)
	for _, keyword := range e.lexicon.SeasonalKeywords[e.clock().UTC().Month()] {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func (e *Extractor) calculateScores(
	engagement signal.EngagementSignals,
	content signal.ContentSignals,
	audience signal.AudienceSignals,
	trends signal.TrendSignals,
	rec event.EnrichedRecord,
) signal.Scores {
	viralPotential := engagement.ViralCoefficient*0.4 +
		engagement.EngagementVelocity/e.config.VelocityNormalizer*0.3 +
		trends.TrendAlignmentScore*0.3

	safetyBase := 0.2
	if content.Sentiment != "negative" {
		safetyBase += 0.5
	}
	brandSafety := safetyBase + content.SentimentConfidence*0.3

	creatorValue := audience.AudienceQualityScore*0.5 + rec.EngagementRate/10*0.5

	return signal.Scores{
		ViralPotential:    clamp01(viralPotential),
		BrandSafety:       clamp01(brandSafety),
		EngagementQuality: clamp01(engagement.EngagementQuality),
		CreatorValue:      clamp01(creatorValue),
	}
}

// generateRecommendations evaluates the threshold rules in fixed order:
// amplify, improve, alert. The rules are independent; several may fire.
func (e *Extractor) generateRecommendations(scores signal.Scores) []signal.Recommendation {
	recommendations := []signal.Recommendation{}

	if scores.ViralPotential >= e.config.ViralPotentialThreshold {
		recommendations = append(recommendations, signal.Recommendation{
			Type:     "amplify",
			Priority: "high",
			Action:   "Boost this content with paid promotion",
			Reason:   "High viral potential detected",
		})
	}

	if scores.EngagementQuality < e.config.EngagementQualityThreshold {
		recommendations = append(recommendations, signal.Recommendation{
			Type:     "improve",
			Priority: "medium",
			Action:   "Focus on creating more discussion-worthy content",
			Reason:   "Low engagement quality (too many passive likes)",
		})
	}

	if scores.BrandSafety < e.config.BrandSafetyThreshold {
		recommendations = append(recommendations, signal.Recommendation{
			Type:     "alert",
			Priority: "high",
			Action:   "Review content for brand alignment",
			Reason:   "Potential brand safety concern detected",
		})
	}

	return recommendations
}

func mergeCounters(engagement, metrics map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(engagement)+len(metrics))
	for k, v := range engagement {
		merged[k] = v
	}
	for k, v := range metrics {
		merged[k] = v
	}
	return merged
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
