// internal/domain/signal/model.go

package signal

// SentimentScores holds the raw keyword hit counts per category.
type SentimentScores struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Sentiment is the outcome of keyword-based sentiment analysis.
type Sentiment struct {
	Label      string          `json:"sentiment"`
	Confidence float64         `json:"confidence"`
	Scores     SentimentScores `json:"scores"`
}

// Entities are the mention/link/brand references found in content.
// Mentions and Links are deduplicated and unordered; Brands follows the
// declared order of the known-brand list.
type Entities struct {
	Mentions []string `json:"mentions"`
	Links    []string `json:"links"`
	Brands   []string `json:"brands"`
}

// EngagementPotential estimates how likely content is to drive engagement.
type EngagementPotential struct {
	Score          float64  `json:"score"`
	Factors        []string `json:"factors"`
	Recommendation string   `json:"recommendation"`
}

// ContentAnalysis is the assembled result of the four content analyses.
// The zero value is the empty result returned for empty content.
type ContentAnalysis struct {
	Sentiment           Sentiment           `json:"sentiment"`
	Topics              []string            `json:"topics"`
	Entities            Entities            `json:"entities"`
	EngagementPotential EngagementPotential `json:"engagement_potential"`
	ContentLength       int                 `json:"content_length"`
	WordCount           int                 `json:"word_count"`
}

// EngagementSignals are derived from the merged engagement/metrics counters.
type EngagementSignals struct {
	TotalEngagement    float64 `json:"total_engagement"`
	EngagementRate     float64 `json:"engagement_rate"`
	EngagementVelocity float64 `json:"engagement_velocity"`
	ViralCoefficient   float64 `json:"viral_coefficient"`
	EngagementQuality  float64 `json:"engagement_quality"`
}

// ContentSignals carry the content analysis into the signal bundle.
type ContentSignals struct {
	Sentiment           string   `json:"sentiment"`
	SentimentConfidence float64  `json:"sentiment_confidence"`
	Topics              []string `json:"topics"`
	Entities            Entities `json:"entities"`
	ContentType         string   `json:"content_type"`
	HashtagCount        int      `json:"hashtag_count"`
	EngagementPotential float64  `json:"engagement_potential"`
}

// AudienceSignals are stand-ins for audience data not available in this
// pipeline; only AudienceSize is derived from the event.
type AudienceSignals struct {
	AudienceSize         float64  `json:"audience_size"`
	AudienceGrowthRate   float64  `json:"audience_growth_rate"`
	AudienceQualityScore float64  `json:"audience_quality_score"`
	AudienceOverlap      []string `json:"audience_overlap"`
}

// TrendSignals measure alignment with the static trending-term list.
type TrendSignals struct {
	TrendingHashtags    []string `json:"trending_hashtags"`
	TrendingTopics      []string `json:"trending_topics"`
	TrendAlignmentScore float64  `json:"trend_alignment_score"`
	SeasonalityMatch    bool     `json:"seasonality_match"`
}

// Scores are the composite actionability scores, each clamped to [0,1].
type Scores struct {
	ViralPotential    float64 `json:"viral_potential"`
	BrandSafety       float64 `json:"brand_safety"`
	EngagementQuality float64 `json:"engagement_quality"`
	CreatorValue      float64 `json:"creator_value"`
}

// Recommendation is a single threshold-driven action suggestion.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// Bundle is the terminal output of signal extraction for one event.
// Recommendations keeps the fixed evaluation order amplify, improve, alert.
type Bundle struct {
	EngagementSignals EngagementSignals `json:"engagement_signals"`
	ContentSignals    ContentSignals    `json:"content_signals"`
	AudienceSignals   AudienceSignals   `json:"audience_signals"`
	TrendSignals      TrendSignals      `json:"trend_signals"`
	Scores            Scores            `json:"scores"`
	Recommendations   []Recommendation  `json:"recommendations"`
}
