// internal/enrich/analyzer_test.go

package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verisignal/internal/domain/signal"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(DefaultLexicon(), testLogger())
}

func TestAnalyzeEmptyContent(t *testing.T) {
	a := newTestAnalyzer()

	result := a.Analyze("")

	assert.Equal(t, signal.ContentAnalysis{}, result)
}

func TestAnalyzeSentiment(t *testing.T) {
	a := newTestAnalyzer()

	tests := []struct {
		name           string
		content        string
		wantLabel      string
		wantConfidence float64
		wantScores     signal.SentimentScores
	}{
		{
			name:           "all positive",
			content:        "amazing awesome",
			wantLabel:      "positive",
			wantConfidence: 1.0,
			wantScores:     signal.SentimentScores{Positive: 2},
		},
		{
			name:           "no keywords",
			content:        "just shipped a thing",
			wantLabel:      "neutral",
			wantConfidence: 0.5,
		},
		{
			name:           "majority negative",
			content:        "terrible awful experience but okay venue",
			wantLabel:      "negative",
			wantConfidence: 2.0 / 3.0,
			wantScores:     signal.SentimentScores{Negative: 2, Neutral: 1},
		},
		{
			name:           "tie resolves to positive",
			content:        "great but terrible",
			wantLabel:      "positive",
			wantConfidence: 0.5,
			wantScores:     signal.SentimentScores{Positive: 1, Negative: 1},
		},
		{
			name:           "case insensitive",
			content:        "AMAZING",
			wantLabel:      "positive",
			wantConfidence: 1.0,
			wantScores:     signal.SentimentScores{Positive: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.analyzeSentiment(tt.content)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
			assert.Equal(t, tt.wantScores, got.Scores)
		})
	}
}

func TestAnalyzeTopics(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("hashtags lowercased and stripped", func(t *testing.T) {
		topics := a.analyzeTopics("Check out #AI and #Tech today")

		assert.Contains(t, topics, "ai")
		assert.Contains(t, topics, "tech")
		assert.LessOrEqual(t, len(topics), 5)
	})

	t.Run("frequency wins over first-seen", func(t *testing.T) {
		topics := a.analyzeTopics("#go #rust #go #go #rust #zig")

		require.Len(t, topics, 3)
		assert.Equal(t, []string{"go", "rust", "zig"}, topics)
	})

	t.Run("ties keep first-seen order", func(t *testing.T) {
		topics := a.analyzeTopics("#alpha #beta #gamma")

		assert.Equal(t, []string{"alpha", "beta", "gamma"}, topics)
	})

	t.Run("capitalized phrases over three characters", func(t *testing.T) {
		topics := a.analyzeTopics("the Machine Learning rollout")

		assert.Contains(t, topics, "machine learning")
	})

	t.Run("at most five topics", func(t *testing.T) {
		topics := a.analyzeTopics("#one #two #three #four #five #six #seven")

		assert.Len(t, topics, 5)
	})

	t.Run("deduplicated", func(t *testing.T) {
		topics := a.analyzeTopics("#AI #ai")

		assert.Equal(t, []string{"ai"}, topics)
	})
}

func TestAnalyzeEntities(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("mentions and links deduplicated", func(t *testing.T) {
		entities := a.analyzeEntities("cc @alice @bob @alice see https://example.com/a and https://example.com/a")

		assert.ElementsMatch(t, []string{"@alice", "@bob"}, entities.Mentions)
		assert.ElementsMatch(t, []string{"https://example.com/a"}, entities.Links)
	})

	t.Run("brands follow the lexicon order", func(t *testing.T) {
		entities := a.analyzeEntities("Pepsi tastes better than Coca-Cola, says Apple")

		assert.Equal(t, []string{"apple", "coca-cola", "pepsi"}, entities.Brands)
	})

	t.Run("brand matching is substring containment", func(t *testing.T) {
		// Known limitation: "pineapple" contains "apple".
		entities := a.analyzeEntities("fresh pineapple smoothie")

		assert.Equal(t, []string{"apple"}, entities.Brands)
	})

	t.Run("empty sets for plain content", func(t *testing.T) {
		entities := a.analyzeEntities("nothing to see here")

		assert.Empty(t, entities.Mentions)
		assert.Empty(t, entities.Links)
		assert.Empty(t, entities.Brands)
	})
}

func TestAnalyzeEngagementPotential(t *testing.T) {
	a := newTestAnalyzer()

	t.Run("question cta and optimal length", func(t *testing.T) {
		// 12 words, a question and a call to action: 20 + 15 + 10 = 45.
		got := a.analyzeEngagementPotential("What do you think of the new release? Share your thoughts below please")

		assert.InDelta(t, 0.45, got.Score, 1e-9)
		assert.GreaterOrEqual(t, got.Score, 0.45)
		assert.Equal(t, []string{"contains_question", "has_cta", "optimal_length"}, got.Factors)
		assert.Equal(t, "Moderate engagement potential", got.Recommendation)
	})

	t.Run("emoji score capped at 25", func(t *testing.T) {
		got := a.analyzeEngagementPotential("😀😀😀😀😀😀")

		assert.InDelta(t, 0.25, got.Score, 1e-9)
		assert.Equal(t, []string{"contains_emojis"}, got.Factors)
	})

	t.Run("all factors reach the high bucket", func(t *testing.T) {
		// 20 + 25 + 15 + 10 = 70.
		got := a.analyzeEngagementPotential("Ready for launch day? 😀😀😀😀😀 Follow along and comment with your top feature requests this week")

		assert.InDelta(t, 0.7, got.Score, 1e-9)
		assert.Equal(t, "High engagement potential", got.Recommendation)
	})

	t.Run("flat content scores zero", func(t *testing.T) {
		got := a.analyzeEngagementPotential("status update")

		assert.Zero(t, got.Score)
		assert.Equal(t, "Consider adding questions or CTAs", got.Recommendation)
	})
}

func TestAnalyzeAssemblesAllResults(t *testing.T) {
	a := newTestAnalyzer()

	content := "Amazing collab with @partner! Check https://example.com #AI"
	result := a.Analyze(content)

	assert.Equal(t, "positive", result.Sentiment.Label)
	assert.Contains(t, result.Topics, "ai")
	assert.Contains(t, result.Entities.Mentions, "@partner")
	assert.Contains(t, result.Entities.Links, "https://example.com")
	assert.NotEmpty(t, result.EngagementPotential.Recommendation)
	assert.Equal(t, len(content), result.ContentLength)
	assert.Equal(t, 7, result.WordCount)
}
