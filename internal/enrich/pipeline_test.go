// internal/enrich/pipeline_test.go

package enrich

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verisignal/internal/domain/event"
)

func newTestPipeline(clock Clock) *Pipeline {
	return NewPipeline(DefaultLexicon(), DefaultExtractorConfig(), clock, testLogger())
}

func twitterEvent() event.RawEvent {
	return event.RawEvent{
		Platform:  event.PlatformTwitter,
		CreatorID: "creator-1",
		Timestamp: testNow.Add(-3 * time.Hour),
		Data: map[string]any{
			"text":             "Amazing launch! What do you think? #AI #Tech",
			"favorite_count":   float64(500),
			"retweet_count":    float64(120),
			"reply_count":      float64(80),
			"quote_count":      float64(30),
			"impression_count": float64(20000),
		},
	}
}

func TestProcessTwitterEvent(t *testing.T) {
	p := newTestPipeline(fixedClock(testNow))

	rec, bundle, err := p.Process(twitterEvent())
	require.NoError(t, err)

	assert.False(t, rec.Degraded)
	assert.Equal(t, "positive", bundle.ContentSignals.Sentiment)
	assert.Contains(t, bundle.ContentSignals.Topics, "ai")
	assert.Equal(t, 2, bundle.ContentSignals.HashtagCount)
	assert.NotZero(t, bundle.EngagementSignals.TotalEngagement)
}

func TestProcessSkipsAnalysisWithoutContent(t *testing.T) {
	p := newTestPipeline(fixedClock(testNow))

	_, bundle, err := p.Process(event.RawEvent{
		Platform:  event.PlatformYouTube,
		CreatorID: "creator-2",
		Timestamp: testNow.Add(-time.Hour),
		Data: map[string]any{
			"view_count": float64(1000),
			"duration":   float64(120),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "neutral", bundle.ContentSignals.Sentiment)
	assert.Zero(t, bundle.ContentSignals.SentimentConfidence)
	assert.Empty(t, bundle.ContentSignals.Topics)
}

func TestProcessDegradedEventStillYieldsBundle(t *testing.T) {
	p := newTestPipeline(fixedClock(testNow))

	rec, bundle, err := p.Process(event.RawEvent{
		Platform:  event.Platform("friendster"),
		CreatorID: "creator-3",
		Timestamp: testNow.Add(-time.Hour),
		Data:      map[string]any{"text": "hello"},
	})
	require.NoError(t, err)

	assert.True(t, rec.Degraded)
	assert.Zero(t, bundle.EngagementSignals.TotalEngagement)
}

func TestProcessIsDeterministicAtFixedClock(t *testing.T) {
	p := newTestPipeline(fixedClock(testNow))
	ev := twitterEvent()

	rec1, bundle1, err := p.Process(ev)
	require.NoError(t, err)
	rec2, bundle2, err := p.Process(ev)
	require.NoError(t, err)

	assert.Equal(t, rec1, rec2)
	assert.Equal(t, bundle1, bundle2)
}

func TestProcessScoresInUnitInterval(t *testing.T) {
	p := newTestPipeline(fixedClock(testNow))

	events := []event.RawEvent{
		twitterEvent(),
		{
			Platform:  event.PlatformTikTok,
			CreatorID: "creator-4",
			Timestamp: testNow.Add(-10 * time.Minute),
			Data: map[string]any{
				"desc":        "viral dance #fyp",
				"play_count":  float64(1),
				"share_count": float64(100000),
			},
		},
		{
			Platform:  event.PlatformInstagram,
			CreatorID: "creator-5",
			Timestamp: testNow,
			Data:      map[string]any{},
		},
	}

	for _, ev := range events {
		_, bundle, err := p.Process(ev)
		require.NoError(t, err)

		scores := bundle.Scores
		for name, score := range map[string]float64{
			"viral_potential":    scores.ViralPotential,
			"brand_safety":       scores.BrandSafety,
			"engagement_quality": scores.EngagementQuality,
			"creator_value":      scores.CreatorValue,
		} {
			assert.GreaterOrEqual(t, score, 0.0, "%s for %s", name, ev.Platform)
			assert.LessOrEqual(t, score, 1.0, "%s for %s", name, ev.Platform)
		}
	}
}
