// internal/enrich/normalizer.go

package enrich

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sirupsen/logrus"

	"verisignal/internal/domain/event"
)

// Clock supplies the current time. Wall-clock-dependent fields take it
// injected so tests can fix the clock.
type Clock func() time.Time

// avgWatchShare is the industry-average fraction of a video watched,
// used to estimate total watch time from views and duration.
const avgWatchShare = 0.4

var hashtagPattern = regexp.MustCompile(`#\w+`)

// Normalizer maps raw platform-shaped events into canonical enriched
// records. Normalization never fails: an unrecognized platform or a
// handler failure yields a degraded passthrough record instead.
type Normalizer struct {
	logger *logrus.Logger
	clock  Clock
}

// NewNormalizer creates a normalizer using the given clock.
func NewNormalizer(logger *logrus.Logger, clock Clock) *Normalizer {
	if clock == nil {
		clock = time.Now
	}
	return &Normalizer{logger: logger, clock: clock}
}

// Normalize dispatches on the event's platform and returns the enriched
// record. The platform set is closed; the default arm handles anything
// unknown as degraded enrichment with a warning.
func (n *Normalizer) Normalize(ev event.RawEvent) event.EnrichedRecord {
	var handler func(event.RawEvent) event.EnrichedRecord

	switch ev.Platform {
	case event.PlatformTwitter:
		handler = n.normalizeTwitter
	case event.PlatformYouTube:
		handler = n.normalizeYouTube
	case event.PlatformInstagram:
		handler = n.normalizeInstagram
	case event.PlatformTikTok:
		handler = n.normalizeTikTok
	default:
		n.logger.WithField("platform", ev.Platform).Warn("Unknown platform, passing event through unenriched")
		return passthrough(ev)
	}

	rec, err := n.run(handler, ev)
	if err != nil {
		n.logger.WithError(err).WithField("platform", ev.Platform).Error("Error normalizing event, passing through unenriched")
		return passthrough(ev)
	}

	rec.ProcessedAt = n.clock().UTC()
	return rec
}

// run invokes a platform handler, converting a panic into an error so a
// bad payload degrades output quality instead of propagating upward.
func (n *Normalizer) run(handler func(event.RawEvent) event.EnrichedRecord, ev event.RawEvent) (rec event.EnrichedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("normalize %s event: %v", ev.Platform, r)
		}
	}()
	return handler(ev), nil
}

func (n *Normalizer) normalizeTwitter(ev event.RawEvent) event.EnrichedRecord {
	data := ev.Data

	engagement := map[string]float64{
		"likes":       numField(data, "favorite_count"),
		"retweets":    numField(data, "retweet_count"),
		"replies":     numField(data, "reply_count"),
		"quotes":      numField(data, "quote_count"),
		"impressions": numField(data, "impression_count"),
	}

	var engagementRate float64
	if impressions := engagement["impressions"]; impressions > 0 {
		engagementRate = (engagement["likes"] + engagement["retweets"] +
			engagement["replies"] + engagement["quotes"]) / impressions * 100
	}

	text := strField(data, "text")

	rec := passthrough(ev)
	rec.Degraded = false
	rec.Engagement = engagement
	rec.EngagementRate = engagementRate
	rec.Content = text
	rec.MediaType = detectMediaType(data)
	rec.Hashtags = extractHashtags(text)
	return rec
}

func (n *Normalizer) normalizeYouTube(ev event.RawEvent) event.EnrichedRecord {
	data := ev.Data

	metrics := map[string]float64{
		"views":    numField(data, "view_count"),
		"likes":    numField(data, "like_count"),
		"comments": numField(data, "comment_count"),
		"duration": numField(data, "duration"),
	}

	rec := passthrough(ev)
	rec.Degraded = false
	rec.Metrics = metrics
	rec.EstimatedWatchTime = metrics["views"] * metrics["duration"] * avgWatchShare
	rec.Content = strField(data, "title")
	rec.Description = strField(data, "description")
	rec.Tags = strSliceField(data, "tags")
	return rec
}

func (n *Normalizer) normalizeInstagram(ev event.RawEvent) event.EnrichedRecord {
	data := ev.Data

	metrics := map[string]float64{
		"likes":    numField(data, "like_count"),
		"comments": numField(data, "comment_count"),
		"saves":    numField(data, "saved_count"),
		"shares":   numField(data, "share_count"),
		"reach":    numField(data, "reach"),
	}

	caption := strField(data, "caption")

	mediaType := event.MediaType(strField(data, "media_type"))
	if mediaType == "" {
		mediaType = event.MediaPhoto
	}

	rec := passthrough(ev)
	rec.Degraded = false
	rec.Metrics = metrics
	rec.Content = caption
	rec.MediaType = mediaType
	rec.Hashtags = extractHashtags(caption)
	return rec
}

func (n *Normalizer) normalizeTikTok(ev event.RawEvent) event.EnrichedRecord {
	data := ev.Data

	metrics := map[string]float64{
		"views":    numField(data, "play_count"),
		"likes":    numField(data, "digg_count"),
		"shares":   numField(data, "share_count"),
		"comments": numField(data, "comment_count"),
	}

	desc := strField(data, "desc")

	rec := passthrough(ev)
	rec.Degraded = false
	rec.Metrics = metrics
	rec.Content = desc
	rec.Music = mapField(data, "music")
	rec.Hashtags = extractHashtags(desc)
	return rec
}

// passthrough copies the raw event fields into a degraded record.
func passthrough(ev event.RawEvent) event.EnrichedRecord {
	return event.EnrichedRecord{
		Platform:  ev.Platform,
		CreatorID: ev.CreatorID,
		Timestamp: ev.Timestamp,
		Data:      ev.Data,
		Degraded:  true,
	}
}

// detectMediaType applies the precedence video > photo/media > text.
func detectMediaType(data map[string]any) event.MediaType {
	if fieldPresent(data, "video") {
		return event.MediaVideo
	}
	if fieldPresent(data, "photos") || fieldPresent(data, "media") {
		return event.MediaPhoto
	}
	return event.MediaText
}

// extractHashtags returns all #token matches, original case, duplicates kept.
func extractHashtags(text string) []string {
	return hashtagPattern.FindAllString(text, -1)
}

// numField reads a numeric payload field, tolerating the types JSON
// decoding produces. Missing or non-numeric fields read as 0.
func numField(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return 0
}

func strField(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func strSliceField(data map[string]any, key string) []string {
	switch v := data[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func mapField(data map[string]any, key string) map[string]any {
	if v, ok := data[key].(map[string]any); ok {
		return v
	}
	return nil
}

// fieldPresent reports whether a payload field exists with a non-empty value.
func fieldPresent(data map[string]any, key string) bool {
	v, ok := data[key]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != ""
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	case float64:
		return t != 0
	}
	return true
}
