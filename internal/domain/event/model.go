// internal/domain/event/model.go

package event

import (
	"time"
)

// Platform identifies a supported social platform
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// ParsePlatform maps a raw platform string to a known Platform.
// The boolean reports whether the platform is one we have a handler for;
// unknown platforms still flow through the pipeline as degraded enrichment.
func ParsePlatform(s string) (Platform, bool) {
	switch Platform(s) {
	case PlatformTwitter, PlatformYouTube, PlatformInstagram, PlatformTikTok:
		return Platform(s), true
	}
	return Platform(s), false
}

// MediaType classifies the media attached to a post
type MediaType string

const (
	MediaText  MediaType = "text"
	MediaPhoto MediaType = "photo"
	MediaVideo MediaType = "video"
)

// RawEvent is a platform-shaped activity event as consumed from the bus.
// Data carries the platform-specific payload and is never mutated.
type RawEvent struct {
	Platform  Platform       `json:"platform"`
	CreatorID string         `json:"creatorId"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data"`
}

// EnrichedRecord is the canonical record derived from a RawEvent.
// It is created once by the normalizer and never mutated afterward.
// Engagement is populated for twitter, Metrics for the other platforms;
// the key vocabulary differs per platform (likes, retweets, views, saves...).
type EnrichedRecord struct {
	Platform  Platform       `json:"platform"`
	CreatorID string         `json:"creatorId"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`

	Engagement map[string]float64 `json:"engagement,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`

	Content   string    `json:"content"`
	MediaType MediaType `json:"media_type,omitempty"`
	Hashtags  []string  `json:"hashtags,omitempty"`

	// EngagementRate is derived for twitter; EstimatedWatchTime for youtube.
	EngagementRate     float64 `json:"engagement_rate,omitempty"`
	EstimatedWatchTime float64 `json:"estimated_watch_time,omitempty"`

	// Platform extras carried through for downstream consumers.
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Music       map[string]any `json:"music,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`

	// Degraded marks a passthrough record: the platform was unrecognized
	// or its handler failed, so no enrichment fields are populated.
	Degraded bool `json:"degraded,omitempty"`
}

// AssistantRequest is a chat request consumed from the assistant topic.
type AssistantRequest struct {
	CreatorID string `json:"creatorId"`
	Message   string `json:"message"`
}
