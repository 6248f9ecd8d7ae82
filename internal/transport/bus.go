// internal/transport/bus.go

package transport

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"verisignal/internal/config"
	"verisignal/internal/domain/event"
	"verisignal/internal/domain/signal"
)

// queueGroup makes consumer instances share the subscription so each
// message is delivered to exactly one of them.
const queueGroup = "enrichment-consumer"

// EnrichmentResult is the payload published per enriched event.
type EnrichmentResult struct {
	CreatorID string         `json:"creatorId"`
	Platform  event.Platform `json:"platform"`
	Signals   signal.Bundle  `json:"signals"`
	Timestamp time.Time      `json:"timestamp"`
}

// Bus wraps the NATS connection with the subjects this service consumes
// and produces. Delivery is at-most-once: a handler failure is logged and
// the message is not redelivered.
type Bus struct {
	conn   *nats.Conn
	topics config.TopicsConfig
	logger *logrus.Logger
	subs   []*nats.Subscription
}

// NewBus creates a bus bound to the configured subjects.
func NewBus(conn *nats.Conn, topics config.TopicsConfig, logger *logrus.Logger) *Bus {
	return &Bus{
		conn:   conn,
		topics: topics,
		logger: logger,
	}
}

// SubscribeSocialEvents delivers decoded platform events to the handler.
// Messages that fail to decode are logged and dropped.
func (b *Bus) SubscribeSocialEvents(handler func(event.RawEvent)) error {
	sub, err := b.conn.QueueSubscribe(b.topics.SocialEvents, queueGroup, func(msg *nats.Msg) {
		var ev event.RawEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			b.logger.WithError(err).WithField("topic", b.topics.SocialEvents).Error("Dropping malformed social event")
			return
		}
		handler(ev)
	})
	if err != nil {
		return fmt.Errorf("unable to subscribe to %s: %w", b.topics.SocialEvents, err)
	}

	b.subs = append(b.subs, sub)
	return nil
}

// SubscribeAssistantRequests delivers decoded assistant chat requests to
// the handler.
func (b *Bus) SubscribeAssistantRequests(handler func(event.AssistantRequest)) error {
	sub, err := b.conn.QueueSubscribe(b.topics.AssistantRequests, queueGroup, func(msg *nats.Msg) {
		var req event.AssistantRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			b.logger.WithError(err).WithField("topic", b.topics.AssistantRequests).Error("Dropping malformed assistant request")
			return
		}
		handler(req)
	})
	if err != nil {
		return fmt.Errorf("unable to subscribe to %s: %w", b.topics.AssistantRequests, err)
	}

	b.subs = append(b.subs, sub)
	return nil
}

// PublishEnrichmentResult publishes one result to the results subject.
func (b *Bus) PublishEnrichmentResult(res EnrichmentResult) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("error marshaling enrichment result: %w", err)
	}

	if err := b.conn.Publish(b.topics.EnrichmentResults, data); err != nil {
		return fmt.Errorf("error publishing enrichment result: %w", err)
	}

	return nil
}

// Drain unsubscribes from all subjects, letting in-flight handlers finish.
func (b *Bus) Drain() error {
	for _, sub := range b.subs {
		if err := sub.Drain(); err != nil {
			return fmt.Errorf("error draining subscription %s: %w", sub.Subject, err)
		}
	}
	return nil
}
