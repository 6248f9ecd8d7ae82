// internal/service/consumer/consumer.go

package consumer

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"verisignal/internal/adapter/storage"
	"verisignal/internal/domain/event"
	"verisignal/internal/enrich"
	"verisignal/internal/transport"
)

// EventStore is the relational sink for enriched events and chat memory.
type EventStore interface {
	SaveSocialEvent(ctx context.Context, rec event.EnrichedRecord) error
	SaveChatMessage(ctx context.Context, creatorID, role, content string) error
}

// InteractionStore is the optional document sink.
type InteractionStore interface {
	SaveInteraction(ctx context.Context, interaction storage.Interaction) error
}

// ResultPublisher publishes enrichment results to the bus.
type ResultPublisher interface {
	PublishEnrichmentResult(res transport.EnrichmentResult) error
}

// Consumer ties the enrichment pipeline to its sinks. Every failure while
// handling an event is logged and the event is dropped; there is no retry
// and no redelivery, so processing always moves on to the next message.
type Consumer struct {
	pipeline  *enrich.Pipeline
	store     EventStore
	documents InteractionStore
	publisher ResultPublisher
	logger    *logrus.Logger
}

// New creates a consumer. documents may be nil when the document store
// is disabled.
func New(
	pipeline *enrich.Pipeline,
	store EventStore,
	documents InteractionStore,
	publisher ResultPublisher,
	logger *logrus.Logger,
) *Consumer {
	return &Consumer{
		pipeline:  pipeline,
		store:     store,
		documents: documents,
		publisher: publisher,
		logger:    logger,
	}
}

// HandleSocialEvent enriches one platform event and writes the results
// to the configured sinks. Enrichment and persistence failures go through
// the same drop-and-continue path.
func (c *Consumer) HandleSocialEvent(ctx context.Context, ev event.RawEvent) {
	log := c.logger.WithFields(logrus.Fields{
		"proc_id":    uuid.New().String(),
		"creator_id": ev.CreatorID,
		"platform":   ev.Platform,
	})

	if err := c.processSocialEvent(ctx, ev); err != nil {
		log.WithError(err).Error("Error processing social event, dropping")
		return
	}

	log.Info("Processed social event")
}

func (c *Consumer) processSocialEvent(ctx context.Context, ev event.RawEvent) error {
	if ev.CreatorID == "" {
		return errMissingCreatorID
	}

	rec, bundle, err := c.pipeline.Process(ev)
	if err != nil {
		return err
	}

	if err := c.store.SaveSocialEvent(ctx, rec); err != nil {
		return err
	}

	// The document write and the publish are issued independently of the
	// relational insert; a failure here after the insert succeeded leaves
	// the sinks inconsistent. Accepted gap: there is no shared transaction.
	if c.documents != nil {
		interaction := storage.Interaction{
			CreatorID:    rec.CreatorID,
			Platform:     string(rec.Platform),
			EnrichedData: rec,
			Signals:      bundle,
			Timestamp:    ev.Timestamp,
		}
		if err := c.documents.SaveInteraction(ctx, interaction); err != nil {
			return err
		}
	}

	return c.publisher.PublishEnrichmentResult(transport.EnrichmentResult{
		CreatorID: rec.CreatorID,
		Platform:  rec.Platform,
		Signals:   bundle,
		Timestamp: ev.Timestamp,
	})
}

// HandleAssistantRequest records one assistant chat request as user-role
// chat memory.
func (c *Consumer) HandleAssistantRequest(ctx context.Context, req event.AssistantRequest) {
	log := c.logger.WithField("creator_id", req.CreatorID)

	if req.CreatorID == "" {
		log.Error("Error processing assistant request, dropping: missing creator id")
		return
	}

	log.WithField("message", req.Message).Info("Assistant request received")

	if err := c.store.SaveChatMessage(ctx, req.CreatorID, "user", req.Message); err != nil {
		log.WithError(err).Error("Error saving chat message, dropping")
	}
}

var errMissingCreatorID = &malformedEventError{field: "creatorId"}

// malformedEventError marks an event missing a required field. There is
// no separate validation stage; this surfaces through the same per-event
// handler as any other stage failure.
type malformedEventError struct {
	field string
}

func (e *malformedEventError) Error() string {
	return "malformed event: missing " + e.field
}
