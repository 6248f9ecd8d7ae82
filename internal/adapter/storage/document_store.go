// internal/adapter/storage/document_store.go

package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"verisignal/internal/domain/event"
	"verisignal/internal/domain/signal"
)

// Interaction is the document written per social event when the
// document store is enabled.
type Interaction struct {
	CreatorID    string               `bson:"creator_id"`
	Platform     string               `bson:"platform"`
	EnrichedData event.EnrichedRecord `bson:"enriched_data"`
	Signals      signal.Bundle        `bson:"signals"`
	Timestamp    time.Time            `bson:"timestamp"`
}

// DocumentStore implements the optional document-store sink. It is
// feature-flagged; when disabled the consumer is wired without it.
type DocumentStore struct {
	client       *mongo.Client
	interactions *mongo.Collection
}

// NewDocumentStore connects to the document store and verifies the
// connection. A failure here is fatal at startup.
func NewDocumentStore(ctx context.Context, url, database string) (*DocumentStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to document store: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("unable to ping document store: %w", err)
	}

	return &DocumentStore{
		client:       client,
		interactions: client.Database(database).Collection("interactions"),
	}, nil
}

// SaveInteraction writes one interaction document.
func (s *DocumentStore) SaveInteraction(ctx context.Context, interaction Interaction) error {
	if _, err := s.interactions.InsertOne(ctx, interaction); err != nil {
		return fmt.Errorf("error saving interaction: %w", err)
	}
	return nil
}

// Ping verifies the connection for readiness checks.
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects from the document store.
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
