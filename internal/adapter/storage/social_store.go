// internal/adapter/storage/social_store.go

package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"verisignal/internal/domain/event"
)

// SocialStore implements append-only relational storage for enriched
// social events and assistant chat history.
type SocialStore struct {
	db *pgxpool.Pool
}

// NewSocialStore creates a new social store
func NewSocialStore(db *pgxpool.Pool) *SocialStore {
	return &SocialStore{
		db: db,
	}
}

// SaveSocialEvent inserts one enriched record. Inserts are append-only;
// reprocessing the same event produces a new row.
func (s *SocialStore) SaveSocialEvent(ctx context.Context, rec event.EnrichedRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("error marshaling enriched record: %w", err)
	}

	query := `
		INSERT INTO raw_social_data (creator_id, platform, payload_json, created_at)
		VALUES ($1, $2, $3, NOW())
	`

	if _, err := s.db.Exec(ctx, query, rec.CreatorID, string(rec.Platform), payload); err != nil {
		return fmt.Errorf("error saving social event: %w", err)
	}

	return nil
}

// SaveChatMessage inserts one chat memory row for an assistant request.
func (s *SocialStore) SaveChatMessage(ctx context.Context, creatorID, role, content string) error {
	query := `
		INSERT INTO chat_memory (creator_id, ts, role, content)
		VALUES ($1, NOW(), $2, $3)
	`

	if _, err := s.db.Exec(ctx, query, creatorID, role, content); err != nil {
		return fmt.Errorf("error saving chat message: %w", err)
	}

	return nil
}
