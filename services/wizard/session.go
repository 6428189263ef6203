package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"roomflow/models"
)

// Store is the save/load boundary for drafts.
type Store interface {
	Save(ctx context.Context, d *models.BookingDraft) error
	Load(ctx context.Context, draftID string) (*models.BookingDraft, error)
	Drop(ctx context.Context, draftID string) error
}

// DraftStore is the save/load boundary for drafts. A draft lives in Redis
// as one JSON document under its draft ID; every save renews the TTL, so an
// active wizard session never expires mid-flow.
type DraftStore struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{Client: client, TTL: ttl}
}

func draftKey(draftID string) string {
	return "draft:" + draftID
}

// Save serializes the draft and renews its TTL.
func (s *DraftStore) Save(ctx context.Context, d *models.BookingDraft) error {
	d.UpdatedAt = time.Now()
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	if err := s.Client.Set(ctx, draftKey(d.DraftID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("failed to store draft: %w", err)
	}
	return nil
}

// Load fetches the draft; a missing or expired key is a NotFoundError.
func (s *DraftStore) Load(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	data, err := s.Client.Get(ctx, draftKey(draftID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, NewNotFoundError("draft")
		}
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	var d models.BookingDraft
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("failed to parse draft: %w", err)
	}
	return &d, nil
}

// Drop discards the draft. Dropping an unknown draft is not an error.
func (s *DraftStore) Drop(ctx context.Context, draftID string) error {
	if err := s.Client.Del(ctx, draftKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to drop draft: %w", err)
	}
	return nil
}
