// Package history keeps the last few single-text predictions of a visitor.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sentiment-web/internal/models"
	"sentiment-web/internal/repository"
)

const (
	// Key under which the history is persisted
	Key = "prediction-history"
	// MaxEntries is the number of predictions kept, newest first
	MaxEntries = 10
)

// Store reads and writes one visitor's history
type Store struct {
	kv     repository.KV
	logger *zap.Logger
	now    func() time.Time
}

func NewStore(kv repository.KV, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger, now: time.Now}
}

// Load returns the persisted history. Missing or unreadable data yields an
// empty list.
func (s *Store) Load(ctx context.Context) []models.HistoryEntry {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Failed to read prediction history", zap.Error(err))
		}
		return []models.HistoryEntry{}
	}

	var entries []models.HistoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		s.logger.Warn("Discarding corrupt prediction history", zap.Error(err))
		return []models.HistoryEntry{}
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Append records a new prediction at the front and persists the capped list
func (s *Store) Append(ctx context.Context, text string, result models.PredictionResult) ([]models.HistoryEntry, error) {
	entry := models.HistoryEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC(),
		Text:      text,
		Result:    result,
	}

	entries := append([]models.HistoryEntry{entry}, s.Load(ctx)...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction history: %w", err)
	}
	if err := s.kv.Put(ctx, Key, raw); err != nil {
		return nil, fmt.Errorf("failed to save prediction history: %w", err)
	}
	return entries, nil
}

// Clear removes the history
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear prediction history: %w", err)
	}
	return nil
}
