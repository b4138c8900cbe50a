// Package theme persists the visitor's light/dark preference.
package theme

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sentiment-web/internal/repository"
)

// Theme is the colour scheme applied to the page root
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Key under which the theme is persisted
const Key = "theme"

// Parse maps raw stored values to a Theme, defaulting to Light
func Parse(raw string) Theme {
	if Theme(raw) == Dark {
		return Dark
	}
	return Light
}

// Opposite returns the other theme
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

type Store struct {
	kv     repository.KV
	logger *zap.Logger
}

func NewStore(kv repository.KV, logger *zap.Logger) *Store {
	return &Store{kv: kv, logger: logger}
}

// Current returns the persisted theme or Light
func (s *Store) Current(ctx context.Context) Theme {
	raw, err := s.kv.Get(ctx, Key)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("Failed to read theme", zap.Error(err))
		}
		return Light
	}
	return Parse(string(raw))
}

// Toggle flips and persists the theme, returning the new one
func (s *Store) Toggle(ctx context.Context) (Theme, error) {
	next := s.Current(ctx).Opposite()
	if err := s.kv.Put(ctx, Key, []byte(next)); err != nil {
		return s.Current(ctx), fmt.Errorf("failed to save theme: %w", err)
	}
	return next, nil
}
