package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// SQLStorage keeps visitor state in the visitor_state table
type SQLStorage struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewSQLStorage(db *sqlx.DB, logger *zap.Logger) *SQLStorage {
	return &SQLStorage{db: db, logger: logger}
}

func (s *SQLStorage) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query := s.db.Rebind(`SELECT value FROM visitor_state WHERE namespace = ? AND state_key = ?`)

	var value []byte
	if err := s.db.GetContext(ctx, &value, query, namespace, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read state %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLStorage) Put(ctx context.Context, namespace, key string, value []byte) error {
	query := s.db.Rebind(`
		INSERT INTO visitor_state (namespace, state_key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (namespace, state_key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)

	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, query, namespace, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to save state %q: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Delete(ctx context.Context, namespace, key string) error {
	query := s.db.Rebind(`DELETE FROM visitor_state WHERE namespace = ? AND state_key = ?`)
	if _, err := s.db.ExecContext(ctx, query, namespace, key); err != nil {
		return fmt.Errorf("failed to delete state %q: %w", key, err)
	}
	return nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}
