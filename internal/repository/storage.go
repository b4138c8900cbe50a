package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Get when the key has never been written
var ErrNotFound = errors.New("state not found")

// Storage keeps small opaque values per visitor namespace
type Storage interface {
	Get(ctx context.Context, namespace, key string) ([]byte, error)
	Put(ctx context.Context, namespace, key string, value []byte) error
	Delete(ctx context.Context, namespace, key string) error
	Close() error
}

// KV is a Storage bound to a single namespace
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type scoped struct {
	storage   Storage
	namespace string
}

// Scoped binds storage to namespace
func Scoped(storage Storage, namespace string) KV {
	return &scoped{storage: storage, namespace: namespace}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.storage.Get(ctx, s.namespace, key)
}

func (s *scoped) Put(ctx context.Context, key string, value []byte) error {
	return s.storage.Put(ctx, s.namespace, key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, s.namespace, key)
}

// Options selects and configures a storage backend
type Options struct {
	Driver string // memory, sqlite or postgres
	DSN    string
}

// New opens the backend named by opts.Driver and brings its schema up to date
func New(opts Options, logger *zap.Logger) (Storage, error) {
	switch opts.Driver {
	case "memory":
		logger.Info("Using in-memory storage, state is lost on restart")
		return NewMemoryStorage(), nil
	case "sqlite", "postgres":
		db, err := Connect(opts.Driver, opts.DSN, logger)
		if err != nil {
			return nil, err
		}
		if err := Migrate(db, opts.Driver, logger); err != nil {
			db.Close()
			return nil, err
		}
		return NewSQLStorage(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
