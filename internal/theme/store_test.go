package theme

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sentiment-web/internal/repository"
)

type failingKV struct{ repository.KV }

func (failingKV) Put(ctx context.Context, key string, value []byte) error {
	return errors.New("disk full")
}

func TestStore_DefaultAndToggle(t *testing.T) {
	ctx := context.Background()
	kv := repository.Scoped(repository.NewMemoryStorage(), "visitor")
	store := NewStore(kv, zaptest.NewLogger(t))

	assert.Equal(t, Light, store.Current(ctx))

	next, err := store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Dark, next)
	assert.Equal(t, Dark, store.Current(ctx))

	raw, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	assert.Equal(t, "dark", string(raw))

	next, err = store.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, Light, next)
}

func TestStore_UnrecognisedValue(t *testing.T) {
	ctx := context.Background()
	kv := repository.Scoped(repository.NewMemoryStorage(), "visitor")
	require.NoError(t, kv.Put(ctx, Key, []byte("solarized")))

	assert.Equal(t, Light, NewStore(kv, zaptest.NewLogger(t)).Current(ctx))
}

func TestStore_ToggleFailureKeepsTheme(t *testing.T) {
	ctx := context.Background()
	kv := failingKV{repository.Scoped(repository.NewMemoryStorage(), "visitor")}
	store := NewStore(kv, zaptest.NewLogger(t))

	current, err := store.Toggle(ctx)
	assert.Error(t, err)
	assert.Equal(t, Light, current)
}

func TestParse(t *testing.T) {
	assert.Equal(t, Dark, Parse("dark"))
	assert.Equal(t, Light, Parse("light"))
	assert.Equal(t, Light, Parse(""))
	assert.Equal(t, Light, Parse("DARK"))
}
