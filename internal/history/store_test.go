package history

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sentiment-web/internal/models"
	"sentiment-web/internal/repository"
)

func newStore(t *testing.T) (*Store, repository.KV) {
	t.Helper()
	kv := repository.Scoped(repository.NewMemoryStorage(), "visitor")
	return NewStore(kv, zaptest.NewLogger(t)), kv
}

func result(sentiment models.Sentiment) models.PredictionResult {
	return models.PredictionResult{Sentiment: sentiment, Label: sentiment.Label(), Confidence: 0.9, Probability: 0.9}
}

func TestLoad_Empty(t *testing.T) {
	store, _ := newStore(t)
	entries := store.Load(context.Background())
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAppend_NewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	base := time.Date(2024, 11, 21, 10, 0, 0, 0, time.UTC)
	tick := 0
	store.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for i := 0; i < MaxEntries+3; i++ {
		_, err := store.Append(ctx, fmt.Sprintf("text %d", i), result(models.Positive))
		require.NoError(t, err)
	}

	entries := store.Load(ctx)
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "text 12", entries[0].Text)
	assert.Equal(t, "text 3", entries[MaxEntries-1].Text)
	assert.True(t, entries[0].Timestamp.After(entries[1].Timestamp))
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestAppend_ReturnsPersistedList(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)

	returned, err := store.Append(ctx, "great", result(models.Positive))
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, returned, store.Load(ctx))
	assert.Equal(t, models.Positive, returned[0].Result.Sentiment)
}

func TestLoad_CorruptData(t *testing.T) {
	ctx := context.Background()
	store, kv := newStore(t)
	require.NoError(t, kv.Put(ctx, Key, []byte("{not json")))

	assert.Empty(t, store.Load(ctx))

	entries, err := store.Append(ctx, "recovered", result(models.Negative))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	_, err := store.Append(ctx, "great", result(models.Positive))
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Load(ctx))
	assert.NoError(t, store.Clear(ctx))
}
