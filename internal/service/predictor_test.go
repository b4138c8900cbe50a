package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/models"
	"sentiment-web/internal/repository"
)

func positive() *models.PredictionResult {
	return &models.PredictionResult{
		Sentiment:        models.Positive,
		Label:            1,
		Confidence:       0.91,
		Probability:      0.89,
		ProcessingTimeMs: 42,
	}
}

func TestPredictor_Predict(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{predict: positive()}
	p := NewPredictor(api, repository.NewMemoryStorage(), zaptest.NewLogger(t))

	result, history, err := p.Predict(ctx, "visitor", "I love this product")
	require.NoError(t, err)
	assert.Equal(t, models.Positive, result.Sentiment)
	require.Len(t, history, 1)
	assert.Equal(t, "I love this product", history[0].Text)
	assert.Equal(t, history, p.History(ctx, "visitor"))
	assert.Empty(t, p.History(ctx, "someone-else"))
}

func TestPredictor_ValidationSkipsNetwork(t *testing.T) {
	api := &fakeAPI{predict: positive()}
	p := NewPredictor(api, repository.NewMemoryStorage(), zaptest.NewLogger(t))

	_, history, err := p.Predict(context.Background(), "visitor", "hi")
	assert.True(t, apperr.IsValidation(err))
	assert.Empty(t, history)
	assert.Zero(t, api.predictCalls)
}

func TestPredictor_ServiceErrorKeepsHistory(t *testing.T) {
	ctx := context.Background()
	api := &fakeAPI{predict: positive()}
	p := NewPredictor(api, repository.NewMemoryStorage(), zaptest.NewLogger(t))

	_, _, err := p.Predict(ctx, "visitor", "first text")
	require.NoError(t, err)

	api.predictErr = &apperr.ServiceError{Op: "predict", Status: 422, Detail: "Text is required"}
	_, history, err := p.Predict(ctx, "visitor", "second text")
	require.Error(t, err)
	assert.Equal(t, "Text is required", apperr.Message(err, MsgPredictFailed))
	require.Len(t, history, 1)
	assert.Equal(t, "first text", history[0].Text)

	api.predictErr = errRefused
	_, _, err = p.Predict(ctx, "visitor", "third text")
	assert.Equal(t, MsgPredictFailed, apperr.Message(err, MsgPredictFailed))
}

func TestPredictor_ClearHistory(t *testing.T) {
	ctx := context.Background()
	p := NewPredictor(&fakeAPI{predict: positive()}, repository.NewMemoryStorage(), zaptest.NewLogger(t))

	_, _, err := p.Predict(ctx, "visitor", "some text")
	require.NoError(t, err)
	require.NoError(t, p.ClearHistory(ctx, "visitor"))
	assert.Empty(t, p.History(ctx, "visitor"))
}

func TestPredictor_RejectsConcurrentSubmission(t *testing.T) {
	p := NewPredictor(&fakeAPI{predict: positive()}, repository.NewMemoryStorage(), zaptest.NewLogger(t))

	release, err := p.guard.Acquire("visitor")
	require.NoError(t, err)
	defer release()

	_, _, err = p.Predict(context.Background(), "visitor", "some text")
	assert.ErrorIs(t, err, ErrBusy)
}
