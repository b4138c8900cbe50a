package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"sentiment-web/internal/history"
	"sentiment-web/internal/models"
	"sentiment-web/internal/repository"
)

// PredictAPI is the part of the sentiment client used for single texts
type PredictAPI interface {
	Predict(ctx context.Context, text string) (*models.PredictionResult, error)
}

// Predictor runs single-text predictions and keeps each visitor's history
type Predictor struct {
	api     PredictAPI
	storage repository.Storage
	guard   *Guard
	logger  *zap.Logger
}

func NewPredictor(api PredictAPI, storage repository.Storage, logger *zap.Logger) *Predictor {
	return &Predictor{
		api:     api,
		storage: storage,
		guard:   NewGuard(),
		logger:  logger,
	}
}

func (p *Predictor) history(visitor string) *history.Store {
	return history.NewStore(repository.Scoped(p.storage, visitor), p.logger)
}

// Predict validates text, asks the service and records the result. The
// returned history already contains the new entry.
func (p *Predictor) Predict(ctx context.Context, visitor, text string) (*models.PredictionResult, []models.HistoryEntry, error) {
	if err := ValidateText(text); err != nil {
		return nil, p.History(ctx, visitor), err
	}

	release, err := p.guard.Acquire(visitor)
	if err != nil {
		return nil, p.History(ctx, visitor), err
	}
	defer release()

	result, err := p.api.Predict(ctx, text)
	if err != nil {
		p.logger.Error("Prediction failed", zap.String("visitor", visitor), zap.Error(err))
		return nil, p.History(ctx, visitor), fmt.Errorf("prediction failed: %w", err)
	}

	entries, err := p.history(visitor).Append(ctx, text, *result)
	if err != nil {
		p.logger.Warn("Failed to save prediction history", zap.Error(err))
		entries = p.History(ctx, visitor)
	}

	p.logger.Info("Text analyzed",
		zap.String("sentiment", string(result.Sentiment)),
		zap.Float64("confidence", result.Confidence),
		zap.Float64("processing_time_ms", result.ProcessingTimeMs),
	)

	return result, entries, nil
}

// History returns the visitor's stored predictions, newest first
func (p *Predictor) History(ctx context.Context, visitor string) []models.HistoryEntry {
	return p.history(visitor).Load(ctx)
}

// ClearHistory forgets the visitor's predictions
func (p *Predictor) ClearHistory(ctx context.Context, visitor string) error {
	return p.history(visitor).Clear(ctx)
}
