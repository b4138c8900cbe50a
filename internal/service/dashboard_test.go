package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sentiment-web/internal/models"
)

func TestDashboard_Load(t *testing.T) {
	metrics := &models.EvaluationMetrics{
		ModelName:       "LSTM + Attention",
		Accuracy:        0.9,
		Precision:       0.8,
		Recall:          0.7,
		F1Score:         0.75,
		AUCROC:          0.95,
		ConfusionMatrix: models.ConfusionMatrix{{10, 2}, {3, 20}},
	}

	state := NewDashboard(&fakeAPI{metrics: metrics}, zaptest.NewLogger(t)).Load(context.Background())
	assert.False(t, state.Demo)
	assert.Empty(t, state.Advisory)
	assert.Equal(t, *metrics, state.Metrics)
	require.Len(t, state.Scores, 5)
	assert.Equal(t, Score{"AUC-ROC", 0.95}, state.Scores[4])
}

func TestDashboard_FallsBackToDemo(t *testing.T) {
	state := NewDashboard(&fakeAPI{metricsErr: errRefused}, zaptest.NewLogger(t)).Load(context.Background())

	assert.True(t, state.Demo)
	assert.Equal(t, MsgDemoMetrics, state.Advisory)
	assert.Equal(t, "LSTM + Attention (Demo)", state.Metrics.ModelName)
	assert.Equal(t, 0.8382, state.Metrics.Accuracy)
	assert.Equal(t, 0.9124, state.Metrics.AUCROC)
	assert.Equal(t, 1200, state.Metrics.ConfusionMatrix.TruePositive())
	assert.Equal(t, 200, state.Metrics.ConfusionMatrix.FalsePositive())
}

func TestROCCurve(t *testing.T) {
	points := ROCCurve()
	require.Len(t, points, 21)
	assert.Equal(t, 0.0, points[0].FPR)
	assert.InDelta(t, 0.2, points[0].TPR, 1e-9)
	assert.Equal(t, 1.0, points[20].FPR)
	assert.Equal(t, 1.0, points[20].TPR)

	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].FPR, points[i-1].FPR)
		assert.LessOrEqual(t, points[i].TPR, 1.0)
		assert.GreaterOrEqual(t, points[i].TPR, points[i-1].TPR)
	}
}
