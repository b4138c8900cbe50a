package service

import (
	"context"
	"math"

	"go.uber.org/zap"

	"sentiment-web/internal/models"
)

// MetricsAPI is the part of the sentiment client used by the dashboard
type MetricsAPI interface {
	GetEvaluationMetrics(ctx context.Context) (*models.EvaluationMetrics, error)
}

// DemoMetrics is shown when the service cannot provide real numbers
var DemoMetrics = models.EvaluationMetrics{
	ModelName:       "LSTM + Attention (Demo)",
	Accuracy:        0.8382,
	Precision:       0.8415,
	Recall:          0.8301,
	F1Score:         0.8355,
	AUCROC:          0.9124,
	ConfusionMatrix: models.ConfusionMatrix{{1000, 200}, {150, 1200}},
}

// CurvePoint is one (false positive rate, true positive rate) sample
type CurvePoint struct {
	FPR float64
	TPR float64
}

// Score is a named bar of the performance chart
type Score struct {
	Name  string
	Value float64
}

// DashboardState is everything the metrics page shows
type DashboardState struct {
	Metrics  models.EvaluationMetrics
	Demo     bool
	Advisory string
	Scores   []Score
	ROC      []CurvePoint
	Baseline []CurvePoint
}

type Dashboard struct {
	api    MetricsAPI
	logger *zap.Logger
}

func NewDashboard(api MetricsAPI, logger *zap.Logger) *Dashboard {
	return &Dashboard{api: api, logger: logger}
}

// Load fetches the evaluation metrics, falling back to demo data on any
// failure.
func (d *Dashboard) Load(ctx context.Context) DashboardState {
	state := DashboardState{
		ROC:      ROCCurve(),
		Baseline: []CurvePoint{{0, 0}, {1, 1}},
	}

	metrics, err := d.api.GetEvaluationMetrics(ctx)
	if err != nil {
		d.logger.Warn("Failed to fetch metrics, showing demo data", zap.Error(err))
		state.Metrics = DemoMetrics
		state.Demo = true
		state.Advisory = MsgDemoMetrics
	} else {
		state.Metrics = *metrics
	}

	m := state.Metrics
	state.Scores = []Score{
		{"Accuracy", m.Accuracy},
		{"Precision", m.Precision},
		{"Recall", m.Recall},
		{"F1-Score", m.F1Score},
		{"AUC-ROC", m.AUCROC},
	}
	return state
}

// ROCCurve is the illustrative curve drawn next to the AUC value, sampled
// every 0.05 of false positive rate.
func ROCCurve() []CurvePoint {
	points := make([]CurvePoint, 0, 21)
	for i := 0; i <= 100; i += 5 {
		fpr := float64(i) / 100
		tpr := math.Min(1, math.Sqrt(fpr)+0.2+math.Sin(fpr*math.Pi)*0.05)
		points = append(points, CurvePoint{FPR: fpr, TPR: tpr})
	}
	return points
}
