package models

import "time"

// Sentiment is the binary label returned by the sentiment service
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
)

// Valid reports whether s is one of the two known labels
func (s Sentiment) Valid() bool {
	return s == Positive || s == Negative
}

// Label returns the numeric label the service pairs with the sentiment
func (s Sentiment) Label() int {
	if s == Positive {
		return 1
	}
	return 0
}

// HealthStatus is the /health payload. It is never persisted and is
// replaced as a whole on every refresh.
type HealthStatus struct {
	Status       string  `json:"status"`
	ModelLoaded  bool    `json:"model_loaded"`
	Version      string  `json:"version"`
	ModelVersion *string `json:"model_version,omitempty"`
	LastTrained  *string `json:"last_trained,omitempty"`
}

// ServiceInfo is the payload of the service root endpoint
type ServiceInfo struct {
	Message string `json:"message"`
}

// PredictionResult represents a single-text prediction
type PredictionResult struct {
	OriginalText     string    `json:"text"`
	CleanedText      string    `json:"cleaned_text"`
	Sentiment        Sentiment `json:"sentiment"`
	Label            int       `json:"label"`
	Confidence       float64   `json:"confidence"`
	Probability      float64   `json:"probability"`
	ProcessingTimeMs float64   `json:"processing_time_ms"`
}

// HistoryEntry is one persisted single-text prediction
type HistoryEntry struct {
	ID        string           `json:"id"`
	Timestamp time.Time        `json:"timestamp"`
	Text      string           `json:"text"`
	Result    PredictionResult `json:"result"`
}
