package ml_client

import (
	"encoding/json"
	"fmt"
	"strings"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/models"
)

// Wire schemas use pointers for required fields so a missing value can be
// told apart from a zero value.

type healthResponse struct {
	Status       *string `json:"status"`
	ModelLoaded  *bool   `json:"model_loaded"`
	Version      string  `json:"version"`
	ModelVersion *string `json:"model_version"`
	LastTrained  *string `json:"last_trained"`
}

func (r *healthResponse) narrow() (*models.HealthStatus, error) {
	if r.Status == nil {
		return nil, missing("health response", "status")
	}
	if r.ModelLoaded == nil {
		return nil, missing("health response", "model_loaded")
	}
	return &models.HealthStatus{
		Status:       *r.Status,
		ModelLoaded:  *r.ModelLoaded,
		Version:      r.Version,
		ModelVersion: nonEmpty(r.ModelVersion),
		LastTrained:  nonEmpty(r.LastTrained),
	}, nil
}

type infoResponse struct {
	Message *string `json:"message"`
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Text             *string  `json:"text"`
	CleanedText      string   `json:"cleaned_text"`
	Sentiment        *string  `json:"sentiment"`
	Label            *int     `json:"label"`
	Confidence       *float64 `json:"confidence"`
	Probability      *float64 `json:"probability"`
	ProcessingTimeMs float64  `json:"processing_time_ms"`
}

// narrow validates the payload. The request text stands in for a missing
// echo, and the label is derived from the sentiment when absent.
func (r *predictResponse) narrow(requestText string) (*models.PredictionResult, error) {
	const what = "predict response"
	if r.Sentiment == nil {
		return nil, missing(what, "sentiment")
	}
	sentiment := models.Sentiment(*r.Sentiment)
	if !sentiment.Valid() {
		return nil, apperr.NewFormat(what, fmt.Sprintf("unknown sentiment %q", *r.Sentiment))
	}
	label := sentiment.Label()
	if r.Label != nil {
		if *r.Label != 0 && *r.Label != 1 {
			return nil, apperr.NewFormat(what, fmt.Sprintf("label %d is not 0 or 1", *r.Label))
		}
		label = *r.Label
	}
	if err := unitInterval(what, "confidence", r.Confidence); err != nil {
		return nil, err
	}
	if err := unitInterval(what, "probability", r.Probability); err != nil {
		return nil, err
	}
	if r.ProcessingTimeMs < 0 {
		return nil, apperr.NewFormat(what, "processing_time_ms is negative")
	}

	text := requestText
	if r.Text != nil {
		text = *r.Text
	}
	return &models.PredictionResult{
		OriginalText:     text,
		CleanedText:      r.CleanedText,
		Sentiment:        sentiment,
		Label:            label,
		Confidence:       *r.Confidence,
		Probability:      *r.Probability,
		ProcessingTimeMs: r.ProcessingTimeMs,
	}, nil
}

type batchRequest struct {
	InputFile  string `json:"input_file"`
	OutputFile string `json:"output_file"`
}

type batchResponse struct {
	Message               string   `json:"message"`
	InputFile             string   `json:"input_file"`
	OutputFile            string   `json:"output_file"`
	Filename              string   `json:"filename"`
	TotalRecords          *int     `json:"total_records"`
	Successful            int      `json:"successful"`
	Failed                int      `json:"failed"`
	AvgConfidence         float64  `json:"avg_confidence"`
	AvgProbability        *float64 `json:"avg_probability"`
	ProcessingTimeMinutes float64  `json:"processing_time_minutes"`
	CSVContent            *string  `json:"csv_content"`
	DownloadURL           *string  `json:"download_url"`
}

func (r *batchResponse) narrow() (*models.BatchResult, error) {
	const what = "batch response"
	if r.TotalRecords == nil {
		return nil, missing(what, "total_records")
	}
	if *r.TotalRecords < 0 || r.Successful < 0 || r.Failed < 0 {
		return nil, apperr.NewFormat(what, "record counts must not be negative")
	}
	if r.AvgConfidence < 0 || r.AvgConfidence > 1 {
		return nil, apperr.NewFormat(what, "avg_confidence outside [0,1]")
	}
	if r.AvgProbability != nil && (*r.AvgProbability < 0 || *r.AvgProbability > 1) {
		return nil, apperr.NewFormat(what, "avg_probability outside [0,1]")
	}

	result := &models.BatchResult{
		Message:               r.Message,
		InputFile:             r.InputFile,
		OutputFile:            r.OutputFile,
		Filename:              r.Filename,
		TotalRecords:          *r.TotalRecords,
		Successful:            r.Successful,
		Failed:                r.Failed,
		AvgConfidence:         r.AvgConfidence,
		AvgProbability:        r.AvgProbability,
		ProcessingTimeMinutes: r.ProcessingTimeMinutes,
	}
	if r.CSVContent != nil {
		result.CSVContent = *r.CSVContent
	}
	if r.DownloadURL != nil {
		result.DownloadURL = *r.DownloadURL
	}
	return result, nil
}

type metricsFields struct {
	ModelName            string      `json:"model_name"`
	Accuracy             *float64    `json:"accuracy"`
	Precision            *float64    `json:"precision"`
	Recall               *float64    `json:"recall"`
	F1Score              *float64    `json:"f1_score"`
	AUCROC               *float64    `json:"auc_roc"`
	ConfusionMatrix      [][]float64 `json:"confusion_matrix"`
	ClassificationReport string      `json:"classification_report"`
	MetricsCSV           string      `json:"metrics_csv"`
}

// metricsResponse accepts both the flat layout and the nested
// {"model_name": ..., "metrics": {...}} layout.
type metricsResponse struct {
	metricsFields
	Metrics *metricsFields `json:"metrics"`
}

func (r *metricsResponse) narrow() (*models.EvaluationMetrics, error) {
	const what = "evaluation response"
	fields := r.metricsFields
	if r.Metrics != nil {
		fields = *r.Metrics
		if r.ModelName != "" {
			fields.ModelName = r.ModelName
		}
	}

	scores := []struct {
		name  string
		value *float64
	}{
		{"accuracy", fields.Accuracy},
		{"precision", fields.Precision},
		{"recall", fields.Recall},
		{"f1_score", fields.F1Score},
		{"auc_roc", fields.AUCROC},
	}
	for _, s := range scores {
		if err := unitInterval(what, s.name, s.value); err != nil {
			return nil, err
		}
	}

	var cm models.ConfusionMatrix
	if fields.ConfusionMatrix != nil {
		if len(fields.ConfusionMatrix) != 2 {
			return nil, apperr.NewFormat(what, "confusion_matrix must be 2x2")
		}
		for i, row := range fields.ConfusionMatrix {
			if len(row) != 2 {
				return nil, apperr.NewFormat(what, "confusion_matrix must be 2x2")
			}
			for j, v := range row {
				if v < 0 || v != float64(int(v)) {
					return nil, apperr.NewFormat(what, "confusion_matrix cells must be non-negative integers")
				}
				cm[i][j] = int(v)
			}
		}
	}

	return &models.EvaluationMetrics{
		ModelName:            fields.ModelName,
		Accuracy:             *fields.Accuracy,
		Precision:            *fields.Precision,
		Recall:               *fields.Recall,
		F1Score:              *fields.F1Score,
		AUCROC:               *fields.AUCROC,
		ConfusionMatrix:      cm,
		ClassificationReport: fields.ClassificationReport,
		MetricsCSV:           fields.MetricsCSV,
	}, nil
}

// errorResponse is the FastAPI error body. Detail is either a string or a
// list of validation problems.
type errorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func parseDetail(body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(resp.Detail, &text); err == nil {
		return text
	}

	var problems []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(resp.Detail, &problems); err == nil {
		msgs := make([]string, 0, len(problems))
		for _, p := range problems {
			if p.Msg != "" {
				msgs = append(msgs, p.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}

func missing(what, field string) error {
	return apperr.NewFormat(what, fmt.Sprintf("missing required field %q", field))
}

func unitInterval(what, field string, v *float64) error {
	if v == nil {
		return missing(what, field)
	}
	if *v < 0 || *v > 1 {
		return apperr.NewFormat(what, fmt.Sprintf("%s %v outside [0,1]", field, *v))
	}
	return nil
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
