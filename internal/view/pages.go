package view

import (
	"html/template"

	"sentiment-web/internal/models"
	"sentiment-web/internal/service"
)

type HomeBody struct {
	State    service.HomeState
	Examples []string
}

type PredictBody struct {
	Text     string
	Result   *models.PredictionResult
	Error    string
	History  []models.HistoryEntry
	Examples []string
}

// Length is the character count shown under the text area
func (b PredictBody) Length() int {
	return len([]rune(b.Text))
}

// ShowCleaned reports whether the processed text differs from the input
func (b PredictBody) ShowCleaned() bool {
	return b.Result != nil && b.Result.CleanedText != "" && b.Result.CleanedText != b.Result.OriginalText
}

type BatchBody struct {
	State service.BatchState
}

type DashboardBody struct {
	State service.DashboardState
}

type AboutBody struct {
	Content template.HTML
}
