package models

// ConfusionMatrix is laid out as [actual][predicted] with index 0 negative
type ConfusionMatrix [2][2]int

func (m ConfusionMatrix) TrueNegative() int  { return m[0][0] }
func (m ConfusionMatrix) FalsePositive() int { return m[0][1] }
func (m ConfusionMatrix) FalseNegative() int { return m[1][0] }
func (m ConfusionMatrix) TruePositive() int  { return m[1][1] }

// EvaluationMetrics represents the latest model evaluation
type EvaluationMetrics struct {
	ModelName            string          `json:"model_name"`
	Accuracy             float64         `json:"accuracy"`
	Precision            float64         `json:"precision"`
	Recall               float64         `json:"recall"`
	F1Score              float64         `json:"f1_score"`
	AUCROC               float64         `json:"auc_roc"`
	ConfusionMatrix      ConfusionMatrix `json:"confusion_matrix"`
	ClassificationReport string          `json:"classification_report,omitempty"`
	MetricsCSV           string          `json:"metrics_csv,omitempty"`
}
