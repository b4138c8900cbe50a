package models

// BatchResult represents the response of /predict/batch and /predict/upload.
// CSVContent is the authoritative artifact source when present; DownloadURL
// is the legacy pointer used only when CSVContent is empty.
type BatchResult struct {
	Message               string   `json:"message"`
	InputFile             string   `json:"input_file"`
	OutputFile            string   `json:"output_file,omitempty"`
	Filename              string   `json:"filename,omitempty"`
	TotalRecords          int      `json:"total_records"`
	Successful            int      `json:"successful"`
	Failed                int      `json:"failed"`
	AvgConfidence         float64  `json:"avg_confidence"`
	AvgProbability        *float64 `json:"avg_probability,omitempty"`
	ProcessingTimeMinutes float64  `json:"processing_time_minutes"`
	CSVContent            string   `json:"csv_content,omitempty"`
	DownloadURL           string   `json:"download_url,omitempty"`
}

// HasInlineContent reports whether the result carries the CSV payload itself
func (r *BatchResult) HasInlineContent() bool {
	return r != nil && r.CSVContent != ""
}

// HasArtifact reports whether anything can be downloaded for the result
func (r *BatchResult) HasArtifact() bool {
	return r.HasInlineContent() || (r != nil && r.DownloadURL != "")
}

// CsvRow maps header names to the values of one preview row
type CsvRow map[string]string

// CsvPreview is the client-side preview of an uploaded CSV file
type CsvPreview struct {
	Headers []string `json:"headers"`
	Rows    []CsvRow `json:"rows"`
}
