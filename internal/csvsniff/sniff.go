// Package csvsniff reads just enough of an uploaded CSV to validate its
// columns and show a preview. It is deliberately naive: quoted fields with
// embedded commas or newlines are not supported, the service does the real
// parse.
package csvsniff

import (
	"fmt"
	"strings"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/models"
)

const (
	// RequiredColumn must be present among the headers, ignoring case
	RequiredColumn = "text"
	// PreviewRows is the number of data rows kept for the preview
	PreviewRows = 5
)

// CheckFileName rejects anything that is not named like a CSV file
func CheckFileName(name string) error {
	if !strings.HasSuffix(name, ".csv") {
		return apperr.NewValidation("file", "Please select a CSV file")
	}
	return nil
}

// Sniff parses the header row and the first PreviewRows data rows of text
func Sniff(text string) (*models.CsvPreview, error) {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil, apperr.NewFormat("csv", "CSV file is empty")
	}

	headers := splitFields(lines[0])
	if !hasRequiredColumn(headers) {
		return nil, apperr.NewValidation("file", fmt.Sprintf(
			"Invalid CSV format. Missing required column: %q. Found: %s",
			RequiredColumn, strings.Join(headers, ", ")))
	}

	data := lines[1:]
	if len(data) > PreviewRows {
		data = data[:PreviewRows]
	}

	rows := make([]models.CsvRow, 0, len(data))
	for _, line := range data {
		values := splitFields(line)
		row := make(models.CsvRow, len(headers))
		for i, header := range headers {
			if i < len(values) {
				row[header] = values[i]
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	return &models.CsvPreview{Headers: headers, Rows: rows}, nil
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// splitFields splits on commas, trims each field and strips one leading and
// one trailing double quote.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		p = strings.TrimPrefix(p, `"`)
		p = strings.TrimSuffix(p, `"`)
		fields[i] = p
	}
	return fields
}

func hasRequiredColumn(headers []string) bool {
	for _, h := range headers {
		if strings.EqualFold(h, RequiredColumn) {
			return true
		}
	}
	return false
}
