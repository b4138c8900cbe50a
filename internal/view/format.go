// Package view holds the HTML templates and the formatting helpers they use.
package view

import (
	"fmt"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sentiment-web/internal/models"
)

var printer = message.NewPrinter(language.English)

// Percent formats a [0,1] score with one decimal, e.g. "91.0%"
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// PercentPrecise formats a [0,1] score with two decimals, e.g. "83.82%"
func PercentPrecise(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// PercentOrZero renders unset averages as "0%"
func PercentOrZero(v float64) string {
	if v == 0 {
		return "0%"
	}
	return Percent(v)
}

// Width is a CSS width for a [0,1] score bar
func Width(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

// ProcessingTime renders "Processed in 42.0ms"
func ProcessingTime(ms float64) string {
	return fmt.Sprintf("Processed in %.1fms", ms)
}

// Minutes renders batch durations with two decimals
func Minutes(v float64) string {
	if v == 0 {
		return "0"
	}
	return fmt.Sprintf("%.2f", v)
}

// Thousands adds group separators, e.g. 1200 -> "1,200"
func Thousands(n int) string {
	return printer.Sprintf("%d", n)
}

// ShareText is the one-line summary offered for sharing
func ShareText(r *models.PredictionResult) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("Sentiment Analysis: \"%s\" → %s (%s confidence)", r.OriginalText, r.Sentiment, Percent(r.Confidence))
}

// CopyText is the multi-line summary offered for copying
func CopyText(r *models.PredictionResult) string {
	if r == nil {
		return ""
	}
	return fmt.Sprintf("Text: \"%s\"\nSentiment: %s\nConfidence: %s", r.OriginalText, r.Sentiment, Percent(r.Confidence))
}

// Truncate shortens s to n characters, marking the cut with "..."
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// SentimentClass picks the colour class for a label
func SentimentClass(s models.Sentiment) string {
	if s == models.Positive {
		return "positive"
	}
	return "negative"
}

// KB renders a byte size as kilobytes with one decimal
func KB(size int) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}

// Clock shows a stored timestamp as wall-clock time in the server's zone
func Clock(t time.Time) string {
	return t.In(time.Local).Format("15:04:05")
}
