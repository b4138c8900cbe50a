package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/russross/blackfriday/v2"

	"sentiment-web/internal/service"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed content/about.md
var aboutMarkdown []byte

// NavItem is one entry of the sidebar
type NavItem struct {
	Name string
	Href string
}

var Navigation = []NavItem{
	{"Home", "/"},
	{"Analyze Text", "/predict"},
	{"Batch Upload", "/batch"},
	{"Dashboard", "/dashboard"},
	{"About", "/about"},
}

// Examples offered under the prediction form
var Examples = []string{
	"I absolutely love this new product! It exceeded all my expectations.",
	"This service is terrible and I'm extremely disappointed.",
	"The weather today is okay, nothing special but not bad either.",
	"Amazing customer support! They helped me solve my problem quickly.",
	"I'm not sure how I feel about this new update.",
}

// QuickExamples link from the landing page straight into a prefilled form
var QuickExamples = []string{
	"I love this product!",
	"This is terrible",
	"Not sure how I feel about this",
}

// Page is the data every template receives
type Page struct {
	Title  string
	Active string
	Theme  string
	// API indicator from the background health monitor
	APIChecked bool
	APIOnline  bool
	Body       any
}

// Funcs are the helpers available to every template
func Funcs() template.FuncMap {
	return template.FuncMap{
		"percent":        Percent,
		"percent2":       PercentPrecise,
		"percentOrZero":  PercentOrZero,
		"percentPtr":     percentPtr,
		"width":          Width,
		"processingTime": ProcessingTime,
		"minutes":        Minutes,
		"thousands":      Thousands,
		"shareText":      ShareText,
		"copyText":       CopyText,
		"truncate":       Truncate,
		"sentimentClass": SentimentClass,
		"kb":             KB,
		"clock":          Clock,
		"polyline":       Polyline,
		"nav":            func() []NavItem { return Navigation },
	}
}

// Templates parses the embedded page templates
func Templates() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// About renders the embedded About page markdown
func About() template.HTML {
	return template.HTML(blackfriday.Run(aboutMarkdown))
}

func percentPtr(v *float64) string {
	if v == nil {
		return "0%"
	}
	return PercentOrZero(*v)
}

// Polyline maps curve points into SVG coordinates of a size x size box
// with the origin at the bottom left.
func Polyline(points []service.CurvePoint, size int) string {
	parts := make([]string, len(points))
	for i, p := range points {
		x := p.FPR * float64(size)
		y := float64(size) - p.TPR*float64(size)
		parts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
	}
	return strings.Join(parts, " ")
}
