// Package download turns batch results into downloadable CSV artifacts.
package download

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"sentiment-web/internal/models"
)

// ContentType of every artifact
const ContentType = "text/csv"

// ErrNoArtifact is returned for results that carry neither inline content
// nor a download URL.
var ErrNoArtifact = errors.New("result has nothing to download")

// Artifact is a file ready to be handed to the browser
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Fetcher retrieves legacy download_url pointers
type Fetcher interface {
	DownloadFile(ctx context.Context, url string) ([]byte, error)
}

// Filename picks the user's name, then the server's suggestion, then a
// timestamp default, and makes sure it ends in ".csv". Directory parts are
// dropped from both names.
func Filename(custom, suggested string, receivedAt time.Time) string {
	name := baseName(custom)
	if name == "" {
		name = baseName(suggested)
	}
	if name == "" {
		name = fmt.Sprintf("results_%d", receivedAt.UnixMilli())
	}
	if !strings.HasSuffix(name, ".csv") {
		name += ".csv"
	}
	return name
}

// baseName returns the last element of name, or "" when nothing usable is left
func baseName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, `\`, "/"))
	if name == "" {
		return ""
	}
	name = strings.TrimSpace(path.Base(name))
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}

// FromResult builds the artifact from inline CSV content. It never touches
// the network, so calling it again yields the same bytes and name.
func FromResult(result *models.BatchResult, custom string, receivedAt time.Time) (*Artifact, error) {
	if !result.HasInlineContent() {
		return nil, ErrNoArtifact
	}
	return &Artifact{
		Filename:    Filename(custom, result.Filename, receivedAt),
		ContentType: ContentType,
		Data:        []byte(result.CSVContent),
	}, nil
}

// Resolve prefers inline content and falls back to fetching DownloadURL.
func Resolve(ctx context.Context, fetcher Fetcher, result *models.BatchResult, custom string, receivedAt time.Time) (*Artifact, error) {
	if result.HasInlineContent() {
		return FromResult(result, custom, receivedAt)
	}
	if result == nil || result.DownloadURL == "" {
		return nil, ErrNoArtifact
	}

	data, err := fetcher.DownloadFile(ctx, result.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download results file: %w", err)
	}

	suggested := ""
	if result.OutputFile != "" {
		suggested = path.Base(result.OutputFile)
	}
	return &Artifact{
		Filename:    Filename(custom, suggested, receivedAt),
		ContentType: ContentType,
		Data:        data,
	}, nil
}

// Effect decides when the automatic download fires: once for every new
// result id, never again for an id it has already seen.
type Effect struct {
	mu   sync.Mutex
	last uint64
}

// Fire reports whether id is new and records it
func (e *Effect) Fire(id uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id == 0 || id <= e.last {
		return false
	}
	e.last = id
	return true
}
