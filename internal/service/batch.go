package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/csvsniff"
	"sentiment-web/internal/download"
	"sentiment-web/internal/models"
)

// RemoteOutputFile is the output name sent with URL/path submissions. The
// service returns the content inline, so the name only matters for legacy
// deployments.
const RemoteOutputFile = "temp_out.csv"

const (
	// DefaultIdleTTL is how long an untouched batch session is kept
	DefaultIdleTTL = 30 * time.Minute
	// DefaultSweepInterval is how often idle sessions are looked for
	DefaultSweepInterval = time.Minute
)

// BatchAPI is the part of the sentiment client used for CSV batches
type BatchAPI interface {
	UploadAndPredict(ctx context.Context, filename string, file io.Reader) (*models.BatchResult, error)
	BatchPredict(ctx context.Context, inputFile, outputFile string) (*models.BatchResult, error)
	DownloadFile(ctx context.Context, url string) ([]byte, error)
}

// Mode is the input method of the batch page
type Mode string

const (
	ModeUpload Mode = "upload"
	ModeRemote Mode = "remote"
)

// ParseMode defaults to ModeUpload
func ParseMode(raw string) Mode {
	if Mode(raw) == ModeRemote {
		return ModeRemote
	}
	return ModeUpload
}

// PendingFile is a selected CSV waiting to be submitted
type PendingFile struct {
	Name string
	Size int
	data []byte
}

// BatchOutcome is a result tagged with its id and arrival time
type BatchOutcome struct {
	ID         uint64
	Result     *models.BatchResult
	ReceivedAt time.Time
	Mode       Mode
}

// BatchState is a snapshot of one visitor's batch page
type BatchState struct {
	Mode       Mode
	File       *PendingFile
	Preview    *models.CsvPreview
	RemotePath string
	CustomName string
	Outcome    *BatchOutcome
	Error      string
	Busy       bool
	// AutoDownload is set on the first render of a result with inline content
	AutoDownload bool
}

type batchSession struct {
	mu         sync.Mutex
	mode       Mode
	file       *PendingFile
	preview    *models.CsvPreview
	remotePath string
	customName string
	outcome    *BatchOutcome
	err        string
	busy       bool
	generation uint64
	effect     download.Effect
	// lastSeen is the unix nano time of the last access
	lastSeen atomic.Int64
}

// Batch runs the CSV flows for every visitor
type Batch struct {
	api    BatchAPI
	logger *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*batchSession
	lastID   atomic.Uint64
}

func NewBatch(api BatchAPI, logger *zap.Logger) *Batch {
	return &Batch{
		api:      api,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*batchSession),
	}
}

func (b *Batch) session(visitor string) *batchSession {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[visitor]
	if !ok {
		s = &batchSession{mode: ModeUpload}
		b.sessions[visitor] = s
	}
	s.lastSeen.Store(b.now().UnixNano())
	return s
}

// Prune drops sessions idle for longer than ttl. Sessions with a submission
// in flight are kept.
func (b *Batch) Prune(ttl time.Duration) int {
	cutoff := b.now().Add(-ttl).UnixNano()

	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for visitor, s := range b.sessions {
		if s.lastSeen.Load() > cutoff {
			continue
		}
		s.mu.Lock()
		busy := s.busy
		s.mu.Unlock()
		if busy {
			continue
		}
		delete(b.sessions, visitor)
		removed++
	}
	return removed
}

// RunJanitor prunes idle sessions every interval until ctx is done
func (b *Batch) RunJanitor(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := b.Prune(ttl); n > 0 {
				b.logger.Debug("Pruned idle batch sessions", zap.Int("count", n))
			}
		}
	}
}

// View returns the page snapshot and arms the auto-download for results
// that have not been shown yet.
func (b *Batch) View(visitor string) BatchState {
	s := b.session(visitor)
	s.mu.Lock()
	defer s.mu.Unlock()

	state := BatchState{
		Mode:       s.mode,
		File:       s.file,
		Preview:    s.preview,
		RemotePath: s.remotePath,
		CustomName: s.customName,
		Outcome:    s.outcome,
		Error:      s.err,
		Busy:       s.busy,
	}
	if s.outcome != nil && s.outcome.Result.HasInlineContent() {
		state.AutoDownload = s.effect.Fire(s.outcome.ID)
	}
	return state
}

// SetMode switches between file upload and URL/path input
func (b *Batch) SetMode(visitor string, mode Mode) {
	s := b.session(visitor)
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
}

// SetError shows msg on the batch page
func (b *Batch) SetError(visitor, msg string) {
	s := b.session(visitor)
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// Select validates a chosen file and keeps it with its preview. A rejected
// file clears any previous selection.
func (b *Batch) Select(visitor, name string, data []byte) error {
	s := b.session(visitor)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mode = ModeUpload
	if err := csvsniff.CheckFileName(name); err != nil {
		s.err = apperr.Message(err, MsgCSVParseFailed)
		return err
	}

	preview, err := csvsniff.Sniff(string(data))
	if err != nil {
		s.err = apperr.Message(err, MsgCSVParseFailed)
		s.file = nil
		s.preview = nil
		return err
	}

	s.err = ""
	s.file = &PendingFile{Name: name, Size: len(data), data: data}
	s.preview = preview
	return nil
}

// begin marks the session busy and returns the generation the submission
// belongs to.
func (s *batchSession) begin(customName string) (uint64, error) {
	if s.busy {
		return 0, ErrBusy
	}
	s.busy = true
	s.err = ""
	s.outcome = nil
	s.customName = strings.TrimSpace(customName)
	return s.generation, nil
}

// finish stores the response unless the session was reset meanwhile
func (b *Batch) finish(s *batchSession, generation uint64, mode Mode, result *models.BatchResult, err error, fallback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		b.logger.Debug("Discarding batch response after reset")
		return ErrStale
	}
	s.busy = false
	s.lastSeen.Store(b.now().UnixNano())

	if err != nil {
		if apperr.IsNotFound(err) && mode == ModeUpload {
			s.err = MsgUploadNotFound
		} else {
			s.err = apperr.Message(err, fallback)
		}
		return err
	}

	s.outcome = &BatchOutcome{
		ID:         b.lastID.Add(1),
		Result:     result,
		ReceivedAt: b.now(),
		Mode:       mode,
	}
	b.logger.Info("Batch processed",
		zap.Int("total_records", result.TotalRecords),
		zap.Int("successful", result.Successful),
		zap.Int("failed", result.Failed),
		zap.Bool("inline_content", result.HasInlineContent()),
	)
	return nil
}

// Upload submits the pending file
func (b *Batch) Upload(ctx context.Context, visitor, customName string) error {
	s := b.session(visitor)

	s.mu.Lock()
	if s.file == nil {
		s.err = MsgNoFile
		s.mu.Unlock()
		return apperr.NewValidation("file", MsgNoFile)
	}
	generation, err := s.begin(customName)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	submitted := s.file
	file := *submitted
	s.mu.Unlock()

	result, err := b.api.UploadAndPredict(ctx, file.Name, bytes.NewReader(file.data))
	if err != nil {
		b.logger.Error("Upload failed", zap.String("file", file.Name), zap.Error(err))
		err = fmt.Errorf("upload failed: %w", err)
	}
	if err := b.finish(s, generation, ModeUpload, result, err, MsgUploadFailed); err != nil {
		return err
	}

	// the submitted bytes are no longer needed
	s.mu.Lock()
	if s.file == submitted {
		s.file = nil
	}
	s.mu.Unlock()
	return nil
}

// Remote submits a URL or server path for the service to read
func (b *Batch) Remote(ctx context.Context, visitor, path, customName string) error {
	s := b.session(visitor)
	path = strings.TrimSpace(path)

	s.mu.Lock()
	s.mode = ModeRemote
	s.remotePath = path
	if path == "" {
		s.err = MsgNoRemotePath
		s.mu.Unlock()
		return apperr.NewValidation("input_file", MsgNoRemotePath)
	}
	generation, err := s.begin(customName)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	result, err := b.api.BatchPredict(ctx, path, RemoteOutputFile)
	if err != nil {
		b.logger.Error("Batch prediction failed", zap.String("input_file", path), zap.Error(err))
		err = fmt.Errorf("batch prediction failed: %w", err)
	}
	return b.finish(s, generation, ModeRemote, result, err, MsgRemoteFailed)
}

// Reset clears the page. Responses still in flight are discarded when they
// arrive.
func (b *Batch) Reset(visitor string) {
	s := b.session(visitor)
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.busy = false
	s.file = nil
	s.preview = nil
	s.remotePath = ""
	s.customName = ""
	s.outcome = nil
	s.err = ""
}

// Artifact builds the download for result id. Inline content never
// triggers a network call, so repeated downloads are identical.
func (b *Batch) Artifact(ctx context.Context, visitor string, id uint64) (*download.Artifact, error) {
	s := b.session(visitor)

	s.mu.Lock()
	outcome := s.outcome
	customName := s.customName
	s.mu.Unlock()

	if outcome == nil || outcome.ID != id {
		return nil, ErrResultNotFound
	}

	artifact, err := download.Resolve(ctx, b.api, outcome.Result, customName, outcome.ReceivedAt)
	if err != nil {
		if !errors.Is(err, download.ErrNoArtifact) {
			s.mu.Lock()
			s.err = MsgDownloadFailed
			s.mu.Unlock()
		}
		b.logger.Error("Failed to build download", zap.Uint64("result_id", id), zap.Error(err))
		return nil, err
	}
	return artifact, nil
}
