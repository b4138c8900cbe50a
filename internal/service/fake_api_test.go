package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/models"
)

// fakeAPI implements every client interface the flows depend on
type fakeAPI struct {
	mu sync.Mutex

	health    *models.HealthStatus
	healthErr error
	info      *models.ServiceInfo
	infoErr   error

	predict      *models.PredictionResult
	predictErr   error
	predictCalls int

	batch       *models.BatchResult
	batchErr    error
	uploaded    string
	uploadName  string
	remoteInput string
	remoteOut   string
	// gate blocks batch calls until closed when set
	gate    chan struct{}
	started chan struct{}

	download      []byte
	downloadCalls int

	metrics    *models.EvaluationMetrics
	metricsErr error
}

func (f *fakeAPI) GetHealth(ctx context.Context) (*models.HealthStatus, error) {
	return f.health, f.healthErr
}

func (f *fakeAPI) GetInfo(ctx context.Context) (*models.ServiceInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeAPI) Predict(ctx context.Context, text string) (*models.PredictionResult, error) {
	f.mu.Lock()
	f.predictCalls++
	f.mu.Unlock()
	if f.predictErr != nil {
		return nil, f.predictErr
	}
	r := *f.predict
	r.OriginalText = text
	return &r, nil
}

func (f *fakeAPI) wait() {
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAPI) UploadAndPredict(ctx context.Context, filename string, file io.Reader) (*models.BatchResult, error) {
	data, _ := io.ReadAll(file)
	f.mu.Lock()
	f.uploadName = filename
	f.uploaded = string(data)
	f.mu.Unlock()
	f.wait()
	return f.batch, f.batchErr
}

func (f *fakeAPI) BatchPredict(ctx context.Context, inputFile, outputFile string) (*models.BatchResult, error) {
	f.mu.Lock()
	f.remoteInput = inputFile
	f.remoteOut = outputFile
	f.mu.Unlock()
	f.wait()
	return f.batch, f.batchErr
}

func (f *fakeAPI) DownloadFile(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.downloadCalls++
	f.mu.Unlock()
	return f.download, nil
}

func (f *fakeAPI) GetEvaluationMetrics(ctx context.Context) (*models.EvaluationMetrics, error) {
	return f.metrics, f.metricsErr
}

var errRefused = &apperr.TransportError{Op: "test", Err: errors.New("connection refused")}

func sampleCSV(rows int) []byte {
	var b strings.Builder
	b.WriteString("id,text\n")
	for i := 0; i < rows; i++ {
		b.WriteString("1,hello world\n")
	}
	return []byte(b.String())
}
