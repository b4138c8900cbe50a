package ml_client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/models"
)

const (
	DefaultTimeout       = 30 * time.Second
	DefaultUploadTimeout = 2 * time.Minute
)

// Client is a client for the sentiment analysis service API
type Client struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
	logger        *zap.Logger
}

// Options tune the client. Zero values fall back to the defaults.
type Options struct {
	Timeout       time.Duration
	UploadTimeout time.Duration
	HTTPClient    *http.Client
}

// NewClient creates a new sentiment service client
func NewClient(baseURL string, opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UploadTimeout <= 0 {
		opts.UploadTimeout = DefaultUploadTimeout
	}
	if opts.HTTPClient == nil {
		// Deadlines are set per call, see send.
		opts.HTTPClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    opts.HTTPClient,
		timeout:       opts.Timeout,
		uploadTimeout: opts.UploadTimeout,
		logger:        logger,
	}
}

// BaseURL returns the service root the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetHealth checks whether the service is up and the model is loaded
func (c *Client) GetHealth(ctx context.Context) (*models.HealthStatus, error) {
	body, err := c.send(ctx, "health", c.timeout, http.MethodGet, c.baseURL+"/health", "", nil)
	if err != nil {
		return nil, err
	}

	var resp healthResponse
	if err := decode("health response", body, &resp); err != nil {
		return nil, err
	}
	return resp.narrow()
}

// GetInfo retrieves the service banner
func (c *Client) GetInfo(ctx context.Context) (*models.ServiceInfo, error) {
	body, err := c.send(ctx, "info", c.timeout, http.MethodGet, c.baseURL+"/", "", nil)
	if err != nil {
		return nil, err
	}

	var resp infoResponse
	if err := decode("info response", body, &resp); err != nil {
		return nil, err
	}
	if resp.Message == nil {
		return nil, missing("info response", "message")
	}
	return &models.ServiceInfo{Message: *resp.Message}, nil
}

// Predict classifies a single text. Length validation is the caller's job.
func (c *Client) Predict(ctx context.Context, text string) (*models.PredictionResult, error) {
	jsonData, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()
	body, err := c.send(ctx, "predict", c.timeout, http.MethodPost, c.baseURL+"/predict", "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}

	var resp predictResponse
	if err := decode("predict response", body, &resp); err != nil {
		return nil, err
	}
	result, err := resp.narrow(text)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Prediction received",
		zap.String("sentiment", string(result.Sentiment)),
		zap.Float64("confidence", result.Confidence),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

// UploadAndPredict uploads a CSV file for batch prediction. A 404 means the
// deployment has no upload endpoint; check it with apperr.IsNotFound.
func (c *Client) UploadAndPredict(ctx context.Context, filename string, file io.Reader) (*models.BatchResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	c.logger.Info("Uploading file for batch prediction",
		zap.String("filename", filename),
		zap.Int("bytes", buf.Len()))

	body, err := c.send(ctx, "upload", c.uploadTimeout, http.MethodPost, c.baseURL+"/predict/upload", writer.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}
	return decodeBatch(body)
}

// BatchPredict asks the service to process a CSV it resolves itself from a
// server path or URL.
func (c *Client) BatchPredict(ctx context.Context, inputFile, outputFile string) (*models.BatchResult, error) {
	jsonData, err := json.Marshal(batchRequest{InputFile: inputFile, OutputFile: outputFile})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.send(ctx, "batch", c.uploadTimeout, http.MethodPost, c.baseURL+"/predict/batch", "application/json", bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	return decodeBatch(body)
}

// GetEvaluationMetrics retrieves the latest model evaluation
func (c *Client) GetEvaluationMetrics(ctx context.Context) (*models.EvaluationMetrics, error) {
	body, err := c.send(ctx, "evaluation", c.timeout, http.MethodGet, c.baseURL+"/evaluation/latest", "", nil)
	if err != nil {
		return nil, err
	}

	var resp metricsResponse
	if err := decode("evaluation response", body, &resp); err != nil {
		return nil, err
	}
	return resp.narrow()
}

// DownloadFile fetches a result file from a legacy download_url. Relative
// URLs are resolved against the base URL.
func (c *Client) DownloadFile(ctx context.Context, rawURL string) ([]byte, error) {
	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, "download", c.uploadTimeout, http.MethodGet, target, "", nil)
}

func (c *Client) resolve(rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", apperr.NewValidation("download_url", fmt.Sprintf("invalid download url %q", rawURL))
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}
	return base.ResolveReference(ref).String(), nil
}

// send performs one request under its own deadline and returns the body of a
// 2xx answer. It never retries.
func (c *Client) send(ctx context.Context, op string, timeout time.Duration, method, target, contentType string, body io.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Sentiment service unreachable", zap.String("op", op), zap.Error(err))
		return nil, &apperr.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.TransportError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := &apperr.ServiceError{Op: op, Status: resp.StatusCode, Detail: parseDetail(data)}
		c.logger.Warn("Sentiment service returned an error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("detail", svcErr.Detail))
		return nil, svcErr
	}
	return data, nil
}

func decode(what string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &apperr.FormatError{What: what, Err: err}
	}
	return nil
}

func decodeBatch(body []byte) (*models.BatchResult, error) {
	var resp batchResponse
	if err := decode("batch response", body, &resp); err != nil {
		return nil, err
	}
	return resp.narrow()
}
