// Package monitor polls the sentiment service health in the background so
// every page can show an API status indicator without a round trip.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"sentiment-web/internal/models"
)

// DefaultInterval between health checks
const DefaultInterval = 15 * time.Second

// HealthChecker is the part of the API client the monitor needs
type HealthChecker interface {
	GetHealth(ctx context.Context) (*models.HealthStatus, error)
}

// Snapshot is the outcome of the latest check
type Snapshot struct {
	Status    *models.HealthStatus
	Err       error
	CheckedAt time.Time
}

// Online reports whether the last check reached the service
func (s Snapshot) Online() bool {
	return s.Err == nil && s.Status != nil
}

// Checked reports whether any check has completed yet
func (s Snapshot) Checked() bool {
	return !s.CheckedAt.IsZero()
}

type Monitor struct {
	client   HealthChecker
	interval time.Duration
	logger   *zap.Logger

	mu   sync.RWMutex
	last Snapshot
}

func New(client HealthChecker, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{client: client, interval: interval, logger: logger}
}

// Run checks immediately and then on every tick until ctx is done
func (m *Monitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Check performs one health check and replaces the snapshot
func (m *Monitor) Check(ctx context.Context) Snapshot {
	status, err := m.client.GetHealth(ctx)
	if err != nil && ctx.Err() != nil {
		return m.Snapshot()
	}

	snap := Snapshot{Status: status, Err: err, CheckedAt: time.Now()}
	if err != nil {
		m.logger.Warn("Sentiment service is unhealthy", zap.Error(err))
		snap.Status = nil
	}

	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()
	return snap
}

// Snapshot returns the latest check result
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}
