package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sentiment-web/internal/models"
)

// HomeAPI is the part of the sentiment client used by the landing page
type HomeAPI interface {
	GetHealth(ctx context.Context) (*models.HealthStatus, error)
	GetInfo(ctx context.Context) (*models.ServiceInfo, error)
}

// HomeState is everything the landing page shows
type HomeState struct {
	Health  *models.HealthStatus
	Info    *models.ServiceInfo
	Err     error
	Message string
}

// SystemStatus is the label of the status card
func (s HomeState) SystemStatus() string {
	return SystemStatus(s.Health)
}

// ModelBuild is the formatted model version
func (s HomeState) ModelBuild() string {
	if s.Health == nil {
		return FormatVersion("")
	}
	return FormatVersion(deref(s.Health.ModelVersion))
}

// LastTraining is the formatted training date
func (s HomeState) LastTraining() string {
	if s.Health == nil {
		return FormatDate("")
	}
	return FormatDate(deref(s.Health.LastTrained))
}

type Home struct {
	api    HomeAPI
	logger *zap.Logger
}

func NewHome(api HomeAPI, logger *zap.Logger) *Home {
	return &Home{api: api, logger: logger}
}

// Load fetches health and service info concurrently. Info is optional: its
// failure is only logged.
func (h *Home) Load(ctx context.Context) HomeState {
	var state HomeState

	var g errgroup.Group
	g.Go(func() error {
		health, err := h.api.GetHealth(ctx)
		if err != nil {
			return fmt.Errorf("failed to fetch health data: %w", err)
		}
		state.Health = health
		return nil
	})
	g.Go(func() error {
		info, err := h.api.GetInfo(ctx)
		if err != nil {
			h.logger.Debug("Service info unavailable", zap.Error(err))
			return nil
		}
		state.Info = info
		return nil
	})

	if err := g.Wait(); err != nil {
		h.logger.Warn("Backend health check failed", zap.Error(err))
		state.Err = err
	}
	return state
}

// Refresh re-checks health and explains the outcome
func (h *Home) Refresh(ctx context.Context) HomeState {
	state := h.Load(ctx)
	switch {
	case state.Err != nil:
		state.Message = MsgRefreshFailed
	case state.Health.ModelLoaded:
		state.Message = MsgRefreshReady
	default:
		state.Message = MsgRefreshLoading
	}
	return state
}

// SystemStatus labels a health snapshot, nil meaning unreachable
func SystemStatus(health *models.HealthStatus) string {
	switch {
	case health == nil:
		return "Offline"
	case health.ModelLoaded:
		return "Online & Ready"
	default:
		return "Initializing"
	}
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatVersion turns a model version into a build id. Timestamps become
// "v.YYYY.MM.DD", plain versions get a "v" prefix.
func FormatVersion(version string) string {
	if version == "" {
		return "v1.0.0"
	}
	if strings.Contains(version, "T") {
		if t, ok := parseTimestamp(version); ok {
			return fmt.Sprintf("v.%04d.%02d.%02d", t.Year(), int(t.Month()), t.Day())
		}
	}
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}

// FormatDate renders a training timestamp like "Nov 21, 2025, 05:11 AM".
// Unparseable values are shown as they are.
func FormatDate(value string) string {
	if value == "" {
		return "N/A"
	}
	t, ok := parseTimestamp(value)
	if !ok {
		return value
	}
	return t.Format("Jan 2, 2006, 03:04 PM")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
