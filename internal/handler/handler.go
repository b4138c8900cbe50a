package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentiment-web/internal/monitor"
	"sentiment-web/internal/repository"
	"sentiment-web/internal/service"
	"sentiment-web/internal/session"
	"sentiment-web/internal/theme"
	"sentiment-web/internal/view"
)

// DefaultMaxUploadBytes caps CSV files accepted for preview
const DefaultMaxUploadBytes = 10 << 20

// HealthSnapshotter exposes the background health monitor
type HealthSnapshotter interface {
	Snapshot() monitor.Snapshot
}

// Deps groups everything the handlers call into
type Deps struct {
	Predictor      *service.Predictor
	Home           *service.Home
	Batch          *service.Batch
	Dashboard      *service.Dashboard
	Storage        repository.Storage
	Monitor        HealthSnapshotter
	MaxUploadBytes int64
}

// Handler serves the web pages
type Handler struct {
	predictor      *service.Predictor
	home           *service.Home
	batch          *service.Batch
	dashboard      *service.Dashboard
	storage        repository.Storage
	monitor        HealthSnapshotter
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewHandler creates a new page handler
func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		predictor:      deps.Predictor,
		home:           deps.Home,
		batch:          deps.Batch,
		dashboard:      deps.Dashboard,
		storage:        deps.Storage,
		monitor:        deps.Monitor,
		maxUploadBytes: deps.MaxUploadBytes,
		logger:         logger,
	}
}

// RegisterRoutes registers all page routes
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.HomePage)
	r.POST("/refresh", h.Refresh)

	r.GET("/predict", h.PredictPage)
	r.POST("/predict", h.Predict)
	r.POST("/history/clear", h.ClearHistory)

	batch := r.Group("/batch")
	{
		batch.GET("", h.BatchPage)
		batch.POST("/select", h.SelectFile)
		batch.POST("/upload", h.Upload)
		batch.POST("/remote", h.Remote)
		batch.GET("/download/:id", h.Download)
		batch.POST("/reset", h.ResetBatch)
	}

	r.GET("/dashboard", h.DashboardPage)
	r.GET("/about", h.AboutPage)
	r.POST("/theme/toggle", h.ToggleTheme)

	// Health check
	r.GET("/healthz", h.HealthCheck)
}

func (h *Handler) themeStore(c *gin.Context) *theme.Store {
	kv := repository.Scoped(h.storage, session.VisitorID(c))
	return theme.NewStore(kv, h.logger)
}

// render wraps body in the shared layout
func (h *Handler) render(c *gin.Context, status int, name, title string, body any) {
	page := view.Page{
		Title:  title,
		Active: title,
		Theme:  string(h.themeStore(c).Current(c.Request.Context())),
		Body:   body,
	}
	if h.monitor != nil {
		snap := h.monitor.Snapshot()
		page.APIChecked = snap.Checked()
		page.APIOnline = snap.Online()
	}
	c.HTML(status, name, page)
}

func (h *Handler) renderError(c *gin.Context, status int, title, message string) {
	h.render(c, status, "error.tmpl", title, message)
}

// ToggleTheme flips the visitor's theme and goes back to the page it came from
func (h *Handler) ToggleTheme(c *gin.Context) {
	if _, err := h.themeStore(c).Toggle(c.Request.Context()); err != nil {
		h.logger.Error("Failed to toggle theme", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, backTo(c.Request.Referer()))
}

// backTo keeps only the path of a referer so redirects stay on this site
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	target := u.Path
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}
	return target
}

// AboutPage renders the project description
func (h *Handler) AboutPage(c *gin.Context) {
	h.render(c, http.StatusOK, "about.tmpl", "About", view.AboutBody{Content: view.About()})
}

// HealthCheck reports liveness of this process
func (h *Handler) HealthCheck(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if h.monitor != nil {
		snap := h.monitor.Snapshot()
		resp["api_checked"] = snap.Checked()
		resp["api_online"] = snap.Online()
	}
	c.JSON(http.StatusOK, resp)
}
