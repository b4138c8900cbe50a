package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentiment-web/internal/apperr"
	"sentiment-web/internal/service"
	"sentiment-web/internal/session"
	"sentiment-web/internal/view"
)

// HomePage shows service health and the feature overview
func (h *Handler) HomePage(c *gin.Context) {
	state := h.home.Load(c.Request.Context())
	h.render(c, http.StatusOK, "home.tmpl", "Home", view.HomeBody{State: state, Examples: view.QuickExamples})
}

// Refresh re-checks health and reports the outcome
func (h *Handler) Refresh(c *gin.Context) {
	state := h.home.Refresh(c.Request.Context())
	h.render(c, http.StatusOK, "home.tmpl", "Home", view.HomeBody{State: state, Examples: view.QuickExamples})
}

// PredictPage shows the form, optionally prefilled from ?text=
func (h *Handler) PredictPage(c *gin.Context) {
	body := view.PredictBody{
		Text:     c.Query("text"),
		History:  h.predictor.History(c.Request.Context(), session.VisitorID(c)),
		Examples: view.Examples,
	}
	h.render(c, http.StatusOK, "predict.tmpl", "Analyze Text", body)
}

// Predict analyzes the submitted text
func (h *Handler) Predict(c *gin.Context) {
	text := c.PostForm("text")
	result, history, err := h.predictor.Predict(c.Request.Context(), session.VisitorID(c), text)

	body := view.PredictBody{
		Text:     text,
		Result:   result,
		History:  history,
		Examples: view.Examples,
	}

	status := http.StatusOK
	switch {
	case err == nil:
	case apperr.IsValidation(err):
		status = http.StatusUnprocessableEntity
		body.Error = apperr.Message(err, service.MsgPredictFailed)
	case errors.Is(err, service.ErrBusy):
		status = http.StatusConflict
		body.Error = service.MsgAnotherInFlight
	default:
		body.Error = apperr.Message(err, service.MsgPredictFailed)
	}

	h.render(c, status, "predict.tmpl", "Analyze Text", body)
}

// ClearHistory forgets the visitor's predictions
func (h *Handler) ClearHistory(c *gin.Context) {
	if err := h.predictor.ClearHistory(c.Request.Context(), session.VisitorID(c)); err != nil {
		h.logger.Error("Failed to clear history", zap.Error(err))
		h.renderError(c, http.StatusInternalServerError, "Analyze Text", "Failed to clear history. Please try again.")
		return
	}
	c.Redirect(http.StatusSeeOther, "/predict")
}

// DashboardPage shows evaluation metrics, or demo data when unavailable
func (h *Handler) DashboardPage(c *gin.Context) {
	state := h.dashboard.Load(c.Request.Context())
	h.render(c, http.StatusOK, "dashboard.tmpl", "Dashboard", view.DashboardBody{State: state})
}
