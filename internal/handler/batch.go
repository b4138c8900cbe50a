package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentiment-web/internal/download"
	"sentiment-web/internal/service"
	"sentiment-web/internal/session"
	"sentiment-web/internal/view"
)

const batchTitle = "Batch Upload"

// BatchPage renders the visitor's batch state
func (h *Handler) BatchPage(c *gin.Context) {
	visitor := session.VisitorID(c)
	if mode, ok := c.GetQuery("mode"); ok {
		h.batch.SetMode(visitor, service.ParseMode(mode))
	}
	h.render(c, http.StatusOK, "batch.tmpl", batchTitle, view.BatchBody{State: h.batch.View(visitor)})
}

// SelectFile reads an uploaded CSV for validation and preview
func (h *Handler) SelectFile(c *gin.Context) {
	visitor := session.VisitorID(c)

	header, err := c.FormFile("file")
	if err != nil {
		h.batch.SetError(visitor, "Please select a CSV file")
		c.Redirect(http.StatusSeeOther, "/batch")
		return
	}
	if header.Size > h.maxUploadBytes {
		h.batch.SetError(visitor, fmt.Sprintf("File is too large. Maximum size is %s.", view.KB(int(h.maxUploadBytes))))
		c.Redirect(http.StatusSeeOther, "/batch")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		h.batch.SetError(visitor, service.MsgCSVParseFailed)
		c.Redirect(http.StatusSeeOther, "/batch")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes))
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		h.batch.SetError(visitor, service.MsgCSVParseFailed)
		c.Redirect(http.StatusSeeOther, "/batch")
		return
	}

	if err := h.batch.Select(visitor, header.Filename, data); err != nil {
		h.logger.Info("Rejected CSV file", zap.String("file", header.Filename), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/batch")
}

// Upload submits the pending file. Outcomes are shown on the batch page.
func (h *Handler) Upload(c *gin.Context) {
	err := h.batch.Upload(c.Request.Context(), session.VisitorID(c), c.PostForm("filename"))
	h.afterSubmit(c, err)
}

// Remote submits a URL or server path
func (h *Handler) Remote(c *gin.Context) {
	err := h.batch.Remote(c.Request.Context(), session.VisitorID(c), c.PostForm("input_file"), c.PostForm("filename"))
	h.afterSubmit(c, err)
}

func (h *Handler) afterSubmit(c *gin.Context, err error) {
	if errors.Is(err, service.ErrBusy) {
		h.logger.Debug("Batch submission rejected, another one is in flight")
	}
	c.Redirect(http.StatusSeeOther, "/batch")
}

// ResetBatch clears the batch page
func (h *Handler) ResetBatch(c *gin.Context) {
	h.batch.Reset(session.VisitorID(c))
	c.Redirect(http.StatusSeeOther, "/batch")
}

// Download sends the results CSV of a batch
func (h *Handler) Download(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.renderError(c, http.StatusBadRequest, batchTitle, "Invalid result id")
		return
	}

	artifact, err := h.batch.Artifact(c.Request.Context(), session.VisitorID(c), id)
	switch {
	case errors.Is(err, service.ErrResultNotFound), errors.Is(err, download.ErrNoArtifact):
		h.renderError(c, http.StatusNotFound, batchTitle, "Result not found. Please run the analysis again.")
		return
	case err != nil:
		h.renderError(c, http.StatusBadGateway, batchTitle, service.MsgDownloadFailed)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
