package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ganaderia/internal/repository"
	"github.com/mamadbah2/ganaderia/internal/service/backup"
	"github.com/mamadbah2/ganaderia/internal/service/dashboard"
	"github.com/mamadbah2/ganaderia/internal/service/herd"
	"github.com/mamadbah2/ganaderia/internal/service/importer"
)

// Handler adapts the farm services to the JSON API used by the browser UI.
type Handler struct {
	herd     *herd.Service
	views    *dashboard.Service
	backups  *backup.Service
	importer *importer.Importer
	logger   *zap.Logger
}

// New constructs the HTTP handler adapter.
func New(herdSvc *herd.Service, views *dashboard.Service, backups *backup.Service, imp *importer.Importer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		herd:     herdSvc,
		views:    views,
		backups:  backups,
		importer: imp,
		logger:   logger,
	}
}

// fail writes the single error message for a failed operation.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, herd.ErrInvalidArguments), errors.Is(err, dashboard.ErrUnknownFilter):
		h.logger.Warn("rejected request", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, herd.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "the operation could not be completed"})
	}
}

// bind decodes the JSON body, answering 400 on malformed input.
func (h *Handler) bind(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		h.logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	return true
}

// orEmpty keeps empty listings encoded as [] instead of null.
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
