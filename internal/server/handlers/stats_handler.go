package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/revente/internal/domain/models"
	"github.com/mamadbah2/revente/internal/service/reporting"
)

const (
	defaultHistoryLimit = 12
	maxHistoryLimit     = 200
)

// ReportingService is the reporting surface used by StatsHandler.
type ReportingService interface {
	Statistics(ctx context.Context) (models.Statistics, error)
	History(ctx context.Context, limit int64) ([]models.StatsSnapshot, error)
}

// StatsHandler serves the statistics page.
type StatsHandler struct {
	reporting ReportingService
	logger    *zap.Logger
}

// NewStatsHandler constructs the statistics HTTP adapter.
func NewStatsHandler(reportingSvc ReportingService, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{reporting: reportingSvc, logger: logger}
}

// Get returns the statistics of the current ledger.
func (h *StatsHandler) Get(c *gin.Context) {
	st, err := h.reporting.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed computing statistics", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// History returns archived snapshots, newest first.
func (h *StatsHandler) History(c *gin.Context) {
	limit := int64(defaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v <= 0 || v > maxHistoryLimit {
			respondError(c, h.logger, "invalid history limit",
				fmt.Errorf("%w: limit must be between 1 and %d", models.ErrInvalidInput, maxHistoryLimit))
			return
		}
		limit = v
	}

	snapshots, err := h.reporting.History(c.Request.Context(), limit)
	if errors.Is(err, reporting.ErrArchiveDisabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondError(c, h.logger, "failed loading statistics history", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": snapshots})
}
