package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	"github.com/bahtsul-masail/tashih-api/pkg/response"
)

type dashboardService interface {
	PendingVerification(ctx context.Context) ([]dto.PendingVerificationEntry, error)
	CompletedVerification(ctx context.Context) ([]models.TaqrirKhass, error)
	Statistics(ctx context.Context) (*dto.WorkflowStatistics, bool, error)
}

// DashboardHandler exposes the mushoheh dashboard endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler builds a new handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Pending godoc
// @Summary List documents awaiting verification, highest priority first
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tashih/pending-verification [get]
func (h *DashboardHandler) Pending(c *gin.Context) {
	entries, err := h.service.PendingVerification(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Completed godoc
// @Summary List approved documents
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tashih/completed-verification [get]
func (h *DashboardHandler) Completed(c *gin.Context) {
	docs, err := h.service.CompletedVerification(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// Statistics godoc
// @Summary Workflow counters across documents, collections and annotations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tashih/statistics [get]
func (h *DashboardHandler) Statistics(c *gin.Context) {
	stats, hit, err := h.service.Statistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cache_hit": hit})
}
