package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bahtsul-masail/tashih-api/internal/dto"
	"github.com/bahtsul-masail/tashih-api/internal/models"
	appErrors "github.com/bahtsul-masail/tashih-api/pkg/errors"
	"github.com/bahtsul-masail/tashih-api/pkg/response"
)

type verificationService interface {
	Upsert(ctx context.Context, req dto.UpsertVerificationRequest, actor *models.JWTClaims) (*dto.VerificationDetail, error)
	Get(ctx context.Context, id string) (*dto.VerificationDetail, error)
	Complete(ctx context.Context, recordID string, actor *models.JWTClaims) (*dto.VerificationDetail, error)
}

// VerificationHandler exposes mushoheh verification endpoints.
type VerificationHandler struct {
	service verificationService
}

// NewVerificationHandler builds a new handler.
func NewVerificationHandler(service verificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// Upsert godoc
// @Summary Create or update the verification record for a document
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body dto.UpsertVerificationRequest true "Verification payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mushoheh-verification [post]
func (h *VerificationHandler) Upsert(c *gin.Context) {
	var req dto.UpsertVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid verification payload"))
		return
	}

	detail, err := h.service.Upsert(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Get godoc
// @Summary Get a verification record with derived progress
// @Tags Verification
// @Produce json
// @Param id path string true "Verification record id"
// @Success 200 {object} response.Envelope
// @Router /mushoheh-verification/{id} [get]
func (h *VerificationHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Complete godoc
// @Summary Finalize verification and approve the document
// @Tags Verification
// @Produce json
// @Param id path string true "Verification record id"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /mushoheh-verification/{id}/complete [post]
func (h *VerificationHandler) Complete(c *gin.Context) {
	detail, err := h.service.Complete(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}
