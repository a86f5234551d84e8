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

type collectionService interface {
	Create(ctx context.Context, req dto.CreateCollectionRequest, actor *models.JWTClaims) (*models.TaqrirJamai, error)
	Get(ctx context.Context, id string) (*models.TaqrirJamai, error)
	List(ctx context.Context, query dto.CollectionQuery) ([]models.TaqrirJamai, error)
	Update(ctx context.Context, id string, req dto.UpdateCollectionRequest, actor *models.JWTClaims) (*models.TaqrirJamai, error)
	Delete(ctx context.Context, id string, actor *models.JWTClaims) error
	SubmitForReview(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirJamai, error)
	Approve(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirJamai, error)
	Publish(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirJamai, error)
	ExportPDF(ctx context.Context, id string) ([]byte, string, error)
}

// TaqrirJamaiHandler exposes collection endpoints.
type TaqrirJamaiHandler struct {
	service collectionService
}

// NewTaqrirJamaiHandler builds a new handler.
func NewTaqrirJamaiHandler(service collectionService) *TaqrirJamaiHandler {
	return &TaqrirJamaiHandler{service: service}
}

// List godoc
// @Summary List taqrir jamai collections
// @Tags TaqrirJamai
// @Produce json
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /taqrir-jamai [get]
func (h *TaqrirJamaiHandler) List(c *gin.Context) {
	query := dto.CollectionQuery{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", 50),
	}
	for _, raw := range c.QueryArray("status") {
		status := models.CollectionStatus(raw)
		if !models.ValidCollectionStatus(status) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown collection status"))
			return
		}
		query.Status = append(query.Status, status)
	}

	collections, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, collections, nil)
}

// Create godoc
// @Summary Create a taqrir jamai
// @Tags TaqrirJamai
// @Accept json
// @Produce json
// @Param payload body dto.CreateCollectionRequest true "Collection payload"
// @Success 201 {object} response.Envelope
// @Router /taqrir-jamai [post]
func (h *TaqrirJamaiHandler) Create(c *gin.Context) {
	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid collection payload"))
		return
	}

	col, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, col)
}

// Get godoc
// @Summary Get a taqrir jamai by id
// @Tags TaqrirJamai
// @Produce json
// @Param id path string true "Collection id"
// @Success 200 {object} response.Envelope
// @Router /taqrir-jamai/{id} [get]
func (h *TaqrirJamaiHandler) Get(c *gin.Context) {
	col, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, col, nil)
}

// Update godoc
// @Summary Update draft collection metadata
// @Tags TaqrirJamai
// @Accept json
// @Produce json
// @Param id path string true "Collection id"
// @Param payload body dto.UpdateCollectionRequest true "Collection payload"
// @Success 200 {object} response.Envelope
// @Router /taqrir-jamai/{id} [patch]
func (h *TaqrirJamaiHandler) Update(c *gin.Context) {
	var req dto.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid collection payload"))
		return
	}

	col, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, col, nil)
}

// Delete godoc
// @Summary Delete a draft collection
// @Tags TaqrirJamai
// @Produce json
// @Param id path string true "Collection id"
// @Success 204 {object} response.Envelope
// @Router /taqrir-jamai/{id} [delete]
func (h *TaqrirJamaiHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SubmitForReview godoc
// @Summary Submit a draft collection for review
// @Tags TaqrirJamai
// @Produce json
// @Param id path string true "Collection id"
// @Success 200 {object} response.Envelope
// @Router /taqrir-jamai/{id}/submit_for_review [post]
func (h *TaqrirJamaiHandler) SubmitForReview(c *gin.Context) {
	col, err := h.service.SubmitForReview(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, col, nil)
}

// Approve godoc
// @Summary Approve a collection under review
// @Tags TaqrirJamai
// @Produce json
// @Param id path string true "Collection id"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /taqrir-jamai/{id}/approve [post]
func (h *TaqrirJamaiHandler) Approve(c *gin.Context) {
	col, err := h.service.Approve(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, col, nil)
}

// Publish godoc
// @Summary Publish an approved collection
// @Tags TaqrirJamai
// @Produce json
// @Param id path string true "Collection id"
// @Success 200 {object} response.Envelope
// @Router /taqrir-jamai/{id}/publish [post]
func (h *TaqrirJamaiHandler) Publish(c *gin.Context) {
	col, err := h.service.Publish(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, col, nil)
}

// Export godoc
// @Summary Export a published collection as PDF
// @Tags TaqrirJamai
// @Produce application/pdf
// @Param id path string true "Collection id"
// @Success 200 {file} binary
// @Failure 409 {object} response.Envelope
// @Router /taqrir-jamai/{id}/export [get]
func (h *TaqrirJamaiHandler) Export(c *gin.Context) {
	data, filename, err := h.service.ExportPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
