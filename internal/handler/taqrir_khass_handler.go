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

type documentService interface {
	Create(ctx context.Context, req dto.CreateDocumentRequest, actor *models.JWTClaims) (*models.TaqrirKhass, error)
	Get(ctx context.Context, id string) (*dto.DocumentDetail, error)
	List(ctx context.Context, query dto.DocumentQuery) ([]models.TaqrirKhass, error)
	Update(ctx context.Context, id string, req dto.UpdateDocumentRequest, actor *models.JWTClaims) (*models.TaqrirKhass, error)
	SubmitForReview(ctx context.Context, id string, actor *models.JWTClaims) (*models.TaqrirKhass, error)
	RequestRevision(ctx context.Context, id string, req dto.RequestRevisionRequest, actor *models.JWTClaims) (*models.TaqrirKhass, error)
}

// TaqrirKhassHandler exposes issue document endpoints.
type TaqrirKhassHandler struct {
	service documentService
}

// NewTaqrirKhassHandler builds a new handler.
func NewTaqrirKhassHandler(service documentService) *TaqrirKhassHandler {
	return &TaqrirKhassHandler{service: service}
}

// List godoc
// @Summary List taqrir khass documents
// @Tags TaqrirKhass
// @Produce json
// @Param taqrir_jamai_id query string false "Filter by collection"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /taqrir-khass [get]
func (h *TaqrirKhassHandler) List(c *gin.Context) {
	query := dto.DocumentQuery{
		TaqrirJamaiID: c.Query("taqrir_jamai_id"),
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 50),
	}
	for _, raw := range c.QueryArray("status") {
		status := models.DocumentStatus(raw)
		if !models.ValidDocumentStatus(status) {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown document status"))
			return
		}
		query.Status = append(query.Status, status)
	}

	docs, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// Create godoc
// @Summary Create a taqrir khass inside a collection
// @Tags TaqrirKhass
// @Accept json
// @Produce json
// @Param payload body dto.CreateDocumentRequest true "Document payload"
// @Success 201 {object} response.Envelope
// @Router /taqrir-khass [post]
func (h *TaqrirKhassHandler) Create(c *gin.Context) {
	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}

	doc, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Get godoc
// @Summary Get a taqrir khass with verification progress
// @Tags TaqrirKhass
// @Produce json
// @Param id path string true "Document id"
// @Success 200 {object} response.Envelope
// @Router /taqrir-khass/{id} [get]
func (h *TaqrirKhassHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Update godoc
// @Summary Update document sections
// @Tags TaqrirKhass
// @Accept json
// @Produce json
// @Param id path string true "Document id"
// @Param payload body dto.UpdateDocumentRequest true "Document payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /taqrir-khass/{id} [patch]
func (h *TaqrirKhassHandler) Update(c *gin.Context) {
	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid document payload"))
		return
	}

	doc, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// SubmitForReview godoc
// @Summary Submit a document for verification
// @Tags TaqrirKhass
// @Produce json
// @Param id path string true "Document id"
// @Success 200 {object} response.Envelope
// @Router /taqrir-khass/{id}/submit_for_review [post]
func (h *TaqrirKhassHandler) SubmitForReview(c *gin.Context) {
	doc, err := h.service.SubmitForReview(c.Request.Context(), c.Param("id"), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// RequestRevision godoc
// @Summary Send a document back to its author
// @Tags TaqrirKhass
// @Accept json
// @Produce json
// @Param id path string true "Document id"
// @Param payload body dto.RequestRevisionRequest true "Revision notes"
// @Success 200 {object} response.Envelope
// @Router /taqrir-khass/{id}/request_revision [post]
func (h *TaqrirKhassHandler) RequestRevision(c *gin.Context) {
	var req dto.RequestRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "verification notes required"))
		return
	}

	doc, err := h.service.RequestRevision(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}
