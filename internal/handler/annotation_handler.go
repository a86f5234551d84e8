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

type annotationService interface {
	Create(ctx context.Context, req dto.CreateAnnotationRequest, actor *models.JWTClaims) (*models.ReferenceAnnotation, error)
	Get(ctx context.Context, id string) (*models.ReferenceAnnotation, error)
	List(ctx context.Context, query dto.AnnotationQuery) ([]models.ReferenceAnnotation, error)
	Update(ctx context.Context, id string, req dto.UpdateAnnotationRequest, actor *models.JWTClaims) (*models.ReferenceAnnotation, error)
	Verify(ctx context.Context, id string, req dto.VerifyAnnotationRequest, actor *models.JWTClaims) (*models.ReferenceAnnotation, error)
	ExportCSV(ctx context.Context, query dto.AnnotationQuery) ([]byte, error)
}

// AnnotationHandler exposes reference annotation endpoints.
type AnnotationHandler struct {
	service annotationService
}

// NewAnnotationHandler builds a new handler.
func NewAnnotationHandler(service annotationService) *AnnotationHandler {
	return &AnnotationHandler{service: service}
}

func annotationQueryFromRequest(c *gin.Context) dto.AnnotationQuery {
	return dto.AnnotationQuery{
		TaqrirKhassID: c.Query("taqrir_khass_id"),
		Section:       models.Section(c.Query("section")),
		Page:          queryInt(c, "page", 1),
		Limit:         queryInt(c, "limit", 100),
	}
}

// List godoc
// @Summary List reference annotations
// @Tags Annotation
// @Produce json
// @Param taqrir_khass_id query string false "Filter by document"
// @Param section query string false "Filter by section"
// @Success 200 {object} response.Envelope
// @Router /reference-annotation [get]
func (h *AnnotationHandler) List(c *gin.Context) {
	annotations, err := h.service.List(c.Request.Context(), annotationQueryFromRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, annotations, nil)
}

// Export godoc
// @Summary Export the annotation ledger as CSV
// @Tags Annotation
// @Produce text/csv
// @Param taqrir_khass_id query string false "Filter by document"
// @Param section query string false "Filter by section"
// @Success 200 {file} binary
// @Router /reference-annotation/export [get]
func (h *AnnotationHandler) Export(c *gin.Context) {
	data, err := h.service.ExportCSV(c.Request.Context(), annotationQueryFromRequest(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="reference-annotations.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// Create godoc
// @Summary Record a cited passage
// @Tags Annotation
// @Accept json
// @Produce json
// @Param payload body dto.CreateAnnotationRequest true "Annotation payload"
// @Success 201 {object} response.Envelope
// @Router /reference-annotation [post]
func (h *AnnotationHandler) Create(c *gin.Context) {
	var req dto.CreateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid annotation payload"))
		return
	}

	annotation, err := h.service.Create(c.Request.Context(), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, annotation)
}

// Get godoc
// @Summary Get an annotation by id
// @Tags Annotation
// @Produce json
// @Param id path string true "Annotation id"
// @Success 200 {object} response.Envelope
// @Router /reference-annotation/{id} [get]
func (h *AnnotationHandler) Get(c *gin.Context) {
	annotation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, annotation, nil)
}

// Update godoc
// @Summary Edit an unverified annotation
// @Tags Annotation
// @Accept json
// @Produce json
// @Param id path string true "Annotation id"
// @Param payload body dto.UpdateAnnotationRequest true "Annotation payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reference-annotation/{id} [patch]
func (h *AnnotationHandler) Update(c *gin.Context) {
	var req dto.UpdateAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid annotation payload"))
		return
	}

	annotation, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, annotation, nil)
}

// Verify godoc
// @Summary Classify an annotation as verified or incorrect
// @Tags Annotation
// @Accept json
// @Produce json
// @Param id path string true "Annotation id"
// @Param payload body dto.VerifyAnnotationRequest true "Classification payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /reference-annotation/{id}/verify [post]
func (h *AnnotationHandler) Verify(c *gin.Context) {
	var req dto.VerifyAnnotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid classification payload"))
		return
	}

	annotation, err := h.service.Verify(c.Request.Context(), c.Param("id"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, annotation, nil)
}
