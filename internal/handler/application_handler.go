package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-verify-api/internal/dto"
	"github.com/noah-isme/tutor-verify-api/internal/models"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
	"github.com/noah-isme/tutor-verify-api/pkg/response"
)

type applicationService interface {
	ListApplications(ctx context.Context, query dto.ApplicationQuery) []dto.ApplicationListItem
	GetApplicationDetail(ctx context.Context, applicationID string) (*dto.ApplicationDetail, error)
	DecideApplication(ctx context.Context, applicationID string, req dto.ApplicationDecisionRequest) (*dto.DecisionResponse, error)
	UploadDocuments(ctx context.Context, applicationID string, req dto.UploadDocumentRequest) (*dto.UploadDocumentResponse, error)
	ListDocuments(ctx context.Context, applicationID string) ([]models.Document, error)
	CreateHardcopyRequest(ctx context.Context, applicationID string) (*models.HardcopyRequest, error)
}

// ApplicationHandler exposes REST endpoints for the review workflow.
type ApplicationHandler struct {
	service applicationService
}

// NewApplicationHandler constructs the handler.
func NewApplicationHandler(service applicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// List godoc
// @Summary List applications
// @Tags Applications
// @Produce json
// @Param status query string false "Comma separated statuses"
// @Param tutorId query string false "Tutor ID"
// @Success 200 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	query := dto.ApplicationQuery{TutorID: strings.TrimSpace(c.Query("tutorId"))}
	if rawStatus := c.Query("status"); rawStatus != "" {
		parts := strings.Split(rawStatus, ",")
		statuses := make([]models.ApplicationStatus, 0, len(parts))
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			statuses = append(statuses, models.ApplicationStatus(part))
		}
		query.Status = statuses
	}
	items := h.service.ListApplications(c.Request.Context(), query)
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get application detail
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c *gin.Context) {
	detail, err := h.service.GetApplicationDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Decide godoc
// @Summary Apply a staff decision to an application
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.ApplicationDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/decision [post]
func (h *ApplicationHandler) Decide(c *gin.Context) {
	var req dto.ApplicationDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	result, err := h.service.DecideApplication(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// UploadDocuments godoc
// @Summary Upload credential documents (simulated)
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.UploadDocumentRequest true "Document payload"
// @Success 201 {object} response.Envelope
// @Router /applications/{id}/documents [post]
func (h *ApplicationHandler) UploadDocuments(c *gin.Context) {
	var req dto.UploadDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid document payload"))
		return
	}
	result, err := h.service.UploadDocuments(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// ListDocuments godoc
// @Summary List documents for an application
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Router /applications/{id}/documents [get]
func (h *ApplicationHandler) ListDocuments(c *gin.Context) {
	docs, err := h.service.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// CreateHardcopyRequest godoc
// @Summary Declare that notarized hardcopies were mailed
// @Tags Applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 201 {object} response.Envelope
// @Router /applications/{id}/hardcopy-requests [post]
func (h *ApplicationHandler) CreateHardcopyRequest(c *gin.Context) {
	req, err := h.service.CreateHardcopyRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, req)
}
