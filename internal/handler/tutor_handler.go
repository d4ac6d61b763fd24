package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-verify-api/internal/dto"
	"github.com/noah-isme/tutor-verify-api/internal/models"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
	"github.com/noah-isme/tutor-verify-api/pkg/response"
)

type tutorService interface {
	ListTutors(ctx context.Context) []models.Tutor
	GetTutor(ctx context.Context, userID string) (*models.Tutor, error)
	UpdateTutorProfile(ctx context.Context, userID string, req dto.UpdateTutorProfileRequest) (*models.Tutor, error)
	SubmitApplication(ctx context.Context, tutorID string) (*models.TutorApplication, error)
	GetTutorApplication(ctx context.Context, tutorID string) (*models.TutorApplication, error)
}

// TutorHandler exposes REST endpoints for tutor profiles.
type TutorHandler struct {
	service tutorService
}

// NewTutorHandler constructs the handler.
func NewTutorHandler(service tutorService) *TutorHandler {
	return &TutorHandler{service: service}
}

// List godoc
// @Summary List tutors
// @Tags Tutors
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tutors [get]
func (h *TutorHandler) List(c *gin.Context) {
	tutors := h.service.ListTutors(c.Request.Context())
	response.JSON(c, http.StatusOK, tutors, nil)
}

// Get godoc
// @Summary Get tutor
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Router /tutors/{id} [get]
func (h *TutorHandler) Get(c *gin.Context) {
	tutor, err := h.service.GetTutor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutor, nil)
}

// UpdateProfile godoc
// @Summary Update tutor profile
// @Tags Tutors
// @Accept json
// @Produce json
// @Param id path string true "Tutor ID"
// @Param payload body dto.UpdateTutorProfileRequest true "Profile fields"
// @Success 200 {object} response.Envelope
// @Router /tutors/{id} [put]
func (h *TutorHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateTutorProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid profile payload"))
		return
	}
	tutor, err := h.service.UpdateTutorProfile(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tutor, nil)
}

// SubmitApplication godoc
// @Summary Submit (or fetch) the tutor's application
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 201 {object} response.Envelope
// @Router /tutors/{id}/application [post]
func (h *TutorHandler) SubmitApplication(c *gin.Context) {
	app, err := h.service.SubmitApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// GetApplication godoc
// @Summary Get the tutor's application
// @Tags Tutors
// @Produce json
// @Param id path string true "Tutor ID"
// @Success 200 {object} response.Envelope
// @Router /tutors/{id}/application [get]
func (h *TutorHandler) GetApplication(c *gin.Context) {
	app, err := h.service.GetTutorApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}
