package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-verify-api/internal/dto"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
	"github.com/noah-isme/tutor-verify-api/pkg/response"
)

type hardcopyService interface {
	ListHardcopyRequests(ctx context.Context) []dto.HardcopyListItem
	DecideHardcopyRequest(ctx context.Context, requestID string, req dto.HardcopyDecisionRequest) (*dto.HardcopyDecisionResponse, error)
}

// HardcopyHandler exposes REST endpoints for the hardcopy review queue.
type HardcopyHandler struct {
	service hardcopyService
}

// NewHardcopyHandler constructs the handler.
func NewHardcopyHandler(service hardcopyService) *HardcopyHandler {
	return &HardcopyHandler{service: service}
}

// List godoc
// @Summary List hardcopy requests
// @Tags Hardcopy
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /hardcopy-requests [get]
func (h *HardcopyHandler) List(c *gin.Context) {
	items := h.service.ListHardcopyRequests(c.Request.Context())
	response.JSON(c, http.StatusOK, items, nil)
}

// Decide godoc
// @Summary Approve or reject a hardcopy request
// @Tags Hardcopy
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param payload body dto.HardcopyDecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /hardcopy-requests/{id}/decision [post]
func (h *HardcopyHandler) Decide(c *gin.Context) {
	var req dto.HardcopyDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	result, err := h.service.DecideHardcopyRequest(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
