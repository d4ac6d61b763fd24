package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-verify-api/internal/models"
	"github.com/noah-isme/tutor-verify-api/pkg/response"
)

type dataFlowService interface {
	DataFlow(ctx context.Context) *models.Snapshot
	Reset(ctx context.Context) *models.Snapshot
}

// DataFlowHandler exposes the debug snapshot viewer and the reset entry point.
type DataFlowHandler struct {
	service dataFlowService
}

// NewDataFlowHandler constructs the handler.
func NewDataFlowHandler(service dataFlowService) *DataFlowHandler {
	return &DataFlowHandler{service: service}
}

// Get godoc
// @Summary Dump the full dataset
// @Tags Debug
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dataflow [get]
func (h *DataFlowHandler) Get(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.DataFlow(c.Request.Context()), nil)
}

// Reset godoc
// @Summary Discard the dataset and regenerate defaults
// @Tags Debug
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/reset [post]
func (h *DataFlowHandler) Reset(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Reset(c.Request.Context()), nil)
}
