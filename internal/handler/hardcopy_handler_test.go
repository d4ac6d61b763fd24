package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-verify-api/internal/dto"
	"github.com/noah-isme/tutor-verify-api/internal/models"
	appErrors "github.com/noah-isme/tutor-verify-api/pkg/errors"
)

type hardcopyServiceMock struct {
	listResp     []dto.HardcopyListItem
	decideResp   *dto.HardcopyDecisionResponse
	decideErr    error
	lastDecision dto.HardcopyDecisionRequest
	decideCalled bool
}

func (m *hardcopyServiceMock) ListHardcopyRequests(ctx context.Context) []dto.HardcopyListItem {
	return m.listResp
}

func (m *hardcopyServiceMock) DecideHardcopyRequest(ctx context.Context, requestID string, req dto.HardcopyDecisionRequest) (*dto.HardcopyDecisionResponse, error) {
	m.decideCalled = true
	m.lastDecision = req
	return m.decideResp, m.decideErr
}

func TestHardcopyHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHardcopyHandler(&hardcopyServiceMock{
		listResp: []dto.HardcopyListItem{{HardcopyRequest: models.HardcopyRequest{ID: "hardcopy-1"}}},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/hardcopy-requests", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hardcopy-1")
}

func TestHardcopyHandlerDecide(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &hardcopyServiceMock{
		decideResp: &dto.HardcopyDecisionResponse{
			Request: models.HardcopyRequest{ID: "hardcopy-1", Status: models.HardcopyStatusApproved},
		},
	}
	handler := NewHardcopyHandler(mockSvc)

	payload, _ := json.Marshal(dto.HardcopyDecisionRequest{Decision: "Approve"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/hardcopy-requests/hardcopy-1/decision", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "hardcopy-1"}}

	handler.Decide(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.decideCalled)
	assert.Equal(t, "Approve", mockSvc.lastDecision.Decision)
}

func TestHardcopyHandlerDecideRejectsUnknownDecision(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &hardcopyServiceMock{}
	handler := NewHardcopyHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/hardcopy-requests/hardcopy-1/decision", bytes.NewBufferString(`{"decision":"Defer"}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "hardcopy-1"}}

	handler.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, mockSvc.decideCalled)
}

func TestHardcopyHandlerDecideSettledRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHardcopyHandler(&hardcopyServiceMock{decideErr: appErrors.ErrInvalidTransition})

	payload, _ := json.Marshal(dto.HardcopyDecisionRequest{Decision: "Reject", StaffNotes: "late"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/hardcopy-requests/hardcopy-1/decision", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "hardcopy-1"}}

	handler.Decide(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
