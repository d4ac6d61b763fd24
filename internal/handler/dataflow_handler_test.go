package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-verify-api/internal/models"
)

type dataFlowServiceMock struct {
	snap        *models.Snapshot
	resetCalled bool
}

func (m *dataFlowServiceMock) DataFlow(ctx context.Context) *models.Snapshot {
	return m.snap
}

func (m *dataFlowServiceMock) Reset(ctx context.Context) *models.Snapshot {
	m.resetCalled = true
	return m.snap
}

func TestDataFlowHandlerGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDataFlowHandler(&dataFlowServiceMock{
		snap: &models.Snapshot{Tutors: []models.Tutor{{UserID: "tutor-1"}}},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/dataflow", nil)
	c.Request = req

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "tutor-1")
}

func TestDataFlowHandlerReset(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &dataFlowServiceMock{snap: &models.Snapshot{}}
	handler := NewDataFlowHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/admin/reset", nil)
	c.Request = req

	handler.Reset(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mockSvc.resetCalled)
}
