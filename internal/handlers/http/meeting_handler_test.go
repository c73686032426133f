package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"meetlive/internal/core/services"
	"meetlive/internal/infrastructure/middleware"
	"meetlive/internal/infrastructure/monitoring"
	"meetlive/internal/infrastructure/repositories/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zaptest.NewLogger(t).Sugar()
	svc := services.NewMeetingService(memory.NewMeetingRepository(), logger)
	handler := NewMeetingHandler(svc, monitoring.NewHealthChecker(), 6)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	handler.SetupRoutes(router)
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateMeeting(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{
		"meeting_code": "ab12cd",
		"host_id":      "host-1",
		"host_name":    "Alice",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Meeting struct {
			Code     string `json:"code"`
			HostName string `json:"hostName"`
		} `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "AB12CD", resp.Meeting.Code)
	assert.Equal(t, "Alice", resp.Meeting.HostName)
}

func TestCreateMeeting_GeneratesCode(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"host_id": "host-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Meeting struct {
			Code string `json:"code"`
		} `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Meeting.Code, 6)
}

func TestCreateMeeting_DuplicateCode(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD", "host_id": "host-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD", "host_id": "host-2"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateMeeting_MissingHostID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateMeeting_InvalidCode(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "x", "host_id": "host-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMeeting(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD", "host_id": "host-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Lookup is case-insensitive.
	w = doJSON(router, http.MethodGet, "/api/meetings/ab12cd", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/meetings/NOPE99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEndMeeting(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD", "host_id": "host-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/meetings/AB12CD/end", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/api/meetings/AB12CD", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateParticipants(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD", "host_id": "host-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/meetings/AB12CD/participants", gin.H{
		"user_id": "user-1",
		"action":  "add",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Meeting struct {
			Participants []string `json:"participants"`
		} `json:"meeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"user-1"}, resp.Meeting.Participants)

	w = doJSON(router, http.MethodPost, "/api/meetings/AB12CD/participants", gin.H{
		"user_id": "user-1",
		"action":  "promote",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListMeetings(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "AB12CD", "host_id": "host-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(router, http.MethodPost, "/api/meetings", gin.H{"meeting_code": "XY34ZW", "host_id": "host-2"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodGet, "/api/meetings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}
