package http

import (
	"net/http"

	"meetlive/internal/core/domain"
	"meetlive/internal/core/ports"
	"meetlive/internal/infrastructure/monitoring"
	apperrors "meetlive/pkg/errors"
	"meetlive/pkg/utils"
	"meetlive/pkg/validation"

	"github.com/gin-gonic/gin"
)

type MeetingHandler struct {
	meetingService ports.MeetingService
	health         *monitoring.HealthChecker
	codeLength     int
}

func NewMeetingHandler(meetingService ports.MeetingService, health *monitoring.HealthChecker, codeLength int) *MeetingHandler {
	return &MeetingHandler{
		meetingService: meetingService,
		health:         health,
		codeLength:     codeLength,
	}
}

func (h *MeetingHandler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.POST("/meetings", h.CreateMeeting)
		api.GET("/meetings", h.ListMeetings)
		api.GET("/meetings/:code", h.GetMeeting)
		api.POST("/meetings/:code/end", h.EndMeeting)
		api.POST("/meetings/:code/participants", h.UpdateParticipants)
	}
}

func (h *MeetingHandler) Health(c *gin.Context) {
	status := h.health.CheckAll(c.Request.Context())

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (h *MeetingHandler) CreateMeeting(c *gin.Context) {
	var req struct {
		MeetingCode string `json:"meeting_code"`
		HostID      string `json:"host_id" binding:"required"`
		HostName    string `json:"host_name"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Generate a shareable code when the caller did not bring one. A random
	// collision is possible, so retry a few times before giving up.
	generated := req.MeetingCode == ""
	attempts := 1
	if generated {
		attempts = 5
	}

	if !generated {
		if err := validation.ValidateMeetingCode(req.MeetingCode); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if req.HostName != "" {
		if err := validation.ValidateDisplayName(req.HostName); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var meeting *domain.Meeting
	var err error
	for i := 0; i < attempts; i++ {
		code := domain.NormalizeCode(req.MeetingCode)
		if generated {
			code = domain.NormalizeCode(utils.GenerateMeetingCode(h.codeLength))
		}

		meeting, err = h.meetingService.CreateMeeting(c.Request.Context(), code, req.HostID, req.HostName)
		if err == nil {
			break
		}
		if appErr := apperrors.GetAppError(err); appErr == nil || appErr.Code != apperrors.ErrCodeConflict || !generated {
			break
		}
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) GetMeeting(c *gin.Context) {
	code := domain.NormalizeCode(c.Param("code"))

	meeting, err := h.meetingService.GetMeeting(c.Request.Context(), code)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) EndMeeting(c *gin.Context) {
	code := domain.NormalizeCode(c.Param("code"))

	if err := h.meetingService.EndMeeting(c.Request.Context(), code); err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ended", "code": code})
}

func (h *MeetingHandler) UpdateParticipants(c *gin.Context) {
	code := domain.NormalizeCode(c.Param("code"))

	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Action string `json:"action" binding:"required"`
	}

	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.meetingService.UpdateParticipants(c.Request.Context(), code, req.UserID, req.Action)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"meeting": meeting})
}

func (h *MeetingHandler) ListMeetings(c *gin.Context) {
	summaries, err := h.meetingService.ListMeetings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"meetings": summaries,
		"total":    len(summaries),
	})
}
