package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/service"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// ScheduleHandler wires HTTP endpoints to event expansion and allocation runs.
type ScheduleHandler struct {
	expander  *service.EventExpanderService
	allocator *service.AllocatorService
}

// NewScheduleHandler creates a new handler.
func NewScheduleHandler(expander *service.EventExpanderService, allocator *service.AllocatorService) *ScheduleHandler {
	return &ScheduleHandler{expander: expander, allocator: allocator}
}

// ExpandEvents godoc
// @Summary Expand matched offerings into schedulable events
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events/expand [post]
func (h *ScheduleHandler) ExpandEvents(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session_id is required"))
		return
	}

	events, err := h.expander.ExpandSession(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"count": len(events), "events": events}, nil)
}

// GenerateRun godoc
// @Summary Generate a timetable
// @Description Run the greedy allocator over the session's events
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param payload body dto.GenerateRunRequest true "Run payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /runs [post]
func (h *ScheduleHandler) GenerateRun(c *gin.Context) {
	var req dto.GenerateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
		return
	}

	summary, err := h.allocator.GenerateRun(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, summary)
}

// GetRun godoc
// @Summary Fetch a run with its results
// @Tags Scheduling
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /runs/{id} [get]
func (h *ScheduleHandler) GetRun(c *gin.Context) {
	summary, err := h.allocator.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// ListRuns godoc
// @Summary List a session's runs
// @Tags Scheduling
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /runs [get]
func (h *ScheduleHandler) ListRuns(c *gin.Context) {
	runs, err := h.allocator.ListRuns(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, runs, nil)
}
