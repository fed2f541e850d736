package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/service"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// ResourceHandler wires HTTP endpoints to the scheduling inventory.
type ResourceHandler struct {
	service *service.ResourceService
}

// NewResourceHandler creates a new handler.
func NewResourceHandler(svc *service.ResourceService) *ResourceHandler {
	return &ResourceHandler{service: svc}
}

// ListSessions godoc
// @Summary List academic sessions
// @Tags Resources
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *ResourceHandler) ListSessions(c *gin.Context) {
	sessions, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, sessions, nil)
}

// CreateSession godoc
// @Summary Create a session
// @Tags Resources
// @Accept json
// @Produce json
// @Param payload body dto.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sessions [post]
func (h *ResourceHandler) CreateSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid session payload"))
		return
	}

	session, err := h.service.CreateSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, session)
}

// ActivateSession godoc
// @Summary Mark a session active
// @Tags Resources
// @Param id path string true "Session ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sessions/{id}/activate [post]
func (h *ResourceHandler) ActivateSession(c *gin.Context) {
	if err := h.service.ActivateSession(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListTimeSlots godoc
// @Summary List a session's time slots
// @Tags Resources
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /timeslots [get]
func (h *ResourceHandler) ListTimeSlots(c *gin.Context) {
	slots, err := h.service.ListTimeSlots(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, slots, nil)
}

// CreateTimeSlot godoc
// @Summary Add a time slot
// @Tags Resources
// @Accept json
// @Produce json
// @Param payload body dto.CreateTimeSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timeslots [post]
func (h *ResourceHandler) CreateTimeSlot(c *gin.Context) {
	var req dto.CreateTimeSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid time slot payload"))
		return
	}

	slot, err := h.service.CreateTimeSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, slot)
}

// DeleteTimeSlot godoc
// @Summary Remove a time slot
// @Tags Resources
// @Param id path string true "Slot ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timeslots/{id} [delete]
func (h *ResourceHandler) DeleteTimeSlot(c *gin.Context) {
	if err := h.service.DeleteTimeSlot(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListRooms godoc
// @Summary List a session's rooms
// @Tags Resources
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /rooms [get]
func (h *ResourceHandler) ListRooms(c *gin.Context) {
	rooms, err := h.service.ListRooms(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, rooms, nil)
}

// CreateRoom godoc
// @Summary Add a room
// @Tags Resources
// @Accept json
// @Produce json
// @Param payload body dto.CreateRoomRequest true "Room payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /rooms [post]
func (h *ResourceHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid room payload"))
		return
	}

	room, err := h.service.CreateRoom(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, room)
}

// DeleteRoom godoc
// @Summary Remove a room
// @Tags Resources
// @Param id path string true "Room ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rooms/{id} [delete]
func (h *ResourceHandler) DeleteRoom(c *gin.Context) {
	if err := h.service.DeleteRoom(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListLecturers godoc
// @Summary List lecturers
// @Tags Resources
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /lecturers [get]
func (h *ResourceHandler) ListLecturers(c *gin.Context) {
	lecturers, err := h.service.ListLecturers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, lecturers, nil)
}

// CreateLecturer godoc
// @Summary Add a lecturer
// @Tags Resources
// @Accept json
// @Produce json
// @Param payload body dto.CreateLecturerRequest true "Lecturer payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lecturers [post]
func (h *ResourceHandler) CreateLecturer(c *gin.Context) {
	var req dto.CreateLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lecturer payload"))
		return
	}

	lecturer, err := h.service.CreateLecturer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, lecturer)
}

// AssignLecturer godoc
// @Summary Assign a lecturer to an offering
// @Tags Resources
// @Accept json
// @Produce json
// @Param payload body dto.AssignLecturerRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lecturers/assignments [post]
func (h *ResourceHandler) AssignLecturer(c *gin.Context) {
	var req dto.AssignLecturerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.AssignLecturer(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}
