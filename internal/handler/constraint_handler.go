package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/service"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// ConstraintHandler wires HTTP endpoints to session constraints, blocked times
// and locks.
type ConstraintHandler struct {
	service *service.ConstraintService
}

// NewConstraintHandler creates a new handler.
func NewConstraintHandler(svc *service.ConstraintService) *ConstraintHandler {
	return &ConstraintHandler{service: svc}
}

// Get godoc
// @Summary Fetch a session's constraint configuration
// @Tags Constraints
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /constraints [get]
func (h *ConstraintHandler) Get(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session_id is required"))
		return
	}

	cfg, err := h.service.GetOrDefault(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, cfg, nil)
}

// Update godoc
// @Summary Replace a session's constraint configuration
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.UpdateConstraintsRequest true "Constraints payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /constraints [put]
func (h *ConstraintHandler) Update(c *gin.Context) {
	var req dto.UpdateConstraintsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraints payload"))
		return
	}

	cfg, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, cfg, nil)
}

// ListBlockedTimes godoc
// @Summary List a session's blocked times
// @Tags Constraints
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /blocked-times [get]
func (h *ConstraintHandler) ListBlockedTimes(c *gin.Context) {
	blocked, err := h.service.ListBlockedTimes(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, blocked, nil)
}

// CreateBlockedTime godoc
// @Summary Block a (day, timeslot) for a scope
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateBlockedTimeRequest true "Blocked time payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /blocked-times [post]
func (h *ConstraintHandler) CreateBlockedTime(c *gin.Context) {
	var req dto.CreateBlockedTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid blocked time payload"))
		return
	}

	blocked, err := h.service.CreateBlockedTime(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, blocked)
}

// DeleteBlockedTime godoc
// @Summary Remove a blocked time
// @Tags Constraints
// @Param id path string true "Blocked time ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /blocked-times/{id} [delete]
func (h *ConstraintHandler) DeleteBlockedTime(c *gin.Context) {
	if err := h.service.DeleteBlockedTime(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListLocks godoc
// @Summary List a session's locks
// @Tags Constraints
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /locks [get]
func (h *ConstraintHandler) ListLocks(c *gin.Context) {
	locks, err := h.service.ListLocks(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, locks, nil)
}

// CreateLock godoc
// @Summary Pin an event to a fixed placement
// @Tags Constraints
// @Accept json
// @Produce json
// @Param payload body dto.CreateLockRequest true "Lock payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /locks [post]
func (h *ConstraintHandler) CreateLock(c *gin.Context) {
	var req dto.CreateLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid lock payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		req.UserID = claims.UserID
	}

	lock, err := h.service.CreateLock(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, lock)
}

// DeleteLock godoc
// @Summary Remove a lock
// @Tags Constraints
// @Param id path string true "Lock ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /locks/{id} [delete]
func (h *ConstraintHandler) DeleteLock(c *gin.Context) {
	if err := h.service.DeleteLock(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// PruneLocks godoc
// @Summary Remove locks whose event no longer exists
// @Tags Constraints
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /locks/prune [post]
func (h *ConstraintHandler) PruneLocks(c *gin.Context) {
	removed, err := h.service.PruneOrphanLocks(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"removed": removed}, nil)
}
