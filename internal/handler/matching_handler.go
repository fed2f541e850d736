package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/service"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// MatchingHandler wires HTTP endpoints to the matching cascade.
type MatchingHandler struct {
	service *service.MatcherService
}

// NewMatchingHandler creates a new handler.
func NewMatchingHandler(svc *service.MatcherService) *MatchingHandler {
	return &MatchingHandler{service: svc}
}

// Run godoc
// @Summary Run the matching cascade
// @Description Match every unresolved offering in a session against the canonical catalog
// @Tags Matching
// @Accept json
// @Produce json
// @Param payload body dto.RunMatchingRequest true "Run payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /matching/run [post]
func (h *MatchingHandler) Run(c *gin.Context) {
	var req dto.RunMatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid matching payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		req.UserID = claims.UserID
	}

	summary, err := h.service.RunMatching(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// Review godoc
// @Summary List offerings awaiting review
// @Tags Matching
// @Produce json
// @Param session_id query string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /matching/review [get]
func (h *MatchingHandler) Review(c *gin.Context) {
	sessionID := c.Query("session_id")
	items, err := h.service.ReviewItems(c.Request.Context(), sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Approve godoc
// @Summary Approve a match from the review queue
// @Tags Matching
// @Accept json
// @Produce json
// @Param payload body dto.ApproveMatchRequest true "Approval payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /matching/approve [post]
func (h *MatchingHandler) Approve(c *gin.Context) {
	var req dto.ApproveMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
		return
	}
	if claims := claimsFromContext(c); claims != nil {
		req.UserID = claims.UserID
	}

	res, err := h.service.Approve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}
