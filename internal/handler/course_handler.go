package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/dto"
	"github.com/dayo-ade/uniplan-api/internal/models"
	"github.com/dayo-ade/uniplan-api/internal/service"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// CourseHandler wires HTTP endpoints to offerings and the canonical catalog.
type CourseHandler struct {
	service *service.CourseService
}

// NewCourseHandler creates a new handler.
func NewCourseHandler(svc *service.CourseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// ListOfferings godoc
// @Summary List course offerings
// @Tags Courses
// @Produce json
// @Param session_id query string true "Session ID"
// @Param status query string false "Match status filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /offerings [get]
func (h *CourseHandler) ListOfferings(c *gin.Context) {
	sessionID := c.Query("session_id")
	status := models.MatchStatus(c.Query("status"))

	offerings, err := h.service.ListOfferings(c.Request.Context(), sessionID, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, offerings, nil)
}

// GetOffering godoc
// @Summary Fetch one offering
// @Tags Courses
// @Produce json
// @Param id path string true "Offering ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /offerings/{id} [get]
func (h *CourseHandler) GetOffering(c *gin.Context) {
	offering, err := h.service.GetOffering(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, offering, nil)
}

// ListCanonical godoc
// @Summary List the canonical catalog
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /canonical-courses [get]
func (h *CourseHandler) ListCanonical(c *gin.Context) {
	courses, err := h.service.ListCanonicalCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, courses, nil)
}

// CreateCanonical godoc
// @Summary Add a canonical course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCanonicalCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /canonical-courses [post]
func (h *CourseHandler) CreateCanonical(c *gin.Context) {
	var req dto.CreateCanonicalCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.service.CreateCanonicalCourse(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, course)
}
