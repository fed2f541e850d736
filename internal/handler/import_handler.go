package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/service"
	appErrors "github.com/dayo-ade/uniplan-api/pkg/errors"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// ImportHandler wires CSV upload endpoints to the import service.
type ImportHandler struct {
	service *service.ImportService
}

// NewImportHandler creates a new handler.
func NewImportHandler(svc *service.ImportService) *ImportHandler {
	return &ImportHandler{service: svc}
}

// Offerings godoc
// @Summary Import a course listing CSV
// @Description Upload a session's raw course listing; rows are normalized and stored unresolved
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param session_id query string true "Session ID"
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /imports/offerings [post]
func (h *ImportHandler) Offerings(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session_id is required"))
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing csv file"))
		return
	}
	defer file.Close() //nolint:errcheck

	summary, err := h.service.ImportOfferings(c.Request.Context(), sessionID, file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// CanonicalCourses godoc
// @Summary Import a canonical catalog CSV
// @Tags Imports
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /imports/canonical-courses [post]
func (h *ImportHandler) CanonicalCourses(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing csv file"))
		return
	}
	defer file.Close() //nolint:errcheck

	summary, err := h.service.ImportCanonicalCourses(c.Request.Context(), file)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summary, nil)
}
