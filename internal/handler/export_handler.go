package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayo-ade/uniplan-api/internal/service"
	"github.com/dayo-ade/uniplan-api/pkg/response"
)

// ExportHandler wires timetable views and file exports to the export service.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Timetable godoc
// @Summary Fetch a run's timetable view
// @Tags Exports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /runs/{id}/timetable [get]
func (h *ExportHandler) Timetable(c *gin.Context) {
	view, err := h.service.Timetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, view, nil)
}

// TimetableCSV godoc
// @Summary Download a run's timetable as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /runs/{id}/timetable.csv [get]
func (h *ExportHandler) TimetableCSV(c *gin.Context) {
	runID := c.Param("id")
	payload, err := h.service.TimetableCSV(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.csv", runID))
	c.Data(http.StatusOK, "text/csv", payload)
}

// TimetablePDF godoc
// @Summary Download a run's timetable as PDF
// @Tags Exports
// @Produce application/pdf
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /runs/{id}/timetable.pdf [get]
func (h *ExportHandler) TimetablePDF(c *gin.Context) {
	runID := c.Param("id")
	payload, err := h.service.TimetablePDF(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=timetable-%s.pdf", runID))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// UnscheduledCSV godoc
// @Summary Download a run's unscheduled events as CSV
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /runs/{id}/unscheduled.csv [get]
func (h *ExportHandler) UnscheduledCSV(c *gin.Context) {
	runID := c.Param("id")
	payload, err := h.service.UnscheduledCSV(c.Request.Context(), runID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=unscheduled-%s.csv", runID))
	c.Data(http.StatusOK, "text/csv", payload)
}
