package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"cleansweep/internal/service"
)

// MediaField is the multipart field carrying report media.
const MediaField = "media"

// ReportHandler serves report endpoints.
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create godoc
// @Summary Submit a report
// @Description Reports of type "report" take one media file, "cleanup" up to two.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param title formData string true "Title"
// @Param description formData string true "Description"
// @Param type formData string true "report or cleanup"
// @Param latitude formData number false "Latitude"
// @Param longitude formData number false "Longitude"
// @Param media formData file true "JPEG, PNG, MP4 or WebM"
// @Success 201 {object} model.Report
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 415 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil {
		files = form.File[MediaField]
	}
	report, err := h.reports.CreateReport(c.Request().Context(), actor, service.CreateReportInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Type:        c.FormValue("type"),
		Latitude:    c.FormValue("latitude"),
		Longitude:   c.FormValue("longitude"),
		Media:       files,
	})
	if err != nil {
		return err
	}
	return created(c, report)
}

// List godoc
// @Summary List reports
// @Description Newest first, each with its owner's name and email.
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Report
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	reports, err := h.reports.ListReports(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}
