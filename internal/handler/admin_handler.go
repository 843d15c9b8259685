package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"cleansweep/internal/service"
)

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	admin service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// Dashboard godoc
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Dashboard
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	dash, err := h.admin.Dashboard(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dash)
}

// Activity godoc
// @Summary Recent activity
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 50)"
// @Success 200 {array} model.ActivityLog
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/activity [get]
func (h *AdminHandler) Activity(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	logs, err := h.admin.Activity(c.Request().Context(), actor, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, logs)
}
