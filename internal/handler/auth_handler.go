package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cleansweep/internal/model"
	"cleansweep/internal/service"
)

// AuthHandler handles account and role endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AddAdminRequest creates an admin account directly.
type AddAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// PromoteRequest names the user to promote.
type PromoteRequest struct {
	Email string `json:"email" validate:"required"`
}

// PromoteResponse is returned after a promotion.
type PromoteResponse struct {
	Message string            `json:"message"`
	User    model.UserSummary `json:"user"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.authService.Register(c.Request().Context(), service.Credentials{
		Name: req.Name, Email: req.Email, Password: req.Password,
	})
	if err != nil {
		return err
	}
	return created(c, result)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// AddAdmin godoc
// @Summary Create an admin account
// @Description The body must carry role "admin".
// @Tags admin
// @Accept json
// @Produce json
// @Param request body AddAdminRequest true "Admin data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /admin/add [post]
func (h *AuthHandler) AddAdmin(c echo.Context) error {
	var req AddAdminRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.authService.CreateAdmin(c.Request().Context(), service.Credentials{
		Name: req.Name, Email: req.Email, Password: req.Password,
	}, req.Role); err != nil {
		return err
	}
	return created(c, MessageResponse{Message: "Admin created"})
}

// Promote godoc
// @Summary Promote a user to admin
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PromoteRequest true "User to promote"
// @Success 200 {object} PromoteResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin [post]
func (h *AuthHandler) Promote(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req PromoteRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	user, err := h.authService.Promote(c.Request().Context(), actor, req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PromoteResponse{Message: "User promoted to admin", User: *user})
}

// SetupSuperadmin godoc
// @Summary Create the superadmin
// @Description One-time bootstrap; fails once a superadmin exists.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Superadmin data"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /setup-superadmin [post]
func (h *AuthHandler) SetupSuperadmin(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := h.authService.BootstrapSuperadmin(c.Request().Context(), service.Credentials{
		Name: req.Name, Email: req.Email, Password: req.Password,
	}); err != nil {
		return err
	}
	return created(c, MessageResponse{Message: "Superadmin created successfully"})
}
