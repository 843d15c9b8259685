package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cleansweep/internal/service"
)

// UserHandler serves profile, reward and leaderboard endpoints.
type UserHandler struct {
	users       service.UserService
	leaderboard service.LeaderboardService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(users service.UserService, leaderboard service.LeaderboardService) *UserHandler {
	return &UserHandler{users: users, leaderboard: leaderboard}
}

// RedeemRequest names the reward to claim.
type RedeemRequest struct {
	Reward struct {
		Title string `json:"title" validate:"required"`
	} `json:"reward"`
}

// Profile godoc
// @Summary Current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) Profile(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	profile, err := h.users.Profile(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Redeem godoc
// @Summary Redeem a reward
// @Description Points are taken from the catalog; client totals are ignored.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RedeemRequest true "Reward to redeem"
// @Success 200 {object} service.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /user [patch]
func (h *UserHandler) Redeem(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	var req RedeemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	profile, err := h.users.Redeem(c.Request().Context(), actor, req.Reward.Title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Rewards godoc
// @Summary Reward catalog
// @Tags rewards
// @Produce json
// @Success 200 {array} model.Reward
// @Router /rewards [get]
func (h *UserHandler) Rewards(c echo.Context) error {
	return c.JSON(http.StatusOK, h.users.Rewards())
}

// Leaderboard godoc
// @Summary Top users by points
// @Tags rewards
// @Produce json
// @Security BearerAuth
// @Success 200 {array} service.LeaderboardEntry
// @Failure 401 {object} errors.ErrorResponse
// @Router /leaderboard [get]
func (h *UserHandler) Leaderboard(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}
	entries, err := h.leaderboard.Top(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}
