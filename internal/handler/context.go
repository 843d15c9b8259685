package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cleansweep/internal/auth"
	apperrors "cleansweep/internal/errors"
)

// UserContextKey is where the JWT middleware stores the verified claims.
const UserContextKey = "user"

// MessageResponse is a reply carrying only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

func identityFrom(c echo.Context) (auth.Identity, error) {
	claims, ok := c.Get(UserContextKey).(*auth.Claims)
	if !ok || claims == nil {
		return auth.Identity{}, apperrors.Auth(apperrors.MsgNoToken)
	}
	return claims.Identity(), nil
}

// RequirePermission rejects callers whose role the policy table does not allow.
func RequirePermission(perm auth.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := identityFrom(c)
			if err != nil {
				return err
			}
			if err := auth.Authorize(id.Role, perm); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation(msgInvalidBody)
	}
	return c.Validate(req)
}

func created(c echo.Context, body any) error {
	return c.JSON(http.StatusCreated, body)
}
