package router

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"cleansweep/internal/auth"
	"cleansweep/internal/config"
	apperrors "cleansweep/internal/errors"
	"cleansweep/internal/handler"
	"cleansweep/internal/service"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Auth   *handler.AuthHandler
	Admin  *handler.AdminHandler
	Report *handler.ReportHandler
	User   *handler.UserHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, logger *zap.Logger, authService service.AuthService, h Handlers) {
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = ErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.Static("/uploads", cfg.UploadDir)

	api := e.Group("/api")

	// Public routes
	api.POST("/register", h.Auth.Register)
	api.POST("/login", h.Auth.Login)
	api.POST("/admin/add", h.Auth.AddAdmin)
	api.POST("/setup-superadmin", h.Auth.SetupSuperadmin)
	api.GET("/rewards", h.User.Rewards)

	// Secured routes (require a bearer token)
	secured := api.Group("", jwtMiddleware(authService))

	secured.POST("/admin", h.Auth.Promote, handler.RequirePermission(auth.PermPromoteAdmin))
	secured.GET("/admin/dashboard", h.Admin.Dashboard, handler.RequirePermission(auth.PermAdminDashboard))
	secured.GET("/admin/activity", h.Admin.Activity, handler.RequirePermission(auth.PermViewActivity))

	secured.POST("/reports", h.Report.Create, handler.RequirePermission(auth.PermCreateReport))
	secured.GET("/reports", h.Report.List, handler.RequirePermission(auth.PermListReports))

	secured.GET("/user", h.User.Profile, handler.RequirePermission(auth.PermViewProfile))
	secured.PATCH("/user", h.User.Redeem, handler.RequirePermission(auth.PermRedeemReward))
	secured.GET("/leaderboard", h.User.Leaderboard, handler.RequirePermission(auth.PermLeaderboard))
}

// jwtMiddleware extracts the bearer token and verifies it with the auth service.
func jwtMiddleware(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.UserContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			id, err := authService.Verify(token)
			if err != nil {
				return nil, err
			}
			return &auth.Claims{ID: id.ID, Role: id.Role}, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")) == "" {
				return apperrors.Auth(apperrors.MsgNoToken)
			}
			return apperrors.Auth(apperrors.MsgInvalidToken)
		},
	})
}

// ErrorHandler renders domain errors and echo's own HTTP errors as
// {"message": ...} bodies.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   apperrors.ErrorResponse
			appErr *apperrors.Error
			he     *echo.HTTPError
		)
		switch {
		case errors.As(err, &appErr):
			status = apperrors.HTTPStatus(err)
			body = apperrors.ToResponse(err)
		case errors.As(err, &he):
			status = he.Code
			body = apperrors.ErrorResponse{Message: httpErrorMessage(he)}
		default:
			status = http.StatusInternalServerError
			body = apperrors.ToResponse(err)
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", status),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Warn("write error response", zap.Error(err))
		}
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	switch he.Code {
	case http.StatusRequestEntityTooLarge:
		return "File too large"
	case http.StatusInternalServerError:
		return apperrors.MsgServerError
	}
	if msg, ok := he.Message.(string); ok {
		return msg
	}
	return fmt.Sprint(he.Message)
}

// bodyLimit allows two maximum-size files plus room for the form fields.
func bodyLimit(maxUploadBytes int64) string {
	const formOverhead = 1 << 20
	return fmt.Sprintf("%dK", (2*maxUploadBytes+formOverhead)/1024)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
