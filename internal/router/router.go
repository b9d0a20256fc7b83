package router

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"roster/internal/auth"
	"roster/internal/config"
	"roster/internal/errors"
	"roster/internal/handler"
	"roster/internal/metrics"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *slog.Logger,
	gate *auth.Gate,
	authHandler *handler.AuthHandler,
	employeeHandler *handler.EmployeeHandler,
	projectHandler *handler.ProjectHandler,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType},
		AllowCredentials: true,
	}))
	if cfg.RequestTimeout > 0 {
		e.Use(middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout: cfg.RequestTimeout,
		}))
	}

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/login", authHandler.Login)

	// Secured routes: every call passes the access gate
	secured := api.Group("", GateMiddleware(gate))

	secured.GET("/employees", employeeHandler.ListEmployees)
	secured.PUT("/employees/:empPSC", employeeHandler.UpdateEmployee)
	secured.GET("/projects", projectHandler.ListProjects)
}

// GateMiddleware runs the echo-jwt middleware with token parsing delegated to
// the gate, so the exact "Bearer " prefix rule and the error taxonomy apply.
// The Identity is stored under handler.IdentityKey.
func GateMiddleware(gate *auth.Gate) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.IdentityKey,
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ParseTokenFunc: func(c echo.Context, rawHeader string) (interface{}, error) {
			return gate.Authorize(rawHeader)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			reason := errors.ErrMissingToken
			if stderrors.Is(err, errors.ErrInvalidToken) {
				reason = errors.ErrInvalidToken
			}
			httpErr := errors.MapErrorToHTTP(reason)
			metrics.ObserveGateRejection(httpErr.Code)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	})
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
				if v.Status >= http.StatusInternalServerError {
					level = slog.LevelError
				}
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
