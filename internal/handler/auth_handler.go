package handler

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"roster/internal/errors"
	"roster/internal/metrics"
	"roster/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// LoginRequest represents an operator login request. Both fields are opaque
// and compared verbatim.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login godoc
// @Summary Login operator
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}

	token, err := h.authService.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			metrics.ObserveLogin(metrics.LoginInvalid)
		} else {
			metrics.ObserveLogin(metrics.LoginError)
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	metrics.ObserveLogin(metrics.LoginSuccess)
	h.logger.Info("operator logged in", slog.String("username", req.Username))
	return c.JSON(http.StatusOK, LoginResponse{Token: token})
}
