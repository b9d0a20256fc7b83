package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"roster/internal/auth"
	"roster/internal/errors"
	"roster/internal/service"
)

// IdentityKey is the echo context key under which the gate stores the caller.
const IdentityKey = "identity"

// EmployeeHandler handles roster endpoints.
type EmployeeHandler struct {
	rosterService service.RosterService
	logger        *slog.Logger
}

// NewEmployeeHandler creates a new employee handler.
func NewEmployeeHandler(rosterService service.RosterService, logger *slog.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		rosterService: rosterService,
		logger:        logger.With(slog.String("component", "employee_handler")),
	}
}

// UpdateEmployeeRequest is the editable part of an employee row.
type UpdateEmployeeRequest struct {
	TagID     *string `json:"empTagId" validate:"omitempty,max=50"`
	ProjectID *int64  `json:"empProjID" validate:"omitempty,min=0"`
}

// MessageResponse acknowledges a write.
type MessageResponse struct {
	Message string `json:"message"`
}

// ListEmployees godoc
// @Summary List employees ordered by PSC
// @Tags employees
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Employee
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /employees [get]
func (h *EmployeeHandler) ListEmployees(c echo.Context) error {
	employees, err := h.rosterService.ListEmployees(c.Request().Context())
	if err != nil {
		h.logger.Error("list employees", slog.String("error", err.Error()))
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, employees)
}

// UpdateEmployee godoc
// @Summary Update tag and project of one employee
// @Tags employees
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param empPSC path string true "Employee PSC"
// @Param request body UpdateEmployeeRequest true "Editable fields"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /employees/{empPSC} [put]
func (h *EmployeeHandler) UpdateEmployee(c echo.Context) error {
	psc := c.Param("empPSC")

	var req UpdateEmployeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	if err := h.rosterService.UpdateEmployee(c.Request().Context(), psc, req.TagID, req.ProjectID); err != nil {
		h.logger.Warn("update employee",
			slog.String("psc", psc),
			slog.String("error", err.Error()),
		)
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	if id, ok := c.Get(IdentityKey).(auth.Identity); ok {
		h.logger.Info("employee updated", slog.String("psc", psc), slog.String("by", id.Subject))
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Updated"})
}
