package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"roster/internal/errors"
	"roster/internal/service"
)

// ProjectHandler handles project endpoints.
type ProjectHandler struct {
	rosterService service.RosterService
	logger        *slog.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(rosterService service.RosterService, logger *slog.Logger) *ProjectHandler {
	return &ProjectHandler{
		rosterService: rosterService,
		logger:        logger.With(slog.String("component", "project_handler")),
	}
}

// ListProjects godoc
// @Summary List projects ordered by description
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Project
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /projects [get]
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	projects, err := h.rosterService.ListProjects(c.Request().Context())
	if err != nil {
		h.logger.Error("list projects", slog.String("error", err.Error()))
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, projects)
}
