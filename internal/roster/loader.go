package roster

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"roster/internal/client"
	"roster/internal/errors"
	"roster/internal/model"
)

// Loader fills the reconciler from the server.
type Loader struct {
	api     API
	session *client.Session
	rec     *Reconciler
	logger  *slog.Logger
}

// NewLoader creates a loader.
func NewLoader(api API, session *client.Session, rec *Reconciler, logger *slog.Logger) *Loader {
	return &Loader{
		api:     api,
		session: session,
		rec:     rec,
		logger:  logger.With(slog.String("component", "loader")),
	}
}

// Load fetches employees and projects and replaces the reconciler state.
// An employees failure aborts the load without touching the view; a projects
// failure is tolerated and leaves the project list empty. A rejected token
// expires the session and leaves the view untouched as well.
func (l *Loader) Load(ctx context.Context) error {
	token := l.session.Token()

	employees, err := l.api.ListEmployees(ctx, token)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnauthorized) {
			l.expire()
			return err
		}
		l.logger.Error("load employees", slog.String("error", err.Error()))
		if stderrors.Is(err, errors.ErrStoreUnavailable) {
			return err
		}
		return fmt.Errorf("%w: load employees: %w", errors.ErrStoreUnavailable, err)
	}

	projects, err := l.api.ListProjects(ctx, token)
	if err != nil {
		if stderrors.Is(err, errors.ErrUnauthorized) {
			l.expire()
			return err
		}
		l.logger.Warn("load projects, continuing without", slog.String("error", err.Error()))
		projects = []model.Project{}
	}

	l.rec.Load(employees, projects)
	l.logger.Debug("roster loaded",
		slog.Int("employees", len(employees)),
		slog.Int("projects", len(projects)),
	)
	return nil
}

func (l *Loader) expire() {
	if _, err := l.session.Expire(); err != nil {
		l.logger.Error("discard rejected token", slog.String("error", err.Error()))
	}
}
