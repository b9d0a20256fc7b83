package roster

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"

	"roster/internal/client"
	"roster/internal/errors"
	"roster/internal/model"
)

// API is the part of the roster REST client used by the view.
type API interface {
	ListEmployees(ctx context.Context, token string) ([]model.Employee, error)
	ListProjects(ctx context.Context, token string) ([]model.Project, error)
	UpdateEmployee(ctx context.Context, token, psc string, tagID *string, projectID *int64) error
}

// Orchestrator saves single rows: it sends the effective values of a row with
// the session token and routes the outcome back into the reconciler.
type Orchestrator struct {
	api      API
	session  *client.Session
	rec      *Reconciler
	notices  *Notices
	logger   *slog.Logger
	inflight sync.WaitGroup
}

// NewOrchestrator wires a save pipeline.
func NewOrchestrator(api API, session *client.Session, rec *Reconciler, notices *Notices, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:     api,
		session: session,
		rec:     rec,
		notices: notices,
		logger:  logger.With(slog.String("component", "orchestrator")),
	}
}

// Save persists the row identified by psc. There is no retry; a failed save
// leaves the draft in place for the operator to save again.
func (o *Orchestrator) Save(ctx context.Context, psc string) error {
	payload, err := o.rec.BeginSave(psc)
	if err != nil {
		return err
	}

	err = o.api.UpdateEmployee(ctx, o.session.Token(), payload.PSC, payload.TagID, payload.ProjectID)
	switch {
	case err == nil:
		if !o.rec.CommitSave(payload) {
			// the view was reloaded or reset while the request was out
			o.logger.Info("stale save acknowledged", slog.String("psc", psc))
			return nil
		}
		o.notices.Publish("Updated "+psc, false)
		o.logger.Info("row saved", slog.String("psc", psc))
		return nil

	case stderrors.Is(err, errors.ErrUnauthorized):
		o.rec.FailSave(payload)
		fired, clearErr := o.session.Expire()
		if clearErr != nil {
			o.logger.Error("discard rejected token", slog.String("error", clearErr.Error()))
		}
		if fired {
			// unsaved drafts do not survive the session
			o.rec.Reset()
			o.logger.Warn("session rejected during save", slog.String("psc", psc))
		}
		return err

	default:
		o.rec.FailSave(payload)
		o.notices.Publish("Update failed", true)
		o.logger.Warn("row save failed",
			slog.String("psc", psc),
			slog.String("error", err.Error()),
		)
		return err
	}
}

// SaveAsync runs Save on its own goroutine. The returned channel yields the
// result once and is then closed.
func (o *Orchestrator) SaveAsync(ctx context.Context, psc string) <-chan error {
	done := make(chan error, 1)
	o.inflight.Add(1)
	go func() {
		defer o.inflight.Done()
		done <- o.Save(ctx, psc)
		close(done)
	}()
	return done
}

// Wait blocks until every SaveAsync call has finished.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}
