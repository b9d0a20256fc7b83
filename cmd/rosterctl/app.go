package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"roster/internal/client"
	"roster/internal/config"
	"roster/internal/roster"
)

// app is one operator session: API client, token, view state and save pipeline.
type app struct {
	out     *syncWriter
	logger  *slog.Logger
	api     *client.Client
	session *client.Session
	rec     *roster.Reconciler
	notices *roster.Notices
	loader  *roster.Loader
	orch    *roster.Orchestrator

	expiredMu sync.Mutex
	expired   bool
}

// syncWriter serializes output from concurrent saves and the prompt.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s, format, args...)
}

func newApp(cfg *config.ClientConfig, out io.Writer) (*app, error) {
	a := &app{
		out:    &syncWriter{w: out},
		logger: newLogger(cfg.LogLevel),
	}

	var store client.TokenStore
	if cfg.TokenFile != "" {
		store = client.NewFileTokenStore(cfg.TokenFile)
	}
	session, err := client.NewSession(store, a.onExpired)
	if err != nil {
		return nil, err
	}

	a.session = session
	a.api = client.New(cfg.APIURL, cfg.HTTPTimeout, a.logger)
	a.rec = roster.NewReconciler()
	a.notices = roster.NewNotices(cfg.NoticeTTL, func(n roster.Notice) {
		if n.Error {
			a.out.printf("! %s\n", n.Text)
			return
		}
		a.out.printf("* %s\n", n.Text)
	})
	a.loader = roster.NewLoader(a.api, a.session, a.rec, a.logger)
	a.orch = roster.NewOrchestrator(a.api, a.session, a.rec, a.notices, a.logger)
	return a, nil
}

// onExpired is the redirect to the login entry point.
func (a *app) onExpired() {
	a.expiredMu.Lock()
	a.expired = true
	a.expiredMu.Unlock()
	a.out.printf("session expired, log in again with: rosterctl login\n")
}

func (a *app) isExpired() bool {
	a.expiredMu.Lock()
	defer a.expiredMu.Unlock()
	return a.expired
}

func (a *app) login(ctx context.Context, username, password string) error {
	token, err := a.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	a.expiredMu.Lock()
	a.expired = false
	a.expiredMu.Unlock()
	return a.session.Begin(token)
}

// requireSession fails fast when no token is held, as the protected view does.
func (a *app) requireSession() error {
	if !a.session.Authenticated() {
		return codeError(2, "not logged in, run: rosterctl login")
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func requestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	// the http client enforces per-call limits; this bounds a whole command
	return context.WithTimeout(context.Background(), 4*timeout)
}
