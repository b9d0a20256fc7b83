package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
	"time"

	"roster/internal/errors"
	"roster/internal/roster"
)

const shellHelp = `commands:
  list                       show rows matching the filters
  pending                    show rows with unsaved edits
  projects                   show projects
  filter tag|psc|project V   set one filter ("filter project" alone clears it)
  clear                      clear all filters
  tag <psc> <value|->        edit the tag, "-" clears it
  project <psc> <seq|->      edit the project, "-" clears it
  save <psc>                 save one row in the background
  reload                     reload from the server, unsaved edits are dropped
  help                       this text
  quit                       wait for outstanding saves and exit
`

// shell is the interactive edit loop. Saves run in the background and report
// through notices; everything else is synchronous.
type shell struct {
	app     *app
	in      *bufio.Scanner
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
}

func newShell(a *app, in io.Reader, timeout time.Duration) *shell {
	ctx, cancel := context.WithCancel(context.Background())
	return &shell{
		app:     a,
		in:      bufio.NewScanner(in),
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (s *shell) run() error {
	defer s.cancel()
	s.app.out.printf("%d row(s) loaded, type help for commands\n", len(s.app.rec.Visible()))

	for {
		s.app.out.printf("> ")
		if !s.in.Scan() {
			break
		}
		quit, err := s.exec(s.in.Text())
		if err != nil {
			s.app.out.printf("error: %s\n", err)
		}
		if quit {
			break
		}
	}
	s.app.orch.Wait()
	if err := s.in.Err(); err != nil {
		return err
	}
	if s.app.isExpired() {
		return codeError(2, "session expired")
	}
	return nil
}

// exec runs one command line. It reports whether the shell should exit.
func (s *shell) exec(line string) (bool, error) {
	if s.app.isExpired() {
		return true, nil
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	rec := s.app.rec

	switch cmd, args := fields[0], fields[1:]; cmd {
	case "quit", "exit":
		return true, nil

	case "help":
		s.app.out.printf("%s", shellHelp)

	case "list", "ls":
		renderRows(s.app.out, rec.Visible(), rec.Projects())

	case "pending":
		renderRows(s.app.out, rec.Pending(), rec.Projects())

	case "projects":
		renderProjects(s.app.out, rec.Projects())

	case "clear":
		rec.ClearFilters()
		renderRows(s.app.out, rec.Visible(), rec.Projects())

	case "filter":
		if len(args) == 0 {
			return false, errUsage("filter tag|psc|project [value]")
		}
		value := strings.Join(args[1:], " ")
		switch args[0] {
		case "tag":
			rec.SetTagFilter(value)
		case "psc":
			rec.SetPSCFilter(value)
		case "project":
			rec.SetProjectFilter(value)
		default:
			return false, errUsage("filter tag|psc|project [value]")
		}
		renderRows(s.app.out, rec.Visible(), rec.Projects())

	case "tag":
		if len(args) != 2 {
			return false, errUsage("tag <psc> <value|->")
		}
		return false, rec.EditTag(args[0], parseTag(args[1]))

	case "project":
		if len(args) != 2 {
			return false, errUsage("project <psc> <seq|->")
		}
		id, err := parseProject(args[1])
		if err != nil {
			return false, err
		}
		return false, rec.EditProject(args[0], id)

	case "save":
		if len(args) != 1 {
			return false, errUsage("save <psc>")
		}
		if _, err := rec.Row(args[0]); err != nil {
			return false, err
		}
		psc := args[0]
		done := s.app.orch.SaveAsync(s.ctx, psc)
		go func() {
			// outcomes of a sent request arrive as notices
			if err := <-done; stderrors.Is(err, roster.ErrSaveInFlight) {
				s.app.out.printf("error: %s: %s\n", psc, err)
			}
		}()

	case "reload":
		ctx, cancel := requestContext(s.timeout)
		defer cancel()
		if err := s.app.loader.Load(ctx); err != nil {
			return stderrors.Is(err, errors.ErrUnauthorized), err
		}
		renderRows(s.app.out, rec.Visible(), rec.Projects())

	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}
	return false, nil
}

type usageError string

func (e usageError) Error() string { return "usage: " + string(e) }

func errUsage(s string) error { return usageError(s) }
