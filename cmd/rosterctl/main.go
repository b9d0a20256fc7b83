package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"roster/internal/config"
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

func main() {
	cfg := config.LoadClient()
	root := newRootCmd(cfg)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var ee *exitErr
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.ClientConfig) *cobra.Command {
	root := &cobra.Command{
		Use:           "rosterctl",
		Short:         "Operate the employee roster",
		Long:          "rosterctl logs in to the roster API, lists employees and edits their tag and project.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfg.APIURL, "api", cfg.APIURL, "Roster API base URL")
	pf.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "File holding the session token")
	pf.DurationVar(&cfg.HTTPTimeout, "timeout", cfg.HTTPTimeout, "Per-request timeout")

	root.AddCommand(
		newLoginCmd(cfg),
		newLogoutCmd(cfg),
		newEmployeesCmd(cfg),
		newProjectsCmd(cfg),
		newSetCmd(cfg),
		newShellCmd(cfg),
	)
	return root
}
