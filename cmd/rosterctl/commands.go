package main

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"roster/internal/config"
	"roster/internal/errors"
)

func newLoginCmd(cfg *config.ClientConfig) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if username == "" {
				return codeError(3, "--username is required")
			}
			if !cmd.Flags().Changed("password") {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return codeError(3, "read password: %s", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			ctx, cancel := requestContext(cfg.HTTPTimeout)
			defer cancel()
			if err := a.login(ctx, username, password); err != nil {
				if stderrors.Is(err, errors.ErrInvalidCredentials) {
					return codeError(2, "invalid credentials")
				}
				return err
			}
			a.out.printf("logged in as %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Operator user id")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if err := a.session.End(); err != nil {
				return err
			}
			a.out.printf("logged out\n")
			return nil
		},
	}
}

type filterFlags struct {
	tag     string
	psc     string
	project string
}

func newEmployeesCmd(cfg *config.ClientConfig) *cobra.Command {
	var flags filterFlags
	cmd := &cobra.Command{
		Use:     "employees",
		Aliases: []string{"ls"},
		Short:   "List employees matching the filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadedApp(cfg, cmd)
			if err != nil {
				return err
			}
			a.rec.SetTagFilter(flags.tag)
			a.rec.SetPSCFilter(flags.psc)
			a.rec.SetProjectFilter(flags.project)
			renderRows(a.out, a.rec.Visible(), a.rec.Projects())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&flags.tag, "tag", "", "Tag substring, case-insensitive")
	f.StringVar(&flags.psc, "psc", "", "PSC substring, case-insensitive")
	f.StringVar(&flags.project, "project", "", "Exact project sequence number")
	return cmd
}

func newProjectsCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadedApp(cfg, cmd)
			if err != nil {
				return err
			}
			renderProjects(a.out, a.rec.Projects())
			return nil
		},
	}
}

func newSetCmd(cfg *config.ClientConfig) *cobra.Command {
	var tag, project string
	cmd := &cobra.Command{
		Use:   "set <psc>",
		Short: "Change tag and/or project of one employee and save it",
		Long:  "Values of \"-\" clear the field. Fields that are not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			psc := args[0]
			tagChanged := cmd.Flags().Changed("tag")
			projectChanged := cmd.Flags().Changed("project")
			if !tagChanged && !projectChanged {
				return codeError(3, "nothing to change, pass --tag and/or --project")
			}

			a, err := loadedApp(cfg, cmd)
			if err != nil {
				return err
			}
			if tagChanged {
				if err := a.rec.EditTag(psc, parseTag(tag)); err != nil {
					return codeError(2, "%s: %s", psc, err)
				}
			}
			if projectChanged {
				id, err := parseProject(project)
				if err != nil {
					return codeError(3, "%s", err)
				}
				if err := a.rec.EditProject(psc, id); err != nil {
					return codeError(2, "%s: %s", psc, err)
				}
			}

			ctx, cancel := requestContext(cfg.HTTPTimeout)
			defer cancel()
			if err := a.orch.Save(ctx, psc); err != nil {
				return codeError(2, "save %s: %s", psc, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "New tag id, \"-\" clears it")
	cmd.Flags().StringVar(&project, "project", "", "New project sequence number, \"-\" clears it")
	return cmd
}

func newShellCmd(cfg *config.ClientConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive editing session with filters and per-row saves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadedApp(cfg, cmd)
			if err != nil {
				return err
			}
			sh := newShell(a, cmd.InOrStdin(), cfg.HTTPTimeout)
			return sh.run()
		},
	}
}

// loadedApp builds the session and loads the roster, or fails as the
// protected view does when no valid token is held.
func loadedApp(cfg *config.ClientConfig, cmd *cobra.Command) (*app, error) {
	a, err := newApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return nil, err
	}
	if err := a.requireSession(); err != nil {
		return nil, err
	}

	ctx, cancel := requestContext(cfg.HTTPTimeout)
	defer cancel()
	if err := a.loader.Load(ctx); err != nil {
		if stderrors.Is(err, errors.ErrUnauthorized) {
			return nil, codeError(2, "session rejected by server")
		}
		return nil, codeError(1, "load roster: %s", err)
	}
	return a, nil
}
