package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"roster/internal/model"
	"roster/internal/roster"
)

// parseTag maps the "-" placeholder to a cleared tag.
func parseTag(s string) *string {
	if s == "-" {
		return nil
	}
	return &s
}

// parseProject maps "-" to a cleared project. Anything else must be a number.
func parseProject(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "-" {
		return nil, nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("project %q is not a number", s)
	}
	return &id, nil
}

func renderRows(w io.Writer, rows []roster.Row, projects []model.Project) {
	names := make(map[int64]string, len(projects))
	for _, p := range projects {
		names[p.Seq] = p.Description
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PSC\tTAG\tPROJECT\tSTATE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.PSC, tagCell(r.TagID), projectCell(r.ProjectID, names), stateCell(r.State))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d row(s)\n", len(rows))
}

func renderProjects(w io.Writer, projects []model.Project) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tDESCRIPTION")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\n", p.Seq, p.Description)
	}
	_ = tw.Flush()
}

func tagCell(tag *string) string {
	if tag == nil {
		return "-"
	}
	return *tag
}

func projectCell(id *int64, names map[int64]string) string {
	if id == nil {
		return "-"
	}
	if name, ok := names[*id]; ok {
		return fmt.Sprintf("%d %s", *id, name)
	}
	return strconv.FormatInt(*id, 10)
}

func stateCell(s roster.RowState) string {
	if s == roster.Clean {
		return ""
	}
	return s.String()
}
