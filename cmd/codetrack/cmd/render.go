package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/codetrack/codetrack/pkg/core"
	"github.com/codetrack/codetrack/pkg/model"
	units "github.com/docker/go-units"
	"github.com/fatih/color"
)

const timeFormat = "2006-01-02 15:04:05 MST"

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

func plural(n int, what string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, what)
	}
	return fmt.Sprintf("%d %ss", n, what)
}

func printFailures(w io.Writer, report core.Report) {
	for _, failed := range report.Failed {
		_, _ = fmt.Fprintf(w, "%s %s: %v\n", red("failed"), failed.File, failed.Err)
	}
}

func printStatus(w io.Writer, report core.StatusReport) {
	if len(report.Staged) == 0 {
		_, _ = fmt.Fprintln(w, "No changes added to commit.")
	} else {
		_, _ = fmt.Fprintln(w, "Staged for commit:")
		for _, name := range report.Staged {
			_, _ = fmt.Fprintf(w, "  %s\n", green(name))
		}
	}

	_, _ = fmt.Fprintln(w)
	if len(report.Untracked) == 0 {
		_, _ = fmt.Fprintln(w, "No untracked files.")
		return
	}
	_, _ = fmt.Fprintln(w, "Untracked files:")
	for _, name := range report.Untracked {
		_, _ = fmt.Fprintf(w, "  %s\n", red(name))
	}
}

func printHistory(w io.Writer, history *model.History) {
	if history.Name != "" {
		_, _ = fmt.Fprintf(w, "History of %s\n", cyan(history.Name))
	}
	if len(history.Commits) == 0 {
		_, _ = fmt.Fprintln(w, "No commits recorded.")
		return
	}
	for _, c := range history.Commits {
		id := c.ID
		if id == "" {
			id = "N/A"
		}
		_, _ = fmt.Fprintf(w, "\ncommit %s\n", yellow(id))
		_, _ = fmt.Fprintf(w, "Author: %s\n", c.Author)
		if !c.Timestamp.IsZero() {
			_, _ = fmt.Fprintf(w, "Date:   %s\n", c.Timestamp.Local().Format(timeFormat))
		}
		_, _ = fmt.Fprintf(w, "\n    %s\n", green(c.Message))
	}
}

func printLocalCommits(w io.Writer, commits []model.LocalCommit) {
	if len(commits) == 0 {
		_, _ = fmt.Fprintln(w, "No local commits.")
		return
	}
	for _, c := range commits {
		_, _ = fmt.Fprintf(w, "\ncommit %s\n", yellow(c.ID))
		if !c.Date.IsZero() {
			_, _ = fmt.Fprintf(w, "Date:   %s\n", c.Date.Local().Format(timeFormat))
		}
		_, _ = fmt.Fprintf(w, "Files:  %s\n", strings.Join(c.Files, ", "))
		_, _ = fmt.Fprintf(w, "\n    %s\n", green(c.Message))
	}
}

func printSync(w io.Writer, verb string, res core.SyncResult) {
	_, _ = fmt.Fprintf(w, "%s %s (%s) %s %s\n",
		verb, plural(len(res.Done), "file"), units.HumanSize(float64(res.Bytes)), direction(verb), res.Store)
}

func direction(verb string) string {
	if verb == "pushed" {
		return "to"
	}
	return "from"
}

// relativeToRoot yields a path relative to the root of the working tree.
//
// Relative paths are already relative to the root. Paths outside of the tree are left as is.
func relativeToRoot(root, p string) string {
	if !filepath.IsAbs(p) {
		return filepath.ToSlash(filepath.Clean(p))
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}
