package core

import (
	"context"
	"os"
	"sort"

	"github.com/spf13/afero"
)

// Status lists staged files, and the entries of the working tree which are neither staged nor ignored.
//
// This is a shallow comparison on names: a working file which differs from its last committed
// version but is not staged is reported as untracked, like any other unstaged file.
func (r *Repo) Status(ctx context.Context) (StatusReport, error) {
	var report StatusReport

	staged, err := r.Staged(ctx)
	if err != nil {
		return report, err
	}
	report.Staged = staged

	entries, err := afero.ReadDir(r.fs, ".")
	if err != nil && !os.IsNotExist(err) {
		return report, err
	}

	isStaged := make(map[string]struct{}, len(staged))
	for _, name := range staged {
		isStaged[name] = struct{}{}
	}

	for _, entry := range entries {
		name := entry.Name()
		if _, ignored := r.ignore[name]; ignored {
			continue
		}
		if _, ok := isStaged[name]; ok {
			continue
		}
		report.Untracked = append(report.Untracked, name)
	}
	sort.Strings(report.Untracked)
	return report, nil
}
