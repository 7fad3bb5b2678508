// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"strings"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/errors"
	"github.com/spf13/cobra"
)

var commitCmd = &cobra.Command{
	Use:   "commit <message>",
	Short: "Commit the staged files",
	Long: `Copies the staged files into a new commit, then records the commit with the metadata service.

The staging area is cleared once the commit is recorded. When the metadata service cannot record the commit,
the local commit is kept, the staging area is left unchanged, and the command exits with code 2.
`,
	Example: `% codetrack commit "first version"
commit 3b8d0f9c-8c6f-4d8e-9a53-0a7c2f0e1d11: first version (2 files)`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		message := strings.Join(args, " ")
		res, err := repo.Commit(ctx, message)
		switch {
		case err == nil:
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s: %s (%s)\n", yellow(res.ID), message, plural(len(res.Files), "file"))

		case errors.Is(err, status.ErrPartialFailure) && res != nil:
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "commit %s: %s (%s)\n", yellow(res.ID), message, plural(len(res.Files), "file"))
			wrapFatalWithCodef(cmd.ErrOrStderr(), exitPartialFailure,
				"%s local commit %s saved, but the metadata service did not record it: %v", red("warning:"), res.ID, err)

		case errors.Is(err, status.ErrEmptyStaging):
			wrapFatalln("nothing to commit: stage files with codetrack add", err)

		case errors.Is(err, status.ErrAuthorMissing):
			wrapFatalln("cannot commit: set the author with --user or CODETRACK_USER", err)

		default:
			wrapFatalln("commit failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(commitCmd)
}
