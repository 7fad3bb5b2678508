// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var revertCmd = &cobra.Command{
	Use:   "revert <commitId>",
	Short: "Restore the files of a commit in the working tree",
	Long: `Copies the files of a local commit into the working tree, overwriting working files with the same name.

Working files absent from the commit are left alone, and so is the staging area.
Json metadata and markdown documentation files kept with the commit are not restored.
Use "codetrack log --local" to find commit ids, or "codetrack pull" to fetch commits first.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		res, err := repo.Revert(ctx, args[0])
		if err != nil {
			wrapFatalln("revert failed", err)
			return
		}

		printFailures(cmd.ErrOrStderr(), res.Report)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "restored %s from commit %s\n", plural(len(res.Done), "file"), yellow(res.CommitID))
		exitOnReport(cmd.ErrOrStderr(), "some files could not be restored", res.Report)
	},
}

func init() {
	rootCmd.AddCommand(revertCmd)
}
