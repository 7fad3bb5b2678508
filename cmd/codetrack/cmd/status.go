// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show staged and untracked files",
	Long: `Shows the files staged for the next commit, and the entries of the working tree which are neither staged nor ignored.

Only names are compared: a committed file modified since, but not staged, is shown as untracked.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		report, err := repo.Status(ctx)
		if err != nil {
			wrapFatalln("cannot compute status", err)
			return
		}
		printStatus(cmd.OutOrStdout(), report)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
