// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the commit history",
	Long: `Shows the commit history recorded by the metadata service, most recent first.

With --local, lists the commits found in the local commit store instead: use this to find commit ids for revert.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		if codetrackFlags.log.local {
			commits, err := repo.LocalCommits(ctx)
			if err != nil {
				wrapFatalln("cannot list local commits", err)
				return
			}
			printLocalCommits(cmd.OutOrStdout(), commits)
			return
		}

		history, err := repo.History(ctx)
		if err != nil {
			wrapFatalln("cannot fetch commit history", err)
			return
		}
		printHistory(cmd.OutOrStdout(), history)
	},
}

func init() {
	addLocalFlag(logCmd)
	rootCmd.AddCommand(logCmd)
}
