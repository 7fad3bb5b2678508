// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <files...>",
	Short: "Remove files from the staging area",
	Long: `Removes files from the staging area. Working files are left alone.

Only the base name of each path is considered. A name which is not staged is reported as a warning.
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		res, err := repo.Unstage(ctx, args)
		if err != nil {
			wrapFatalln("unstaging failed", err)
			return
		}

		for _, name := range res.Done {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s from staging\n", name)
		}
		for _, name := range res.NotStaged {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is not staged\n", yellow("warning:"), name)
		}
		printFailures(cmd.ErrOrStderr(), res.Report)

		exitOnReport(cmd.ErrOrStderr(), "some files could not be removed from staging", res.Report)
	},
}

func init() {
	rootCmd.AddCommand(rmCmd)
}
