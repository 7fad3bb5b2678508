// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <files...>",
	Short: "Stage files for the next commit",
	Long: `Copies files of the working tree to the staging area, under their base name.

Paths are relative to the root of the working tree. A file staged again replaces the previously staged copy.
A file which cannot be staged is reported, but does not prevent the others from being staged.
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		paths := make([]string, 0, len(args))
		for _, arg := range args {
			paths = append(paths, relativeToRoot(repo.Root(), arg))
		}

		res, err := repo.Stage(ctx, paths)
		if err != nil {
			wrapFatalln("staging failed", err)
			return
		}

		for _, name := range res.Done {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "staged %s\n", green(name))
		}
		printFailures(cmd.ErrOrStderr(), res.Report)
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "staged %s\n", plural(len(res.Done), "file"))

		exitOnReport(cmd.ErrOrStderr(), "some files could not be staged", res.Report)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
