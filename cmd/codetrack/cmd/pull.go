// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download all remote commits into the local commit store",
	Long: `Downloads every commit of the repository found in the remote object store, overwriting local files.

Pull is not transactional: when some files fail, run pull again.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		res, err := repo.Pull(ctx)
		if err != nil {
			wrapFatalln("pull failed", err)
			return
		}
		if res.Nothing {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to pull")
			return
		}

		printFailures(cmd.ErrOrStderr(), res.Report)
		printSync(cmd.OutOrStdout(), "pulled", res)
		exitOnBatch(cmd.ErrOrStderr(), "pull did not complete", len(res.Done), res)
	},
}

func init() {
	rootCmd.AddCommand(pullCmd)
}
