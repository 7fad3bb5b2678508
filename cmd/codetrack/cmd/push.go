// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload all local commits to the remote object store",
	Long: `Uploads every file of the local commit store to the remote object store, overwriting remote objects.

Push is not transactional: when some files fail, run push again.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		res, err := repo.Push(ctx)
		if err != nil {
			wrapFatalln("push failed", err)
			return
		}
		if res.Nothing {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nothing to push")
			return
		}

		printFailures(cmd.ErrOrStderr(), res.Report)
		printSync(cmd.OutOrStdout(), "pushed", res)
		exitOnBatch(cmd.ErrOrStderr(), "push did not complete", len(res.Done), res)
	},
}

func init() {
	rootCmd.AddCommand(pushCmd)
}
