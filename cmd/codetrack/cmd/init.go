// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a working tree",
	Long: `Creates the metadata directory of a working tree.

With --repo-id, the working tree is bound to a repository record of the metadata service.
This is required to commit, push, pull or show the history. Running init again changes the repository id.
`,
	Example: `% codetrack init --repo-id 64f0c0ffee0123456789abcd
repository 64f0c0ffee0123456789abcd initialized in /home/me/project`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, cancel, repo := setupRepo(cmd)
		if repo == nil {
			return
		}
		defer cancel()

		if err := repo.Init(codetrackFlags.init.repoID); err != nil {
			wrapFatalln("init failed", err)
			return
		}

		if codetrackFlags.init.repoID == "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "initialized working tree in %s\n", repo.Root())
			return
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "repository %s initialized in %s\n", codetrackFlags.init.repoID, repo.Root())
	},
}

func init() {
	addRepoIDFlag(initCmd)
	rootCmd.AddCommand(initCmd)
}
