// Copyright © 2018 One Concern

/*
Package core implements the version tracking operations on a working tree.

A working tree keeps its private metadata in a hidden directory:

	.vcs/config.json                   { "repoId": "<identifier>" }
	.vcs/staging/<file>                files staged for the next commit
	.vcs/commits/<commitId>/<file>     immutable commits
	.vcs/commits/<commitId>/commit.json

Files are staged by base name, then committed into a new directory named after
a random identifier. Commits are recorded by a metadata service, and copied
to or from a remote object store under keys like:

	{repoId}/commits/{commitId}/{fileName}

Push and pull copy whole files and are not transactional: every transfer
overwrites its target, so that an interrupted or partially failed transfer
is recovered by running it again.
*/
package core
