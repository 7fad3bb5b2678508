// Package model describes the base objects manipulated by codetrack.
//
// The object model for codetrack is composed of:
//
//  Repos:
//    A working tree with a hidden .vcs directory. The repo is identified remotely by the
//    repoId recorded in .vcs/config.json.
//
//  Staging:
//    Files selected for the next commit, copied flat under their base name.
//
//  Commits:
//    A commit is an immutable, uuid-addressed directory holding a copy of every staged file,
//    plus a commit.json descriptor. This is analogous to a commit in git, minus the history graph.
//
//  Remote objects:
//    Copies of committed files in an object store, keyed "{repoId}/commits/{commitId}/{file}".
//
//  Commit records:
//    Message, author and timestamp kept by the metadata service. They never carry file content.
package model
