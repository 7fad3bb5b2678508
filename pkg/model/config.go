package model

import (
	"strings"
)

// RepoConfig is persisted once per working tree, in .vcs/config.json.
//
// It identifies the remote repository record. The core reads it and never mutates it,
// except when a repository is (re)initialized.
type RepoConfig struct {
	RepoID string `json:"repoId" yaml:"repoId"`
}

// Validate that the config resolves to a repository
func (c RepoConfig) Validate() error {
	if strings.TrimSpace(c.RepoID) == "" {
		return errEmptyRepoID
	}
	if strings.ContainsAny(c.RepoID, "/\\") {
		return errInvalidRepoID
	}
	return nil
}
