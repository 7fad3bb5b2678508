// Package status exports errors produced by the core package.
package status

import (
	"github.com/codetrack/codetrack/pkg/errors"
)

var (
	// ErrNotFound indicates a missing source file, commit or repository history
	ErrNotFound = errors.New("not found")

	// ErrConfigMissing indicates that no repository config (repoId) could be resolved, or that some required setting is absent
	ErrConfigMissing = errors.New("configuration missing")

	// ErrAuthorMissing indicates that no author identity is configured: this is required to commit
	ErrAuthorMissing = errors.New("author identity is not set")

	// ErrEmptyStaging indicates a commit attempted with nothing staged
	ErrEmptyStaging = errors.New("nothing staged for commit")

	// ErrNetwork indicates that the remote object store or the metadata service is unreachable or returned an error
	ErrNetwork = errors.New("network error")

	// ErrPartialFailure indicates that a local step succeeded but a remote step failed.
	// Local artifacts are retained for a later retry.
	ErrPartialFailure = errors.New("partial failure")

	// ErrInterrupted signals that a batch of transfers has been interrupted before completion
	ErrInterrupted = errors.New("interrupted")

	// ErrLocked indicates that another process holds the repository lock
	ErrLocked = errors.New("repository is locked by another process")

	// ErrReservedName indicates a file which cannot be staged, because its name is reserved for internal use
	ErrReservedName = errors.New("reserved name")
)
