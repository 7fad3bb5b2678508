package model

import "github.com/codetrack/codetrack/pkg/errors"

var (
	errEmptyRepoID   = errors.New("empty field: repoId is empty")
	errInvalidRepoID = errors.New("invalid repoId: must not contain path separators")
)
