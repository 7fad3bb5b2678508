package core

import (
	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/model"
	"go.uber.org/multierr"
)

// FileError reports the failure of an operation on a single file
type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

// Unwrap the cause of the failure
func (e FileError) Unwrap() error {
	return e.Err
}

// Report is the outcome of an operation on a batch of files.
//
// Failures on some files never prevent the processing of the others.
type Report struct {
	Done   []string
	Failed []FileError
}

// Err aggregates all failures, or returns nil if every file succeeded
func (r Report) Err() error {
	var err error
	for _, failed := range r.Failed {
		err = multierr.Append(err, failed)
	}
	return err
}

// Errors reported for individual files
func (r Report) Errors() []error {
	return multierr.Errors(r.Err())
}

func (r *Report) done(file string) {
	r.Done = append(r.Done, file)
}

func (r *Report) fail(file string, err error) {
	r.Failed = append(r.Failed, FileError{File: file, Err: err})
}

// StageResult lists the files staged, by base name, and the paths that could not be staged
type StageResult struct {
	Report
}

// UnstageResult lists the files removed from the staging area.
//
// Names which were not staged are reported as warnings, not as failures.
type UnstageResult struct {
	Report
	NotStaged []string
}

// CommitResult describes a new commit
type CommitResult struct {
	ID         string
	Descriptor model.CommitDescriptor
	Files      []string

	// Record is the commit as recorded by the metadata service. It is nil on partial failure.
	Record *model.CommitRecord
}

// SyncResult is the outcome of a push or a pull.
//
// Done lists object keys for a push, and commit keys (commitId/fileName) for a pull.
type SyncResult struct {
	Report

	// Store is the remote object store
	Store string

	// Bytes transferred
	Bytes int64

	// Nothing to transfer
	Nothing bool

	// Interrupted before all transfers could be started or completed
	Interrupted bool
}

// Err aggregates all failures, and signals an interruption
func (r SyncResult) Err() error {
	err := r.Report.Err()
	if r.Interrupted {
		err = multierr.Append(status.ErrInterrupted, err)
	}
	return err
}

// RevertResult lists the files restored in the working tree
type RevertResult struct {
	Report
	CommitID string
}

// StatusReport compares the working tree to the staging area
type StatusReport struct {
	Staged    []string
	Untracked []string
}
