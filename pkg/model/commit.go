package model

import (
	"fmt"
	"time"
)

// CommitDescriptor is the content of commit.json, in every commit directory
type CommitDescriptor struct {
	Message string    `json:"message" yaml:"message"`
	Date    time.Time `json:"date" yaml:"date"`
}

// LocalCommit describes a commit found in the local commit store
type LocalCommit struct {
	ID string `json:"id" yaml:"id"`
	CommitDescriptor
	Files []string `json:"files" yaml:"files"`
}

// CommitRequest is sent to the metadata service whenever a commit is created
type CommitRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// CommitRecord is a commit as recorded by the metadata service.
//
// This is not the commit content: file bytes live only in the local commit store and in the remote object store.
type CommitRecord struct {
	ID        string    `json:"_id,omitempty" yaml:"id,omitempty"`
	Message   string    `json:"message" yaml:"message"`
	Author    string    `json:"author,omitempty" yaml:"author,omitempty"`
	Timestamp time.Time `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
}

func (c CommitRecord) String() string {
	if c.ID == "" {
		return c.Message
	}
	return fmt.Sprintf("%s %s", c.ID, c.Message)
}

// History is the commit history of a repo, as recorded by the metadata service
type History struct {
	Name    string         `json:"name" yaml:"name"`
	Commits []CommitRecord `json:"content" yaml:"commits"`
}

// GetCommitTimeStamp yields the timestamp recorded for new commits
func GetCommitTimeStamp() time.Time {
	return time.Now().UTC()
}
