// Package metadata is a client for the commit metadata service.
//
// The service keeps the history of commits for a repository (message, author, timestamp).
// It knows nothing about the content of commits, which lives in the local commit store
// and in the remote object store.
package metadata
