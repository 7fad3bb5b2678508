// Copyright © 2018 One Concern

package storage

import (
	"context"
	"io"
)

const (
	// OverWrite replaces any existing object on Put
	OverWrite = false

	// NoOverWrite fails Put when the object already exists
	NoOverWrite = true
)

// Store implementations know how to write entries to a K/V model.
//
// Typically this is something file system-like. Examples are S3, local FS, NFS, ...
// Implementations of this interface are assumed to be fairly simple.
//
// Keys use "/" as a separator, whatever the backend.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(ctx context.Context, key string, source io.Reader, exclusive bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)

	// KeysPrefix lists at most count keys (0 means no limit) starting with prefix, in lexical order.
	//
	// The returned token resumes the listing, and is empty once all keys have been returned.
	// When a delimiter is specified, keys with a delimiter after the prefix are skipped.
	KeysPrefix(ctx context.Context, pageToken, prefix, delimiter string, count int) ([]string, string, error)
	Clear(context.Context) error
}

// ListPrefix drains all pages of keys starting with prefix
func ListPrefix(ctx context.Context, store Store, prefix string) ([]string, error) {
	var (
		keys  []string
		token string
	)
	for {
		page, next, err := store.KeysPrefix(ctx, token, prefix, "", 0)
		if err != nil {
			return nil, err
		}
		keys = append(keys, page...)
		if next == "" {
			return keys, nil
		}
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		token = next
	}
}
