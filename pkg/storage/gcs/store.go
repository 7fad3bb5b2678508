// Copyright © 2018 One Concern

package gcs

import (
	"context"
	"io"

	gcsStorage "cloud.google.com/go/storage"
	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/status"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// PageSize is the maximum number of keys returned by a single listing call
const PageSize = 1000

type gcs struct {
	client     *gcsStorage.Client
	bucket     string
	clientOpts []option.ClientOption
}

// New google cloud storage store
func New(ctx context.Context, bucket string, opts ...Option) (storage.Store, error) {
	if bucket == "" {
		return nil, status.ErrInvalidResource.Wrapf("bucket name is required")
	}
	g := &gcs{bucket: bucket}
	for _, apply := range opts {
		apply(g)
	}
	if g.client == nil {
		var err error
		g.client, err = gcsStorage.NewClient(ctx, append(g.clientOpts, option.WithScopes(gcsStorage.ScopeFullControl))...)
		if err != nil {
			return nil, toSentinelErrors(err)
		}
	}
	return g, nil
}

func (g *gcs) String() string {
	return "gs://" + g.bucket
}

func (g *gcs) object(key string) *gcsStorage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(key)
}

func (g *gcs) Has(ctx context.Context, key string) (bool, error) {
	_, err := g.object(key).Attrs(ctx)
	if err == gcsStorage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, toSentinelErrors(err)
	}
	return true, nil
}

func (g *gcs) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	rdr, err := g.object(key).NewReader(ctx)
	if err != nil {
		return nil, toSentinelErrors(err)
	}
	return rdr, nil
}

func (g *gcs) Put(ctx context.Context, key string, rdr io.Reader, exclusive bool) error {
	obj := g.object(key)
	if exclusive {
		obj = obj.If(gcsStorage.Conditions{DoesNotExist: true})
	}

	// the writer must be closed to commit the object, and the context canceled to abort it
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()

	writer := obj.NewWriter(wctx)
	if _, err := io.Copy(writer, rdr); err != nil {
		cancel()
		_ = writer.Close()
		return toSentinelErrors(err)
	}
	return toSentinelErrors(writer.Close())
}

func (g *gcs) Delete(ctx context.Context, key string) error {
	err := g.object(key).Delete(ctx)
	if err == gcsStorage.ErrObjectNotExist {
		return nil
	}
	return toSentinelErrors(err)
}

func (g *gcs) Keys(ctx context.Context) ([]string, error) {
	return storage.ListPrefix(ctx, g, "")
}

func (g *gcs) KeysPrefix(ctx context.Context, token, prefix, delimiter string, count int) ([]string, string, error) {
	size := PageSize
	if count > 0 && count < PageSize {
		size = count
	}
	it := g.client.Bucket(g.bucket).Objects(ctx, &gcsStorage.Query{
		Prefix:    prefix,
		Delimiter: delimiter,
	})

	var attrs []*gcsStorage.ObjectAttrs
	next, err := iterator.NewPager(it, size, token).NextPage(&attrs)
	if err != nil {
		return nil, "", toSentinelErrors(err)
	}

	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		// with a delimiter, synthetic prefix entries come back with an empty name
		if attr.Name == "" {
			continue
		}
		keys = append(keys, attr.Name)
	}
	return keys, next, nil
}

func (g *gcs) Clear(ctx context.Context) error {
	keys, err := g.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err = g.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
