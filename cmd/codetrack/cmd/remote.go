// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/codetrack/codetrack/pkg/core/status"
	"github.com/codetrack/codetrack/pkg/storage"
	"github.com/codetrack/codetrack/pkg/storage/gcs"
	"github.com/codetrack/codetrack/pkg/storage/localfs"
	"github.com/codetrack/codetrack/pkg/storage/sthree"
	"github.com/spf13/afero"
)

const (
	schemeS3   = "s3"
	schemeGCS  = "gs"
	schemeFile = "file"
)

// remoteStore selects the remote object store backend from the scheme of the configured URL.
//
// No remote yields a nil store: commands which need one fail later on.
func remoteStore(ctx context.Context, c *CLIConfig) (storage.Store, error) {
	if c.Remote == "" {
		return nil, nil
	}

	u, err := url.Parse(c.Remote)
	if err != nil {
		return nil, status.ErrConfigMissing.Wrap(fmt.Errorf("invalid remote %q: %w", c.Remote, err))
	}

	switch u.Scheme {
	case schemeS3, schemeGCS:
		if u.Host == "" {
			return nil, status.ErrConfigMissing.Wrapf(fmt.Sprintf("invalid remote %q: a bucket is required", c.Remote))
		}
		if p := strings.Trim(u.Path, "/"); p != "" {
			return nil, status.ErrConfigMissing.Wrapf(fmt.Sprintf("invalid remote %q: prefixes within a bucket are not supported", c.Remote))
		}
		if u.Scheme == schemeS3 {
			return sthree.New(
				sthree.Bucket(u.Host),
				sthree.Region(c.S3Region),
				sthree.Endpoint(c.S3Endpoint),
			)
		}
		return gcs.New(ctx, u.Host, gcs.CredentialsFile(c.Credential))

	case schemeFile:
		dir := filepath.FromSlash(u.Path)
		if u.Host != "" && u.Host != "localhost" {
			// file://relative/dir
			dir = filepath.Join(u.Host, dir)
		}
		if dir == "" {
			return nil, status.ErrConfigMissing.Wrapf(fmt.Sprintf("invalid remote %q: a directory is required", c.Remote))
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		return localfs.New(afero.NewBasePathFs(afero.NewOsFs(), abs)), nil

	default:
		return nil, status.ErrConfigMissing.Wrapf(fmt.Sprintf("unsupported remote %q: expect s3://, gs:// or file:// URL", c.Remote))
	}
}
