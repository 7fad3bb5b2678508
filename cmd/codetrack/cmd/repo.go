// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/codetrack/codetrack/pkg/core"
	"github.com/codetrack/codetrack/pkg/metadata"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// newRepo builds a working tree from the configuration
func newRepo(ctx context.Context, c *CLIConfig) (*core.Repo, error) {
	remote, err := remoteStore(ctx, c)
	if err != nil {
		return nil, err
	}

	opts := []metadata.Option{metadata.Logger(logger)}
	if c.Timeout > 0 {
		opts = append(opts, metadata.Timeout(c.Timeout))
	}
	meta, err := metadata.New(c.API, opts...)
	if err != nil {
		return nil, err
	}

	return core.New(
		core.Fs(afero.NewOsFs()),
		core.Root(c.Path),
		core.Remote(remote),
		core.MetadataService(meta),
		core.Author(c.User),
		core.ConcurrentTransfers(c.Concurrency),
		core.Ignore(c.Ignore...),
		core.Logger(logger),
	)
}

// commandContext is canceled on SIGINT, or once the configured timeout expires
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt)
	if config.Timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, config.Timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

// setupRepo is the common prelude of commands working on a working tree
func setupRepo(cmd *cobra.Command) (context.Context, context.CancelFunc, *core.Repo) {
	ctx, cancel := commandContext(cmd)
	repo, err := newRepo(ctx, config)
	if err != nil {
		cancel()
		wrapFatalln("cannot open working tree", err)
		return nil, nil, nil
	}
	return ctx, cancel, repo
}
