// Copyright © 2018 One Concern

package cmd

import (
	"github.com/codetrack/codetrack/pkg/dlogger"
	"github.com/codetrack/codetrack/pkg/metadata"
	"github.com/spf13/cobra"
)

type flagsT struct {
	init struct {
		repoID string
	}
	log struct {
		local bool
	}
}

var codetrackFlags = flagsT{}

const (
	pathFlag        = "path"
	userFlag        = "user"
	remoteFlag      = "remote"
	apiFlag         = "api"
	s3RegionFlag    = "s3-region"
	s3EndpointFlag  = "s3-endpoint"
	credentialFlag  = "credential"
	concurrencyFlag = "concurrency"
	timeoutFlag     = "timeout"
	logLevelFlag    = "log-level"
	ignoreFlag      = "ignore"
)

// persistent flags are resolved through the configuration (flags, env, config file): their values are read from config

func addPathFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringP(pathFlag, "C", ".", "The root of the working tree")
	return pathFlag
}

func addUserFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(userFlag, "", "The author identity recorded with commits (env: CODETRACK_USER)")
	return userFlag
}

func addRemoteFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(remoteFlag, "", "The remote object store, as in s3://bucket, gs://bucket or file:///path/to/dir")
	return remoteFlag
}

func addAPIFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(apiFlag, metadata.DefaultEndpoint, "The base URL of the commit metadata service")
	return apiFlag
}

func addS3RegionFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(s3RegionFlag, "", "The region of the S3 bucket. Defaults to the AWS environment")
	return s3RegionFlag
}

func addS3EndpointFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(s3EndpointFlag, "", "A custom S3 endpoint, e.g. for minio. Path-style addressing is used")
	return s3EndpointFlag
}

func addCredentialFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(credentialFlag, "", "The path to a GCS credentials file. Defaults to application default credentials")
	return credentialFlag
}

func addConcurrencyFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().Int(concurrencyFlag, 1, "The max number of files transferred at the same time by push and pull")
	return concurrencyFlag
}

func addTimeoutFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().Duration(timeoutFlag, 0, "Abort remote operations after this delay (e.g. 30s, 5m). 0 means no timeout")
	return timeoutFlag
}

func addLogLevelFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().String(logLevelFlag, dlogger.LogLevelWarn, "The logging level. Levels by increasing order of verbosity: none, error, warn, info, debug")
	return logLevelFlag
}

func addIgnoreFlag(cmd *cobra.Command) string {
	cmd.PersistentFlags().StringSlice(ignoreFlag, nil, "Names in the working tree never reported as untracked")
	return ignoreFlag
}

func addRepoIDFlag(cmd *cobra.Command) string {
	repoID := "repo-id"
	cmd.Flags().StringVar(&codetrackFlags.init.repoID, repoID, "", "The identifier of the repository record in the metadata service")
	return repoID
}

func addLocalFlag(cmd *cobra.Command) string {
	local := "local"
	cmd.Flags().BoolVar(&codetrackFlags.log.local, local, false, "List the commits found in the local commit store instead of the recorded history")
	return local
}
