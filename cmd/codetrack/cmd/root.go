// Copyright © 2018 One Concern

package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/codetrack/codetrack/pkg/dlogger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	envPrefix         = "codetrack"
	envConfigLocation = "CODETRACK_CONFIG"
	configName        = "codetrack"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codetrack",
	Short: "codetrack keeps track of versions of the files in a working tree",
	Long: `codetrack keeps track of versions of the files in a working tree.

Files are staged, then committed to a local commit store. Commits are recorded by a metadata
service, and may be pushed to or pulled from a remote object store (S3, GCS or a local directory).

codetrack copies whole files: there is no diffing, merging or branching.
`,
	SilenceUsage: true,
}

var (
	config *CLIConfig
	logger = zap.NewNop()
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		osExit(exitFailure)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	addPathFlag(rootCmd)
	addUserFlag(rootCmd)
	addRemoteFlag(rootCmd)
	addAPIFlag(rootCmd)
	addS3RegionFlag(rootCmd)
	addS3EndpointFlag(rootCmd)
	addCredentialFlag(rootCmd)
	addConcurrencyFlag(rootCmd)
	addTimeoutFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addIgnoreFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
//
// Settings are resolved in this order: flags, environment, config file, defaults.
func initConfig() {
	v := viper.New()
	if err := v.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		wrapFatalln("binding flags", err)
		return
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if file := os.Getenv(envConfigLocation); file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.codetrack")
		v.SetConfigName(configName)
	}

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) && !os.IsNotExist(err) {
		wrapFatalln("reading config file "+v.ConfigFileUsed(), err)
		return
	}

	config, err = newConfig(v)
	if err != nil {
		wrapFatalln("invalid configuration", err)
		return
	}

	logger, err = dlogger.GetLogger(config.LogLevel)
	if err != nil {
		wrapFatalln("invalid log level", err)
		return
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", zap.String("file", used))
	}
}
