package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"
)

// CLIConfig describes the CLI configuration.
type CLIConfig struct {
	Path        string        `mapstructure:"path" yaml:"path,omitempty"`
	User        string        `mapstructure:"user" yaml:"user,omitempty"`
	Remote      string        `mapstructure:"remote" yaml:"remote,omitempty"`
	API         string        `mapstructure:"api" yaml:"api,omitempty"`
	S3Region    string        `mapstructure:"s3-region" yaml:"s3-region,omitempty"`
	S3Endpoint  string        `mapstructure:"s3-endpoint" yaml:"s3-endpoint,omitempty"`
	Credential  string        `mapstructure:"credential" yaml:"credential,omitempty"` // Credentials to use for GCS
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency,omitempty"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty"`
	LogLevel    string        `mapstructure:"log-level" yaml:"log-level,omitempty"`
	Ignore      []string      `mapstructure:"ignore" yaml:"ignore,omitempty"`
}

func newConfig(v *viper.Viper) (*CLIConfig, error) {
	var config CLIConfig
	err := v.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// MarshalConfig yields the config as a yaml document
func (c CLIConfig) MarshalConfig() ([]byte, error) {
	// the working tree is a per-invocation setting
	c.Path = ""
	return yaml.Marshal(c)
}

// configFileLocation is where "config set" writes its file
func configFileLocation() string {
	if file := os.Getenv(envConfigLocation); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configName + ".yaml"
	}
	return filepath.Join(home, ".codetrack", configName+".yaml")
}

// configCmd represents the config related commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the CLI config",
	Long: `Commands to manage the codetrack CLI config.

Configuration for codetrack is the common set of flags that are needed for most commands and do not change across runs,
analogous to "git config ...".

Every setting may also be set with an environment variable prefixed by CODETRACK_, e.g. CODETRACK_USER.
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
