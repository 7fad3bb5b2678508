package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var configSetCmd = &cobra.Command{
	Aliases: []string{"create"},
	Use:     "set",
	Short:   "Create a local config file",
	Long: `Creates a local config file holding flags that do not change, like the author identity or the remote object store.

By default, this configuration file will be placed in $HOME/.codetrack/codetrack.yaml.

Use the ` + envConfigLocation + ` environment variable to change this default target.
`,
	Example: `# Set the author identity and the remote
% codetrack config set --user 64f0c0ffee --remote s3://my-bucket --s3-region us-west-2
config file created in /home/me/.codetrack/codetrack.yaml

# Generate config in some non-default location
% ` + envConfigLocation + `=~/.config/codetrack.yaml codetrack config set --api https://codetrack.example.com
config file created in /home/me/.config/codetrack.yaml
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		file := configFileLocation()

		if ext := filepath.Ext(file); ext != ".yaml" && ext != ".yml" {
			logger.Sugar().Warnf("the generated config file will contain a yaml document, but the file extension is %q", ext)
		}
		o, err := config.MarshalConfig()
		if err != nil {
			wrapFatalln("could not serialize config to yaml", err)
			return
		}

		fs := afero.NewOsFs()
		if err = fs.MkdirAll(filepath.Dir(file), 0700); err != nil && !os.IsExist(err) {
			wrapFatalln("could not create directory to hold config "+filepath.Dir(file), err)
			return
		}

		if err = afero.WriteFile(fs, file, o, 0600); err != nil {
			wrapFatalln("error writing config file "+file, err)
			return
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "config file created in %s\n", file)
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}
