package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/raven-actions/internal/config"
	"github.com/aidanlsb/raven-actions/internal/ui"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default config file",
	Long: `Write a default config.toml at the --config path, or the default location.
An existing file is left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault(config.ResolveConfigPath(configPath))
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]string{"config": path}, nil)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success("Config at "+ui.FilePath(path)))
		fmt.Fprintln(cmd.OutOrStdout(), ui.Hint("Set vault = \"/path/to/vault\" to get started."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
