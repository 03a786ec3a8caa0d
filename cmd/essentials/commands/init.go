package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/internal/cli/prompt"
	"github.com/marmos91/essentials/pkg/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a sample configuration file",
	Long: `Initialize a sample essentials configuration file holding the defaults.

By default, the configuration file is created at $XDG_CONFIG_HOME/essentials/config.yaml.
Use --config to specify a custom path. If the file exists you are asked
before it is overwritten; --force skips the question.

Examples:
  # Initialize with default location
  essentials init

  # Initialize with custom path
  essentials init --config ./essentials.yaml

  # Force overwrite existing config
  essentials init --force`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := GetConfigFile()
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	err := config.InitConfigToPath(path, initForce)
	if errors.Is(err, config.ErrConfigExists) {
		ok, perr := prompt.Confirm(fmt.Sprintf("%s exists. Overwrite", path), false)
		if perr != nil {
			if errors.Is(perr, prompt.ErrNotInteractive) {
				return fmt.Errorf("failed to initialize config: %w", err)
			}
			return perr
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Keeping existing configuration.")
			return nil
		}
		err = config.InitConfigToPath(path, true)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", path)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Edit the configuration file to customize delays, paths and ports")
	_, _ = fmt.Fprintln(out, "  2. Check it with: essentials config validate")
	_, _ = fmt.Fprintf(out, "  3. Or run with it explicitly: essentials serve --config %s\n", path)
	return nil
}
