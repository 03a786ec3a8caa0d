package config

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/internal/cli/output"
	"github.com/marmos91/essentials/pkg/config"
)

var showOutput string

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration the run commands would use: the file (if any),
then ESSENTIALS_* environment variables, then built-in defaults.

Examples:
  # Show as YAML
  essentials config show

  # Show as JSON
  essentials config show --output json`,
	Args: cobra.NoArgs,
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVarP(&showOutput, "output", "o", "yaml", "Output format (yaml|json)")
}

func runShow(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(showOutput)
	if err != nil {
		return err
	}
	if format == output.FormatTable {
		return fmt.Errorf("config show supports yaml and json output")
	}

	configPath, _ := cmd.Flags().GetString("config")
	loader := config.NewLoader(configPath)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	source := "built-in defaults"
	if path, found := loader.ConfigFile(); found {
		source = path
	}
	if format == output.FormatYAML {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", source)
	}

	return output.NewPrinter(cmd.OutOrStdout(), format).Print(cfg)
}
