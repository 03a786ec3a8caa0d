package config

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/internal/cli/output"
	"github.com/marmos91/essentials/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the essentials configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  essentials config validate

  # Validate specific config file
  essentials config validate --config ./essentials.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.MustLoad(configPath)
	if err != nil {
		return err
	}

	displayPath := configPath
	if displayPath == "" {
		displayPath = config.GetDefaultConfigPath()
	}

	p := output.NewPrinter(cmd.OutOrStdout(), output.FormatTable)
	p.Success("Configuration is valid")

	metricsPort := "disabled"
	if cfg.Metrics.Enabled {
		metricsPort = strconv.Itoa(cfg.Metrics.Port)
	}

	if err := output.KeyValue(cmd.OutOrStdout(), [][2]string{
		{"File", displayPath},
		{"Log level", cfg.Logging.Level},
		{"Fetch delay", cfg.Delay.Delay.String()},
		{"File path", cfg.Files.Path},
		{"Server port", strconv.Itoa(cfg.Server.Port)},
		{"Metrics port", metricsPort},
	}); err != nil {
		return err
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Insecure {
		p.Warning("Telemetry uses an insecure connection to " + cfg.Telemetry.Endpoint)
	}
	return nil
}
