// Package commands implements the essentials CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/cmd/essentials/commands/config"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "essentials",
	Short: "Async delay, file lifecycle and static HTTP routing demos",
	Long: `essentials runs three small, independent programs:

  fetch   wait on a simulated slow data source and log the result
  files   write, read, append to and delete a file, stopping at the first error
  serve   answer GET / and GET /about with fixed text on port 3000

Every command works without a configuration file. Use "essentials init" to
write one with the defaults, and ESSENTIALS_* environment variables to
override single values.

Use "essentials [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/essentials/config.yaml)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(completionCmd)

	// Replaced by our own completion command.
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}
