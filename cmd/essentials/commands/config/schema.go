package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/pkg/config"
)

var schemaOutput string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration file",
	Long: `Print the JSON schema (draft 2020-12) describing config.yaml.

Point your editor's YAML language server at it for completion and
inline validation:

  # yaml-language-server: $schema=./essentials.schema.json

Examples:
  essentials config schema
  essentials config schema -o essentials.schema.json`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	schemaCmd.Flags().StringVarP(&schemaOutput, "output", "o", "", "Write to this file instead of stdout")
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := config.JSONSchema()
	if err != nil {
		return err
	}

	if schemaOutput == "" {
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
		return err
	}

	if err := os.WriteFile(schemaOutput, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Schema written to %s\n", schemaOutput)
	return nil
}
