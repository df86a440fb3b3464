// Package configcmd provides the config command, which prints the effective
// configuration.
package configcmd

import (
	"errors"

	"poupeai/statement-ingestion/cmd/root"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Cmd is the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after merging defaults, the config file and
INGESTION_* environment variables. Secrets are never printed.`,
	RunE: run,
}

func run(cmd *cobra.Command, args []string) error {
	if root.AppConfig == nil {
		return errors.New("configuration not loaded")
	}
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(root.AppConfig); err != nil {
		return err
	}
	return enc.Close()
}
