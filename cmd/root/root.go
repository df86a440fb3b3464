// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"poupeai/statement-ingestion/internal/common"
	"poupeai/statement-ingestion/internal/config"
	"poupeai/statement-ingestion/internal/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any sub-command runs
	AppConfig *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "statement-ingestion",
		Short: "Ingests OFX bank statements into the core service.",
		Long: `statement-ingestion consumes statement ingestion jobs from the broker,
parses the OFX file of each job, categorizes its transactions and stores them
through the core service. It can also parse local OFX files for inspection.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	// SharedFlags holds the persistent flags of the root command
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.statement-ingestion, .statement-ingestion and .)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Override log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Override log format (text, json)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	config.LoadEnv(logrus.StandardLogger())

	if SharedFlags.LogLevel != "" {
		if err := os.Setenv("INGESTION_LOG_LEVEL", SharedFlags.LogLevel); err != nil {
			return err
		}
	}
	if SharedFlags.LogFormat != "" {
		if err := os.Setenv("INGESTION_LOG_FORMAT", SharedFlags.LogFormat); err != nil {
			return err
		}
	}

	cfg, err := config.InitializeConfigFromFile(SharedFlags.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	AppConfig = cfg
	Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))
	common.SetDelimiter(rune(cfg.CSV.Delimiter[0]))
	return nil
}
