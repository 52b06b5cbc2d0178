// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/sdp-connect/internal/config"
	"fjacquet/sdp-connect/internal/container"
	"fjacquet/sdp-connect/internal/logging"
	"fjacquet/sdp-connect/internal/xmlutils"

	"github.com/spf13/cobra"
)

// Flags holds the persistent flags shared by every command.
type Flags struct {
	ConfigFile   string
	SettingsFile string
	LogLevel     string
	LogFormat    string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// ContainerOptions are passed to every container built by commands.
	ContainerOptions []container.Option

	// SharedFlags are the persistent flags of the root command.
	SharedFlags = Flags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "sdp-connect",
		Short: "A CLI tool to submit card top-up registries to the SDP payment service.",
		Long: `sdp-connect reads payment registries produced by cash desks, validates them
against their control line and submits every row to the SDP payment service.

Rows the service does not accept are written to an error registry that can be
corrected and loaded again.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			xmlutils.SetLogger(Log)
			cfg, err := LoadConfig(SharedFlags)
			if err != nil {
				return err
			}
			AppConfig = cfg
			Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
			xmlutils.SetLogger(Log)
			return nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches config.yaml)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.SettingsFile, "settings", "s", "", "Legacy settings.xml overriding paths and agent identity")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text, json)")
}

// LoadConfig builds the configuration from the config file, the environment,
// an optional legacy settings file and the log flags, in that order.
func LoadConfig(flags Flags) (*config.Config, error) {
	cfg, err := config.InitializeConfig(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if flags.SettingsFile != "" {
		settings, err := config.LoadLegacySettings(flags.SettingsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load legacy settings: %w", err)
		}
		settings.Apply(cfg)
	}

	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	return cfg, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return AppConfig
}
