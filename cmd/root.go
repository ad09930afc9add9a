package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Global flags, overridable through PLASMA_SIM_* environment variables
	logLevel   string // Log verbosity level
	configPath string // YAML generation config; empty means built-in defaults
	dbPath     string // SQLite dataset store
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "plasma-sim",
	Short: "Synthetic plasma-spectroscopy dataset generator",
	Long: "Draws emission parameters from a prior, pushes them through the line-of-sight " +
		"spectroscopy forward model and adds measurement noise. Datasets are written as " +
		"named-array JSON documents or kept in a SQLite store.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyEnv(cmd)

		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// applyEnv fills every global flag the user did not set from the environment.
func applyEnv(cmd *cobra.Command) {
	envCfg, err := parseEnv()
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	flags := cmd.Flags()
	if !flags.Changed("log") {
		logLevel = envCfg.LogLevel
	}
	if !flags.Changed("config") && envCfg.ConfigPath != "" {
		configPath = envCfg.ConfigPath
	}
	if !flags.Changed("db") {
		dbPath = envCfg.DBPath
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up global flags; subcommands register themselves in their own files
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Generation config YAML (default: built-in reference configuration)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "plasma-sim.db", "SQLite dataset store")
}
