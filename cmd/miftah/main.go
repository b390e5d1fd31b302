// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// main.go sets up the command-line interface (CLI) for the MIFTAH
// application using the Cobra library. It defines the root command,
// subcommands (like init, user, logs, purge), flags, and the main
// entry point for execution.

package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/masdens1250/MIFTAH/buildvars"
	"github.com/masdens1250/MIFTAH/internal/config"
	"github.com/masdens1250/MIFTAH/internal/db"
	"github.com/masdens1250/MIFTAH/internal/logging"
)

var version = buildvars.VersionOrDefault("dev")
var cfgFile string

var appConfig config.Config

// main is the entry point of the application.
func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	rootCmd = newRootCmd()
}

// newRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "miftah",
		Short: "MIFTAH is the secure credential and audit store of the SPARTA hub.",
		Long: `MIFTAH keeps the SPARTA hub's operator accounts, agent registry,
module health snapshots and encrypted audit ledgers in one database.
Sensitive payloads are encrypted at rest with a key derived from the
master secret; the security log and command history are append-only.`,
		SilenceUsage:      true,
		PersistentPreRunE: setupServices,
	}

	cmd.AddCommand(initCmd)
	cmd.AddCommand(newUserCmd())
	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(logsCmd)
	cmd.AddCommand(modulesCmd)
	cmd.AddCommand(commandsCmd)
	cmd.AddCommand(purgeCmd)
	cmd.AddCommand(maintenanceCmd)

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is miftah.yaml in the config dir or current dir)")
	cmd.PersistentFlags().String("db-type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.PersistentFlags().String("db-dsn", "./miftah.db", "Database connection string (DSN)")
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Bind flags to viper paths so they participate in config precedence.
	_ = viper.BindPFlag("database.type", cmd.PersistentFlags().Lookup("db-type"))
	_ = viper.BindPFlag("database.dsn", cmd.PersistentFlags().Lookup("db-dsn"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))

	return cmd
}

// setupServices loads the configuration and initializes the store for every
// subcommand.
func setupServices(cmd *cobra.Command, args []string) error {
	var optionalConfigPath *string
	if cfgFile != "" {
		optionalConfigPath = &cfgFile
	}

	var err error
	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), optionalConfigPath)
	if err != nil {
		// A "file not found" error is expected on first run; anything else is fatal.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("error loading config: %w", err)
		}
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		}
	}

	logging.SetDebug(appConfig.Debug)
	db.SetDebug(appConfig.Debug)

	if appConfig.Security.MasterKey == "" {
		return errors.New("no master key configured: set security.master_key or MIFTAH_SECURITY_MASTER_KEY")
	}

	sec := db.SecurityParams{
		MasterKey:   appConfig.Security.MasterKey,
		MaxAttempts: appConfig.Security.MaxLoginAttempts,
		Lockout:     time.Duration(appConfig.Security.LockoutMinutes) * time.Minute,
	}
	if err := db.InitDB(appConfig.Database.Type, appConfig.Database.DSN, sec); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	return nil
}
