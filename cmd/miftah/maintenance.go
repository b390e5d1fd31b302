// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/masdens1250/MIFTAH/internal/db"
	"github.com/masdens1250/MIFTAH/internal/model"
)

// purgeCmd prunes ledger rows past the retention horizon. Users, agents and
// module snapshots are never purged.
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete security log and command history entries past retention",
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			days = appConfig.Retention.Days
		}
		if days <= 0 {
			log.Fatalf("Retention must be a positive number of days.")
		}

		if err := db.CleanupOldData(days); err != nil {
			log.Fatalf("Purge failed: %v", err)
		}
		_ = db.LogSecurityEvent("INFO", "MIFTAH", "retention_purge",
			fmt.Sprintf("Purged ledger entries older than %d days", days), nil, model.EventRef{})
		fmt.Printf("Purged entries older than %d days.\n", days)
	},
}

// maintenanceCmd runs engine-specific housekeeping on the configured
// database.
var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Run database maintenance (vacuum, optimize)",
	Run: func(cmd *cobra.Command, args []string) {
		if err := db.RunDBMaintenance(appConfig.Database.Type, appConfig.Database.DSN); err != nil {
			log.Fatalf("Maintenance failed: %v", err)
		}
		fmt.Println("Maintenance complete.")
	},
}

func init() {
	purgeCmd.Flags().Int("days", 0, "Retention horizon in days (default from config)")
}
