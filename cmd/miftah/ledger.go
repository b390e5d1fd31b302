// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/masdens1250/MIFTAH/internal/db"
)

// logsCmd prints the security ledger, newest first.
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the security log, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		level, _ := cmd.Flags().GetString("level")
		module, _ := cmd.Flags().GetString("module")

		events, err := db.GetSecurityLogs(limit, level, module)
		if err != nil {
			log.Fatalf("Failed to read security log: %v", err)
		}
		if len(events) == 0 {
			fmt.Println("No events.")
			return
		}
		for _, e := range events {
			line := fmt.Sprintf("%s  %-8s %-10s %-20s %s",
				e.Timestamp.Format("2006-01-02 15:04:05"), e.Level, e.Module, e.EventType, e.Message)
			if e.AgentID != "" {
				line += "  agent=" + e.AgentID
			}
			if e.DetailsUnavailable {
				line += "  [details unavailable]"
			} else if len(e.Details) > 0 {
				line += "  " + formatDetails(e.Details)
			}
			fmt.Println(line)
		}
	},
}

// modulesCmd prints the module registry.
var modulesCmd = &cobra.Command{
	Use:   "modules [name]",
	Short: "Show module health snapshots",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := ""
		if len(args) > 0 {
			name = args[0]
		}

		mods, err := db.GetModuleStatus(name)
		if err != nil {
			log.Fatalf("Failed to read module status: %v", err)
		}
		if len(mods) == 0 {
			fmt.Println("No modules.")
			return
		}
		for _, m := range mods {
			line := fmt.Sprintf("%-12s %-10s %-8s errors=%d", m.ModuleName, m.Status, m.Version, m.ErrorCount)
			if m.LastError != "" {
				line += "  last_error=" + m.LastError
			}
			line += "  updated " + m.LastUpdate.Format("2006-01-02 15:04:05")
			fmt.Println(line)
		}
	},
}

// commandsCmd prints the command ledger, newest first.
var commandsCmd = &cobra.Command{
	Use:   "commands",
	Short: "Show the command history, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		userID, _ := cmd.Flags().GetInt("user")
		module, _ := cmd.Flags().GetString("module")

		recs, err := db.GetCommandHistory(userID, module, limit)
		if err != nil {
			log.Fatalf("Failed to read command history: %v", err)
		}
		if len(recs) == 0 {
			fmt.Println("No commands.")
			return
		}
		for _, r := range recs {
			who := r.Username
			if who == "" {
				who = fmt.Sprintf("user#%d", r.UserID)
			}
			line := fmt.Sprintf("%-5d %s  %-12s %-10s %-20s %s",
				r.ID, r.Timestamp.Format("2006-01-02 15:04:05"), who, r.Module, r.Command, r.Status)
			if r.ExecutionTime > 0 {
				line += fmt.Sprintf("  %.2fs", r.ExecutionTime)
			}
			if r.ParamsUnavailable {
				line += "  [parameters unavailable]"
			} else if len(r.Parameters) > 0 {
				line += "  " + formatDetails(r.Parameters)
			}
			fmt.Println(line)
		}
	},
}

// formatDetails renders a payload map with stable key order.
func formatDetails(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}

func init() {
	logsCmd.Flags().Int("limit", 50, "Maximum number of events")
	logsCmd.Flags().String("level", "", "Only events with this level")
	logsCmd.Flags().String("module", "", "Only events from this module")
	commandsCmd.Flags().Int("limit", 50, "Maximum number of records")
	commandsCmd.Flags().Int("user", 0, "Only commands issued by this user id")
	commandsCmd.Flags().String("module", "", "Only commands for this module")
}
