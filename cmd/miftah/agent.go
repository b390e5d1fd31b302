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

// newAgentCmd groups the agent registry subcommands.
func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Manage the remote agent registry",
	}
	cmd.AddCommand(agentRegisterCmd)
	cmd.AddCommand(agentReportCmd)
	cmd.AddCommand(agentListCmd)
	return cmd
}

var agentRegisterCmd = &cobra.Command{
	Use:   "register <agent-id> <name>",
	Short: "Register or refresh an agent",
	Long: `Registers an agent under its externally assigned id. Re-registering
an existing id updates the record and resets its status to offline
until the agent reports in again.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		agentID, name := args[0], args[1]
		agentType, _ := cmd.Flags().GetString("type")
		location, _ := cmd.Flags().GetString("location")
		ip, _ := cmd.Flags().GetString("ip")

		if err := db.RegisterAgent(agentID, name, agentType, location, ip); err != nil {
			log.Fatalf("Failed to register agent: %v", err)
		}
		_ = db.LogSecurityEvent("INFO", "MIFTAH", "agent_registered",
			fmt.Sprintf("Agent %s registered", agentID), nil, model.EventRef{AgentID: agentID})
		fmt.Printf("Registered agent %s (%s)\n", agentID, name)
	},
}

var agentReportCmd = &cobra.Command{
	Use:   "report <agent-id> <status>",
	Short: "Record an agent status report",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		agentID, status := args[0], args[1]
		location, _ := cmd.Flags().GetString("location")

		if err := db.UpdateAgentStatus(agentID, status, location); err != nil {
			log.Fatalf("Failed to update agent status: %v", err)
		}
		fmt.Printf("Agent %s reported %s\n", agentID, status)
	},
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered agents, most recently seen first",
	Run: func(cmd *cobra.Command, args []string) {
		status, _ := cmd.Flags().GetString("status")

		agents, err := db.GetAgents(status)
		if err != nil {
			log.Fatalf("Failed to list agents: %v", err)
		}
		if len(agents) == 0 {
			fmt.Println("No agents.")
			return
		}
		for _, a := range agents {
			line := fmt.Sprintf("%-10s %-16s %-8s %-10s", a.AgentID, a.Name, a.Type, a.Status)
			if a.Location != "" {
				line += " @" + a.Location
			}
			if !a.LastSeen.IsZero() {
				line += "  seen " + a.LastSeen.Format("2006-01-02 15:04")
			}
			fmt.Println(line)
		}
	},
}

func init() {
	agentRegisterCmd.Flags().String("type", "field", "Agent type (field, cyber, recon)")
	agentRegisterCmd.Flags().String("location", "", "Agent location")
	agentRegisterCmd.Flags().String("ip", "", "Agent IP address")
	agentReportCmd.Flags().String("location", "", "Updated location, keeps the stored one when omitted")
	agentListCmd.Flags().String("status", "", "Only agents with this status")
}
