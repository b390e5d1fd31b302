// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/masdens1250/MIFTAH/internal/db"
	"github.com/masdens1250/MIFTAH/internal/model"
)

// newUserCmd groups the operator account subcommands.
func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(userCreateCmd)
	cmd.AddCommand(userListCmd)
	cmd.AddCommand(userActivateCmd)
	cmd.AddCommand(userDeactivateCmd)
	cmd.AddCommand(userLoginCmd)
	return cmd
}

var userCreateCmd = &cobra.Command{
	Use:   "create <username>",
	Short: "Create a new operator account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")

		password, err := promptForNewPassword()
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}

		id, err := db.CreateUser(username, password, email, role)
		if errors.Is(err, db.ErrDuplicate) {
			log.Fatalf("A user named %q already exists.", username)
		}
		if err != nil {
			log.Fatalf("Failed to create user: %v", err)
		}
		fmt.Printf("Created user %s (id %d, role %s)\n", username, id, role)
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all operator accounts",
	Run: func(cmd *cobra.Command, args []string) {
		users, err := db.ListUsers()
		if err != nil {
			log.Fatalf("Failed to list users: %v", err)
		}
		if len(users) == 0 {
			fmt.Println("No users.")
			return
		}
		for _, u := range users {
			state := "active"
			if !u.IsActive {
				state = "inactive"
			}
			line := fmt.Sprintf("%-4d %-20s %-10s %s", u.ID, u.Username, u.Role, state)
			if !u.LastLogin.IsZero() {
				line += "  last login " + u.LastLogin.Format("2006-01-02 15:04")
			}
			fmt.Println(line)
		}
	},
}

var userActivateCmd = &cobra.Command{
	Use:   "activate <username>",
	Short: "Re-activate a deactivated account",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setActive(args[0], true)
	},
}

var userDeactivateCmd = &cobra.Command{
	Use:   "deactivate <username>",
	Short: "Deactivate an account without deleting it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setActive(args[0], false)
	},
}

// userLoginCmd verifies a credential pair against the store. All failure
// modes collapse to one message so the prompt never leaks whether the
// account exists or is locked.
var userLoginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Verify a credential pair",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		username := args[0]
		password, err := promptForPassword()
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}

		u, err := db.AuthenticateUser(username, password)
		if err != nil {
			_ = db.LogSecurityEvent("WARNING", "MIFTAH", "login_failed",
				fmt.Sprintf("Failed login for %s", username), nil, model.EventRef{})
			log.Fatalf("Access denied.")
		}
		_ = db.LogSecurityEvent("INFO", "MIFTAH", "login_success",
			fmt.Sprintf("Login for %s", username), nil, model.EventRef{UserID: u.ID})
		fmt.Printf("Access granted: %s (role %s)\n", u.Username, u.Role)
	},
}

func setActive(username string, active bool) {
	err := db.SetUserActive(username, active)
	if errors.Is(err, db.ErrUserNotFound) {
		log.Fatalf("No user named %q.", username)
	}
	if err != nil {
		log.Fatalf("Failed to update user: %v", err)
	}
	if active {
		fmt.Printf("User %s activated.\n", username)
	} else {
		fmt.Printf("User %s deactivated.\n", username)
	}
}

// promptForPassword reads a single password without echo.
func promptForPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// promptForNewPassword reads a password twice without echo and requires both
// entries to match.
func promptForNewPassword() (string, error) {
	first, err := promptForPassword()
	if err != nil {
		return "", err
	}
	fmt.Print("Repeat password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	if first != string(second) {
		return "", errors.New("passwords do not match")
	}
	if strings.TrimSpace(first) == "" {
		return "", errors.New("password must not be empty")
	}
	return first, nil
}

func init() {
	userCreateCmd.Flags().String("email", "", "Email address for the account")
	userCreateCmd.Flags().String("role", "operator", "Role (admin, operator)")
}
