// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/masdens1250/MIFTAH/internal/crypto"
	"github.com/masdens1250/MIFTAH/internal/db"
	"github.com/masdens1250/MIFTAH/internal/model"
)

// initCmd provisions a fresh deployment: the default admin account, the hub
// module registry, the known field agents and the first ledger entries. It is
// safe to re-run; existing rows are kept.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the database with the default hub inventory",
	Long: `Creates the default admin account, registers the hub modules
(OMEGA, ATLAS, PROLITAGE, MIFTAH) and the known agents, writes the
initial security log entries and runs an encryption self-test.
Re-running against an initialized database is harmless.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runCryptoSelfTest(); err != nil {
			log.Fatalf("Encryption self-test failed: %v", err)
		}
		fmt.Println("Encryption self-test passed.")

		seedAdmin()
		seedModules()
		seedAgents()
		seedInitialEvents()

		fmt.Println("Database initialized.")
	},
}

// runCryptoSelfTest proves the configured master key can round-trip a
// payload before anything sensitive is written under it.
func runCryptoSelfTest() error {
	cipher, err := crypto.NewFieldCipher(appConfig.Security.MasterKey)
	if err != nil {
		return err
	}
	const probe = `{"self_test":"miftah"}`
	blob, err := cipher.Encrypt(probe)
	if err != nil {
		return err
	}
	plain, err := cipher.Decrypt(blob)
	if err != nil {
		return err
	}
	if plain != probe {
		return errors.New("decrypted payload does not match")
	}
	return nil
}

func seedAdmin() {
	const defaultAdminPassword = "sparta2025"
	id, err := db.CreateUser("admin", defaultAdminPassword, "admin@sparta.dz", "admin")
	switch {
	case errors.Is(err, db.ErrDuplicate):
		fmt.Println("Admin account already exists, keeping it.")
		return
	case err != nil:
		log.Fatalf("Failed to create admin account: %v", err)
	}
	fmt.Printf("Created admin account (id %d). Change the default password immediately.\n", id)
}

func seedModules() {
	modules := []struct {
		name    string
		version string
	}{
		{"OMEGA", "2.1.0"},
		{"ATLAS", "1.4.2"},
		{"PROLITAGE", "1.0.7"},
		{"MIFTAH", version},
	}
	for _, m := range modules {
		if err := db.UpdateModuleStatus(m.name, "offline", m.version, nil, nil, ""); err != nil {
			log.Fatalf("Failed to register module %s: %v", m.name, err)
		}
		fmt.Printf("Registered module %s %s\n", m.name, m.version)
	}
}

func seedAgents() {
	agents := []struct {
		id, name, typ, location string
	}{
		{"AGT-001", "Phoenix", "field", "Algiers"},
		{"AGT-002", "Cipher", "cyber", "Oran"},
		{"AGT-003", "Ghost", "recon", "Constantine"},
	}
	for _, a := range agents {
		if err := db.RegisterAgent(a.id, a.name, a.typ, a.location, ""); err != nil {
			log.Fatalf("Failed to register agent %s: %v", a.id, err)
		}
		fmt.Printf("Registered agent %s (%s)\n", a.id, a.name)
	}
}

func seedInitialEvents() {
	session := uuid.NewString()
	events := []struct {
		level, module, eventType, message string
	}{
		{"INFO", "MIFTAH", "system_init", "Database initialized"},
		{"INFO", "MIFTAH", "crypto_selftest", "Encryption self-test passed"},
	}
	for _, e := range events {
		err := db.LogSecurityEvent(e.level, e.module, e.eventType, e.message,
			map[string]any{"version": version}, model.EventRef{SessionID: session})
		if err != nil {
			log.Fatalf("Failed to write initial security log: %v", err)
		}
	}
}
