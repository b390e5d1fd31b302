// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package main

import (
	"testing"

	"github.com/masdens1250/MIFTAH/internal/db"
)

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	cmd := newRootCmd()
	if cmd == nil {
		t.Fatalf("newRootCmd returned nil")
	}

	names := []string{"init", "user", "agent", "logs", "modules", "commands", "purge", "maintenance"}
	for _, n := range names {
		found := false
		for _, c := range cmd.Commands() {
			if c.Name() == n {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("expected subcommand %s to be registered", n)
		}
	}

	if cmd.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("expected --config flag")
	}
	if cmd.PersistentFlags().Lookup("db-dsn") == nil {
		t.Fatalf("expected --db-dsn flag")
	}
}

func TestSeedFlow(t *testing.T) {
	appConfig.Security.MasterKey = "seed-test-secret"
	dsn := "file:test_seed?mode=memory&cache=shared"
	if err := db.InitDB("sqlite", dsn, db.SecurityParams{MasterKey: appConfig.Security.MasterKey}); err != nil {
		t.Fatalf("db.InitDB failed: %v", err)
	}

	if err := runCryptoSelfTest(); err != nil {
		t.Fatalf("crypto self-test failed: %v", err)
	}

	seedAdmin()
	seedModules()
	seedAgents()
	seedInitialEvents()

	// Re-running must be harmless.
	seedAdmin()

	u, err := db.GetUserByUsername("admin")
	if err != nil || u == nil {
		t.Fatalf("expected seeded admin account: %v", err)
	}
	mods, err := db.GetModuleStatus("")
	if err != nil || len(mods) != 4 {
		t.Fatalf("expected 4 seeded modules: %v (%d rows)", err, len(mods))
	}
	agents, err := db.GetAgents("")
	if err != nil || len(agents) != 3 {
		t.Fatalf("expected 3 seeded agents: %v (%d rows)", err, len(agents))
	}
	events, err := db.GetSecurityLogs(0, "", "")
	if err != nil || len(events) < 2 {
		t.Fatalf("expected initial security events: %v (%d rows)", err, len(events))
	}
}

func TestFormatDetails_StableOrder(t *testing.T) {
	got := formatDetails(map[string]any{"b": 2, "a": 1, "c": "x"})
	want := "a=1 b=2 c=x"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
