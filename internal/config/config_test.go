// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	cfg "github.com/masdens1250/MIFTAH/internal/config"
)

func TestLoadConfig_DefaultsApplied(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "sqlite" || got.Database.DSN != "./miftah.db" {
		t.Fatalf("unexpected database defaults: %+v", got.Database)
	}
	if got.Security.MaxLoginAttempts != 3 || got.Security.LockoutMinutes != 15 {
		t.Fatalf("unexpected security defaults: %+v", got.Security)
	}
	if got.Retention.Days != 30 {
		t.Fatalf("unexpected retention default: %+v", got.Retention)
	}
}

func TestLoadConfig_ReadsExplicitFile(t *testing.T) {
	tmp := t.TempDir()
	yaml := "database:\n  type: postgres\n  dsn: postgresql://user@/miftah\nsecurity:\n  master_key: vault-secret\nretention:\n  days: 30\n"
	file := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), &file)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "postgres" {
		t.Fatalf("expected postgres, got %q", got.Database.Type)
	}
	if got.Security.MasterKey != "vault-secret" {
		t.Fatalf("expected master key from file, got %q", got.Security.MasterKey)
	}
	if got.Retention.Days != 30 {
		t.Fatalf("expected retention 30, got %d", got.Retention.Days)
	}
	// Values the file is silent on keep their defaults.
	if got.Security.MaxLoginAttempts != 3 {
		t.Fatalf("expected default max attempts, got %d", got.Security.MaxLoginAttempts)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	t.Chdir(tmp)
	t.Setenv("MIFTAH_DATABASE_TYPE", "mysql")
	t.Setenv("MIFTAH_SECURITY_MASTER_KEY", "env-secret")

	got, err := cfg.LoadConfig[cfg.Config](&cobra.Command{}, cfg.Defaults(), nil)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if got.Database.Type != "mysql" {
		t.Fatalf("expected env override mysql, got %q", got.Database.Type)
	}
	if got.Security.MasterKey != "env-secret" {
		t.Fatalf("expected env master key, got %q", got.Security.MasterKey)
	}
}

func TestWriteConfigFile_CreatesFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)

	c := cfg.Config{}
	c.Database.Type = "sqlite"
	c.Database.DSN = "./miftah.db"
	c.Retention.Days = 90

	if err := cfg.WriteConfigFile(&c, false); err != nil {
		t.Fatalf("WriteConfigFile failed: %v", err)
	}

	path, err := cfg.GetConfigPath(false)
	if err != nil {
		t.Fatalf("GetConfigPath failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file at %s, stat error: %v", path, err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600 permissions, got %v", info.Mode().Perm())
	}
}
