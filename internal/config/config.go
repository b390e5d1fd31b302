// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads and persists the MIFTAH configuration. Precedence,
// highest first: command-line flags, MIFTAH_* environment variables, an
// explicit --config file, miftah.yaml from the standard locations, defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Security  SecurityConfig  `mapstructure:"security" yaml:"security"`
	Retention RetentionConfig `mapstructure:"retention" yaml:"retention"`
	Debug     bool            `mapstructure:"debug" yaml:"debug"`
}

// DatabaseConfig selects the storage backend.
type DatabaseConfig struct {
	Type string `mapstructure:"type" yaml:"type"`
	DSN  string `mapstructure:"dsn" yaml:"dsn"`
}

// SecurityConfig carries the master secret and the lockout policy.
type SecurityConfig struct {
	MasterKey        string `mapstructure:"master_key" yaml:"master_key"`
	MaxLoginAttempts int    `mapstructure:"max_login_attempts" yaml:"max_login_attempts"`
	LockoutMinutes   int    `mapstructure:"lockout_minutes" yaml:"lockout_minutes"`
}

// RetentionConfig controls the ledger purge horizon.
type RetentionConfig struct {
	Days int `mapstructure:"days" yaml:"days"`
}

// Defaults returns the default configuration values, keyed by viper path.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":               "sqlite",
		"database.dsn":                "./miftah.db",
		"security.master_key":         "",
		"security.max_login_attempts": 3,
		"security.lockout_minutes":    15,
		"retention.days":              30,
		"debug":                       false,
	}
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Miftah")
		default: // Linux, macOS, etc.
			configDir = "/etc/miftah"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "miftah")
	}

	return filepath.Join(configDir, "miftah.yaml"), nil
}

// LoadConfig resolves the configuration for the given command. The explicit
// config file path, when non-nil, takes precedence over the standard search
// locations.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("miftah")
	v.SetConfigType("yaml")

	// An explicit config file path has the highest precedence for
	// file-based configuration.
	if configFilePath != nil {
		v.SetConfigFile(*configFilePath)
	}

	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".") // Look for miftah.yaml in current dir

	if err := v.ReadInConfig(); err != nil {
		// It's okay if the file is not found, but other errors are fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("miftah")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists the configuration to the user or system config
// path, creating the directory when missing.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := GetConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may carry the master secret.
	return os.WriteFile(path, data, 0600)
}
