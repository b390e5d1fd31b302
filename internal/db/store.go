// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/masdens1250/MIFTAH/internal/model"
)

// Store defines the interface for all database operations in MIFTAH.
// This allows for multiple database backends to be implemented.
//
// Every method runs synchronously: statements execute and commit before the
// call returns, and no connection or transaction outlives a call. Conflicting
// concurrent writers are serialized by the storage engine, not by this layer.
type Store interface {
	// Credential methods. AuthenticateUser returns ErrUserNotFound,
	// ErrUserLocked or ErrInvalidPassword on failure; on success it resets
	// the failure counter, clears any lock and stamps last_login before
	// returning the user record.
	CreateUser(username, password, email, role string) (int, error)
	AuthenticateUser(username, password string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	ListUsers() ([]model.User, error)
	SetUserActive(username string, active bool) error

	// Agent methods. RegisterAgent upserts by agent_id and resets the
	// status to offline; UpdateAgentStatus stamps last_seen and keeps the
	// previous location when none is supplied.
	RegisterAgent(agentID, name, agentType, location, ipAddress string) error
	UpdateAgentStatus(agentID, status, location string) error
	GetAgents(status string) ([]model.Agent, error)

	// Security log methods. Details, when present, is encrypted before
	// storage; GetSecurityLogs returns newest first and never aborts on a
	// row whose details cannot be decrypted.
	LogSecurityEvent(level, module, eventType, message string, details map[string]any, ref model.EventRef) error
	GetSecurityLogs(limit int, level, module string) ([]model.SecurityEvent, error)

	// Module status methods. UpdateModuleStatus has upsert semantics:
	// missing optional fields keep their previous value, error_count
	// increments by one only when errMsg is non-empty, and last_error is
	// overwritten unconditionally.
	UpdateModuleStatus(moduleName, status, version string, config, metrics map[string]any, errMsg string) error
	GetModuleStatus(moduleName string) ([]model.ModuleStatus, error)

	// Command ledger methods. LogCommand encrypts parameters and creates
	// the record in the pending state; UpdateCommandResult mutates exactly
	// that record once.
	LogCommand(userID int, module, command string, parameters map[string]any, agentID, sessionID string) (int64, error)
	UpdateCommandResult(commandID int64, status, result string, executionTime float64) error
	GetCommandHistory(userID int, module string, limit int) ([]model.CommandRecord, error)

	// CleanupOldData deletes security log and command history rows older
	// than the given number of days.
	CleanupOldData(days int) error
}

// LockoutPolicy is the brute-force policy applied by AuthenticateUser.
type LockoutPolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// SecurityParams carries the construction-time security configuration for a
// store: the master secret the field-encryption key is derived from and the
// lockout policy. Zero policy fields fall back to the deployment defaults
// (3 attempts, 15 minutes).
type SecurityParams struct {
	MasterKey   string
	MaxAttempts int
	Lockout     time.Duration
}

func (p SecurityParams) policy() LockoutPolicy {
	pol := LockoutPolicy{MaxAttempts: p.MaxAttempts, Window: p.Lockout}
	if pol.MaxAttempts <= 0 {
		pol.MaxAttempts = 3
	}
	if pol.Window <= 0 {
		pol.Window = 15 * time.Minute
	}
	return pol
}
