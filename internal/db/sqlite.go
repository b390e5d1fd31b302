// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for MIFTAH.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/masdens1250/MIFTAH/internal/db"

import (
	"github.com/uptrace/bun"

	"github.com/masdens1250/MIFTAH/internal/model"
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun  *bun.DB
	deps storeDeps
}

// CreateUser provisions a new operator account.
func (s *SqliteStore) CreateUser(username, password, email, role string) (int, error) {
	return CreateUserBun(s.bun, s.deps.hasher, username, password, email, role)
}

// AuthenticateUser runs the credential check and lockout state machine.
func (s *SqliteStore) AuthenticateUser(username, password string) (*model.User, error) {
	return AuthenticateUserBun(s.bun, s.deps.hasher, s.deps.policy, username, password)
}

// GetUserByUsername retrieves a user record by username.
func (s *SqliteStore) GetUserByUsername(username string) (*model.User, error) {
	return GetUserByUsernameBun(s.bun, username)
}

// ListUsers retrieves all user records.
func (s *SqliteStore) ListUsers() ([]model.User, error) {
	return ListUsersBun(s.bun)
}

// SetUserActive activates or deactivates an account.
func (s *SqliteStore) SetUserActive(username string, active bool) error {
	return SetUserActiveBun(s.bun, username, active)
}

// RegisterAgent upserts a remote agent by its agent id.
func (s *SqliteStore) RegisterAgent(agentID, name, agentType, location, ipAddress string) error {
	return RegisterAgentBun(s.bun, agentID, name, agentType, location, ipAddress)
}

// UpdateAgentStatus records an agent heartbeat/report.
func (s *SqliteStore) UpdateAgentStatus(agentID, status, location string) error {
	return UpdateAgentStatusBun(s.bun, agentID, status, location)
}

// GetAgents lists agents, optionally filtered by status.
func (s *SqliteStore) GetAgents(status string) ([]model.Agent, error) {
	return GetAgentsBun(s.bun, status)
}

// LogSecurityEvent appends an event to the security ledger.
func (s *SqliteStore) LogSecurityEvent(level, module, eventType, message string, details map[string]any, ref model.EventRef) error {
	return LogSecurityEventBun(s.bun, s.deps.cipher, level, module, eventType, message, details, ref)
}

// GetSecurityLogs retrieves security events, newest first.
func (s *SqliteStore) GetSecurityLogs(limit int, level, module string) ([]model.SecurityEvent, error) {
	return GetSecurityLogsBun(s.bun, s.deps.cipher, limit, level, module)
}

// UpdateModuleStatus upserts a module health snapshot.
func (s *SqliteStore) UpdateModuleStatus(moduleName, status, version string, config, metrics map[string]any, errMsg string) error {
	return UpdateModuleStatusBun(s.bun, moduleName, status, version, config, metrics, errMsg)
}

// GetModuleStatus retrieves module snapshots.
func (s *SqliteStore) GetModuleStatus(moduleName string) ([]model.ModuleStatus, error) {
	return GetModuleStatusBun(s.bun, moduleName)
}

// LogCommand records an issued operator command and returns its id.
func (s *SqliteStore) LogCommand(userID int, module, command string, parameters map[string]any, agentID, sessionID string) (int64, error) {
	return LogCommandBun(s.bun, s.deps.cipher, userID, module, command, parameters, agentID, sessionID)
}

// UpdateCommandResult applies the execution outcome to a command record.
func (s *SqliteStore) UpdateCommandResult(commandID int64, status, result string, executionTime float64) error {
	return UpdateCommandResultBun(s.bun, commandID, status, result, executionTime)
}

// GetCommandHistory retrieves command records, newest first.
func (s *SqliteStore) GetCommandHistory(userID int, module string, limit int) ([]model.CommandRecord, error) {
	return GetCommandHistoryBun(s.bun, s.deps.cipher, userID, module, limit)
}

// CleanupOldData prunes ledger rows older than the given number of days.
func (s *SqliteStore) CleanupOldData(days int) error {
	return CleanupOldDataBun(s.bun, days)
}
