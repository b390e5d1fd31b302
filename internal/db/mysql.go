// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for MIFTAH.
// This file contains the MySQL implementation of the database store.
package db // import "github.com/masdens1250/MIFTAH/internal/db"

import (
	"github.com/uptrace/bun"

	"github.com/masdens1250/MIFTAH/internal/model"
)

// MySQLStore is the MySQL implementation of the Store interface.
type MySQLStore struct {
	bun  *bun.DB
	deps storeDeps
}

func (s *MySQLStore) CreateUser(username, password, email, role string) (int, error) {
	return CreateUserBun(s.bun, s.deps.hasher, username, password, email, role)
}

func (s *MySQLStore) AuthenticateUser(username, password string) (*model.User, error) {
	return AuthenticateUserBun(s.bun, s.deps.hasher, s.deps.policy, username, password)
}

func (s *MySQLStore) GetUserByUsername(username string) (*model.User, error) {
	return GetUserByUsernameBun(s.bun, username)
}

func (s *MySQLStore) ListUsers() ([]model.User, error) {
	return ListUsersBun(s.bun)
}

func (s *MySQLStore) SetUserActive(username string, active bool) error {
	return SetUserActiveBun(s.bun, username, active)
}

func (s *MySQLStore) RegisterAgent(agentID, name, agentType, location, ipAddress string) error {
	return RegisterAgentBun(s.bun, agentID, name, agentType, location, ipAddress)
}

func (s *MySQLStore) UpdateAgentStatus(agentID, status, location string) error {
	return UpdateAgentStatusBun(s.bun, agentID, status, location)
}

func (s *MySQLStore) GetAgents(status string) ([]model.Agent, error) {
	return GetAgentsBun(s.bun, status)
}

func (s *MySQLStore) LogSecurityEvent(level, module, eventType, message string, details map[string]any, ref model.EventRef) error {
	return LogSecurityEventBun(s.bun, s.deps.cipher, level, module, eventType, message, details, ref)
}

func (s *MySQLStore) GetSecurityLogs(limit int, level, module string) ([]model.SecurityEvent, error) {
	return GetSecurityLogsBun(s.bun, s.deps.cipher, limit, level, module)
}

func (s *MySQLStore) UpdateModuleStatus(moduleName, status, version string, config, metrics map[string]any, errMsg string) error {
	return UpdateModuleStatusBun(s.bun, moduleName, status, version, config, metrics, errMsg)
}

func (s *MySQLStore) GetModuleStatus(moduleName string) ([]model.ModuleStatus, error) {
	return GetModuleStatusBun(s.bun, moduleName)
}

func (s *MySQLStore) LogCommand(userID int, module, command string, parameters map[string]any, agentID, sessionID string) (int64, error) {
	return LogCommandBun(s.bun, s.deps.cipher, userID, module, command, parameters, agentID, sessionID)
}

func (s *MySQLStore) UpdateCommandResult(commandID int64, status, result string, executionTime float64) error {
	return UpdateCommandResultBun(s.bun, commandID, status, result, executionTime)
}

func (s *MySQLStore) GetCommandHistory(userID int, module string, limit int) ([]model.CommandRecord, error) {
	return GetCommandHistoryBun(s.bun, s.deps.cipher, userID, module, limit)
}

func (s *MySQLStore) CleanupOldData(days int) error {
	return CleanupOldDataBun(s.bun, days)
}
