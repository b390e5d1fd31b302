// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/masdens1250/MIFTAH/internal/crypto"
	"github.com/masdens1250/MIFTAH/internal/logging"
	"github.com/masdens1250/MIFTAH/internal/model"
	"github.com/masdens1250/MIFTAH/internal/security"
)

// nowFunc allows tests to control the clock used for write-time stamps and
// lockout arithmetic.
var nowFunc = time.Now

// UserModel maps the `users` table for Bun queries.
type UserModel struct {
	bun.BaseModel  `bun:"table:users"`
	ID             int            `bun:"id,pk,autoincrement"`
	Username       string         `bun:"username"`
	PasswordHash   string         `bun:"password_hash"`
	Email          sql.NullString `bun:"email"`
	Role           string         `bun:"role"`
	IsActive       bool           `bun:"is_active"`
	LastLogin      sql.NullTime   `bun:"last_login"`
	FailedAttempts int            `bun:"failed_attempts"`
	LockedUntil    sql.NullTime   `bun:"locked_until"`
	CreatedAt      time.Time      `bun:"created_at"`
}

// AgentModel maps the `agents` table.
type AgentModel struct {
	bun.BaseModel     `bun:"table:agents"`
	ID                int            `bun:"id,pk,autoincrement"`
	AgentID           string         `bun:"agent_id"`
	Name              string         `bun:"name"`
	Type              string         `bun:"type"`
	Status            string         `bun:"status"`
	Location          sql.NullString `bun:"location"`
	IPAddress         sql.NullString `bun:"ip_address"`
	LastSeen          sql.NullTime   `bun:"last_seen"`
	HeartbeatInterval int            `bun:"heartbeat_interval"`
	Config            sql.NullString `bun:"config"`
}

// SecurityLogModel maps the append-only `security_logs` ledger.
type SecurityLogModel struct {
	bun.BaseModel    `bun:"table:security_logs"`
	ID               int            `bun:"id,pk,autoincrement"`
	Timestamp        time.Time      `bun:"timestamp"`
	Level            string         `bun:"level"`
	Module           string         `bun:"module"`
	EventType        string         `bun:"event_type"`
	Message          string         `bun:"message"`
	EncryptedDetails sql.NullString `bun:"encrypted_details"`
	UserID           sql.NullInt64  `bun:"user_id"`
	AgentID          sql.NullString `bun:"agent_id"`
	IPAddress        sql.NullString `bun:"ip_address"`
	SessionID        sql.NullString `bun:"session_id"`
}

// ModuleStatusModel maps the `module_status` snapshot table.
type ModuleStatusModel struct {
	bun.BaseModel `bun:"table:module_status"`
	ID            int            `bun:"id,pk,autoincrement"`
	ModuleName    string         `bun:"module_name"`
	Status        string         `bun:"status"`
	Version       sql.NullString `bun:"version"`
	Config        sql.NullString `bun:"config"`
	LastUpdate    time.Time      `bun:"last_update"`
	ErrorCount    int            `bun:"error_count"`
	LastError     sql.NullString `bun:"last_error"`
	Metrics       sql.NullString `bun:"metrics"`
	IsEnabled     bool           `bun:"is_enabled"`
}

// CommandHistoryModel maps the `command_history` ledger.
type CommandHistoryModel struct {
	bun.BaseModel    `bun:"table:command_history"`
	ID               int64           `bun:"id,pk,autoincrement"`
	Timestamp        time.Time       `bun:"timestamp"`
	UserID           int             `bun:"user_id"`
	Module           string          `bun:"module"`
	Command          string          `bun:"command"`
	Parameters       sql.NullString  `bun:"parameters"`
	Status           string          `bun:"status"`
	Result           sql.NullString  `bun:"result"`
	EncryptedPayload sql.NullString  `bun:"encrypted_payload"`
	ExecutionTime    sql.NullFloat64 `bun:"execution_time"`
	AgentID          sql.NullString  `bun:"agent_id"`
	SessionID        sql.NullString  `bun:"session_id"`
}

// --- Mapping helpers (centralized conversions) ---

func userModelToModel(u UserModel) model.User {
	m := model.User{
		ID:             u.ID,
		Username:       u.Username,
		PasswordHash:   u.PasswordHash,
		Role:           u.Role,
		IsActive:       u.IsActive,
		FailedAttempts: u.FailedAttempts,
		CreatedAt:      u.CreatedAt,
	}
	if u.Email.Valid {
		m.Email = u.Email.String
	}
	if u.LastLogin.Valid {
		m.LastLogin = u.LastLogin.Time
	}
	if u.LockedUntil.Valid {
		m.LockedUntil = u.LockedUntil.Time
	}
	return m
}

func agentModelToModel(a AgentModel) model.Agent {
	m := model.Agent{
		ID:                a.ID,
		AgentID:           a.AgentID,
		Name:              a.Name,
		Type:              a.Type,
		Status:            a.Status,
		HeartbeatInterval: a.HeartbeatInterval,
	}
	if a.Location.Valid {
		m.Location = a.Location.String
	}
	if a.IPAddress.Valid {
		m.IPAddress = a.IPAddress.String
	}
	if a.LastSeen.Valid {
		m.LastSeen = a.LastSeen.Time
	}
	if a.Config.Valid {
		if cfg, err := decodePayload(a.Config.String); err == nil {
			m.Config = cfg
		}
	}
	return m
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// encodePayload serializes a structured payload for storage. Nil payloads
// serialize to the empty string so absent stays absent.
func encodePayload(payload map[string]any) (string, error) {
	if payload == nil {
		return "", nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodePayload(data string) (map[string]any, error) {
	if data == "" {
		return nil, nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// --- User / credential helpers ---

// CreateUserBun hashes the password and inserts a new user row in the
// active, unlocked state. Returns ErrDuplicate for an existing username.
func CreateUserBun(bdb *bun.DB, hasher *security.Hasher, username, password, email, role string) (int, error) {
	ctx := context.Background()
	hash, err := hasher.Hash(password)
	if err != nil {
		return 0, err
	}
	um := &UserModel{
		Username:     username,
		PasswordHash: hash,
		Email:        nullString(email),
		Role:         role,
		IsActive:     true,
		CreatedAt:    nowFunc().UTC(),
	}
	// Use Bun's NewInsert with Returning to support Postgres and MySQL.
	if _, err := bdb.NewInsert().Model(um).
		Column("username", "password_hash", "email", "role", "is_active", "created_at").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return um.ID, nil
}

// GetUserByUsernameBun retrieves a user by username regardless of active
// status. Returns (nil, nil) when absent.
func GetUserByUsernameBun(bdb *bun.DB, username string) (*model.User, error) {
	ctx := context.Background()
	var um UserModel
	err := bdb.NewSelect().Model(&um).Where("username = ?", username).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	m := userModelToModel(um)
	return &m, nil
}

// ListUsersBun returns all users ordered by username.
func ListUsersBun(bdb *bun.DB) ([]model.User, error) {
	ctx := context.Background()
	var ums []UserModel
	if err := bdb.NewSelect().Model(&ums).OrderExpr("username").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.User, 0, len(ums))
	for _, u := range ums {
		out = append(out, userModelToModel(u))
	}
	return out, nil
}

// SetUserActiveBun soft-activates or deactivates a user. Users are never
// physically deleted.
func SetUserActiveBun(bdb *bun.DB, username string, active bool) error {
	ctx := context.Background()
	res, err := ExecRaw(ctx, bdb, "UPDATE users SET is_active = ? WHERE username = ?", active, username)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AuthenticateUserBun runs the authentication state machine inside one
// transaction: look up the active user, refuse a locked account without
// touching the hash, then verify and persist the resulting transition
// (counter reset + last_login on success, increment and possible lock on
// failure) before returning.
func AuthenticateUserBun(bdb *bun.DB, hasher *security.Hasher, policy LockoutPolicy, username, password string) (*model.User, error) {
	ctx := context.Background()
	var out *model.User
	err := WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		var um UserModel
		err := tx.NewSelect().Model(&um).
			Where("username = ?", username).
			Where("is_active = ?", true).
			Limit(1).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			return err
		}

		now := nowFunc().UTC()
		if um.LockedUntil.Valid && um.LockedUntil.Time.After(now) {
			return ErrUserLocked
		}

		if verr := hasher.Verify(um.PasswordHash, password); verr != nil {
			failed := um.FailedAttempts + 1
			var lockedUntil sql.NullTime
			if failed >= policy.MaxAttempts {
				lockedUntil = sql.NullTime{Time: now.Add(policy.Window), Valid: true}
			}
			if _, uerr := ExecRaw(ctx, tx,
				"UPDATE users SET failed_attempts = ?, locked_until = ? WHERE id = ?",
				failed, lockedUntil, um.ID); uerr != nil {
				return uerr
			}
			if lockedUntil.Valid {
				return ErrUserLocked
			}
			return ErrInvalidPassword
		}

		if _, uerr := ExecRaw(ctx, tx,
			"UPDATE users SET failed_attempts = 0, locked_until = NULL, last_login = ? WHERE id = ?",
			now, um.ID); uerr != nil {
			return uerr
		}
		um.FailedAttempts = 0
		um.LockedUntil = sql.NullTime{}
		um.LastLogin = sql.NullTime{Time: now, Valid: true}
		m := userModelToModel(um)
		out = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// --- Agent helpers ---

// defaultAgentConfig is the config blob written at registration time.
func defaultAgentConfig(heartbeat int) string {
	cfg, _ := encodePayload(map[string]any{
		"heartbeat_interval": heartbeat,
		"encryption_enabled": true,
		"auto_update":        true,
	})
	return cfg
}

// RegisterAgentBun upserts an agent by its externally assigned agent_id.
// Registration always resets the status to offline; a returning agent must
// report in again before it counts as active.
func RegisterAgentBun(bdb *bun.DB, agentID, name, agentType, location, ipAddress string) error {
	ctx := context.Background()
	const heartbeat = 30
	cfg := defaultAgentConfig(heartbeat)
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		var existingID int
		err := tx.NewSelect().Model((*AgentModel)(nil)).Column("id").
			Where("agent_id = ?", agentID).Limit(1).Scan(ctx, &existingID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err := ExecRaw(ctx, tx,
				"INSERT INTO agents (agent_id, name, type, status, location, ip_address, heartbeat_interval, config) VALUES (?, ?, ?, 'offline', ?, ?, ?, ?)",
				agentID, name, agentType, nullString(location), nullString(ipAddress), heartbeat, cfg)
			return MapDBError(err)
		case err != nil:
			return err
		default:
			_, err := ExecRaw(ctx, tx,
				"UPDATE agents SET name = ?, type = ?, status = 'offline', location = ?, ip_address = ?, heartbeat_interval = ?, config = ? WHERE id = ?",
				name, agentType, nullString(location), nullString(ipAddress), heartbeat, cfg, existingID)
			return err
		}
	})
}

// UpdateAgentStatusBun records a heartbeat/report: status changes, last_seen
// is stamped, and the location is kept when the report carries none.
func UpdateAgentStatusBun(bdb *bun.DB, agentID, status, location string) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, bdb,
		"UPDATE agents SET status = ?, last_seen = ?, location = COALESCE(?, location) WHERE agent_id = ?",
		status, nowFunc().UTC(), nullString(location), agentID)
	return err
}

// GetAgentsBun returns agents, most recently seen first, optionally
// filtered by status.
func GetAgentsBun(bdb *bun.DB, status string) ([]model.Agent, error) {
	ctx := context.Background()
	var ams []AgentModel
	q := bdb.NewSelect().Model(&ams).OrderExpr("last_seen DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Agent, 0, len(ams))
	for _, a := range ams {
		out = append(out, agentModelToModel(a))
	}
	return out, nil
}

// --- Security log helpers ---

// LogSecurityEventBun appends one event to the security ledger. The
// structured details payload is encrypted before it touches the database;
// when encryption fails nothing is written, so the ledger never holds a
// record whose ciphertext does not match what the caller supplied.
func LogSecurityEventBun(bdb *bun.DB, cipher *crypto.FieldCipher, level, module, eventType, message string, details map[string]any, ref model.EventRef) error {
	ctx := context.Background()

	plain, err := encodePayload(details)
	if err != nil {
		return err
	}
	encrypted, err := cipher.Encrypt(plain)
	if err != nil {
		return err
	}

	var userID sql.NullInt64
	if ref.UserID != 0 {
		userID = sql.NullInt64{Int64: int64(ref.UserID), Valid: true}
	}
	_, err = ExecRaw(ctx, bdb,
		"INSERT INTO security_logs (timestamp, level, module, event_type, message, encrypted_details, user_id, agent_id, ip_address, session_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		nowFunc().UTC(), level, module, eventType, message,
		nullString(encrypted), userID, nullString(ref.AgentID), nullString(ref.IPAddress), nullString(ref.SessionID))
	return err
}

// GetSecurityLogsBun returns events newest first, optionally filtered by
// level and module. Details are decrypted opportunistically: a row whose
// blob no longer decrypts is returned with DetailsUnavailable set instead
// of aborting the whole page.
func GetSecurityLogsBun(bdb *bun.DB, cipher *crypto.FieldCipher, limit int, level, module string) ([]model.SecurityEvent, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}
	var rows []SecurityLogModel
	q := bdb.NewSelect().Model(&rows)
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if module != "" {
		q = q.Where("module = ?", module)
	}
	if err := q.OrderExpr("timestamp DESC, id DESC").Limit(limit).Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]model.SecurityEvent, 0, len(rows))
	for _, r := range rows {
		ev := model.SecurityEvent{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Level:     r.Level,
			Module:    r.Module,
			EventType: r.EventType,
			Message:   r.Message,
		}
		if r.UserID.Valid {
			ev.UserID = int(r.UserID.Int64)
		}
		if r.AgentID.Valid {
			ev.AgentID = r.AgentID.String
		}
		if r.IPAddress.Valid {
			ev.IPAddress = r.IPAddress.String
		}
		if r.SessionID.Valid {
			ev.SessionID = r.SessionID.String
		}
		if r.EncryptedDetails.Valid && r.EncryptedDetails.String != "" {
			plain, derr := cipher.Decrypt(r.EncryptedDetails.String)
			if derr != nil {
				logging.Warnf("security log %d: undecryptable details: %v", r.ID, derr)
				ev.DetailsUnavailable = true
			} else if details, perr := decodePayload(plain); perr != nil {
				logging.Warnf("security log %d: undecodable details: %v", r.ID, perr)
				ev.DetailsUnavailable = true
			} else {
				ev.Details = details
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

// --- Module status helpers ---

// UpdateModuleStatusBun upserts a module health snapshot keyed by
// module_name. Optional fields keep the previous value when absent;
// last_error always reflects this call, and error_count grows by one only
// when an error was supplied.
func UpdateModuleStatusBun(bdb *bun.DB, moduleName, status, version string, config, metrics map[string]any, errMsg string) error {
	ctx := context.Background()

	configJSON, err := encodePayload(config)
	if err != nil {
		return err
	}
	metricsJSON, err := encodePayload(metrics)
	if err != nil {
		return err
	}
	errInc := 0
	if errMsg != "" {
		errInc = 1
	}
	now := nowFunc().UTC()

	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		var existingID int
		err := tx.NewSelect().Model((*ModuleStatusModel)(nil)).Column("id").
			Where("module_name = ?", moduleName).Limit(1).Scan(ctx, &existingID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			_, err := ExecRaw(ctx, tx,
				"INSERT INTO module_status (module_name, status, version, config, metrics, last_error, error_count, last_update) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
				moduleName, status, nullString(version), nullString(configJSON), nullString(metricsJSON), nullString(errMsg), errInc, now)
			return MapDBError(err)
		case err != nil:
			return err
		default:
			_, err := ExecRaw(ctx, tx,
				"UPDATE module_status SET status = ?, version = COALESCE(?, version), config = COALESCE(?, config), metrics = COALESCE(?, metrics), last_error = ?, last_update = ?, error_count = error_count + ? WHERE id = ?",
				status, nullString(version), nullString(configJSON), nullString(metricsJSON), nullString(errMsg), now, errInc, existingID)
			return err
		}
	})
}

// GetModuleStatusBun returns module snapshots, one per module, ordered by
// name; a non-empty moduleName restricts the result to that module.
func GetModuleStatusBun(bdb *bun.DB, moduleName string) ([]model.ModuleStatus, error) {
	ctx := context.Background()
	var rows []ModuleStatusModel
	q := bdb.NewSelect().Model(&rows).OrderExpr("module_name")
	if moduleName != "" {
		q = q.Where("module_name = ?", moduleName)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	out := make([]model.ModuleStatus, 0, len(rows))
	for _, r := range rows {
		ms := model.ModuleStatus{
			ID:         r.ID,
			ModuleName: r.ModuleName,
			Status:     r.Status,
			ErrorCount: r.ErrorCount,
			IsEnabled:  r.IsEnabled,
			LastUpdate: r.LastUpdate,
		}
		if r.Version.Valid {
			ms.Version = r.Version.String
		}
		if r.LastError.Valid {
			ms.LastError = r.LastError.String
		}
		if r.Config.Valid {
			if cfg, err := decodePayload(r.Config.String); err == nil {
				ms.Config = cfg
			}
		}
		if r.Metrics.Valid {
			if metrics, err := decodePayload(r.Metrics.String); err == nil {
				ms.Metrics = metrics
			}
		}
		out = append(out, ms)
	}
	return out, nil
}

// --- Command ledger helpers ---

// LogCommandBun records an issued command in the pending state and returns
// its id. Parameters are stored encrypted only; the plaintext column stays
// NULL so the ciphertext is the single persisted copy.
func LogCommandBun(bdb *bun.DB, cipher *crypto.FieldCipher, userID int, module, command string, parameters map[string]any, agentID, sessionID string) (int64, error) {
	ctx := context.Background()

	plain, err := encodePayload(parameters)
	if err != nil {
		return 0, err
	}
	encrypted, err := cipher.Encrypt(plain)
	if err != nil {
		return 0, err
	}

	cm := &CommandHistoryModel{
		Timestamp:        nowFunc().UTC(),
		UserID:           userID,
		Module:           module,
		Command:          command,
		Status:           model.StatusPending,
		EncryptedPayload: nullString(encrypted),
		AgentID:          nullString(agentID),
		SessionID:        nullString(sessionID),
	}
	if _, err := bdb.NewInsert().Model(cm).
		Column("timestamp", "user_id", "module", "command", "status", "encrypted_payload", "agent_id", "session_id").
		Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	return cm.ID, nil
}

// UpdateCommandResultBun applies the execution outcome to exactly one
// command record.
func UpdateCommandResultBun(bdb *bun.DB, commandID int64, status, result string, executionTime float64) error {
	ctx := context.Background()
	var execTime sql.NullFloat64
	if executionTime > 0 {
		execTime = sql.NullFloat64{Float64: executionTime, Valid: true}
	}
	res, err := ExecRaw(ctx, bdb,
		"UPDATE command_history SET status = ?, result = ?, execution_time = ? WHERE id = ?",
		status, nullString(result), execTime, commandID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrCommandNotFound
	}
	return nil
}

// commandRow joins command_history with the issuing username for display.
type commandRow struct {
	ID               int64           `bun:"id"`
	Timestamp        time.Time       `bun:"timestamp"`
	UserID           int             `bun:"user_id"`
	Module           string          `bun:"module"`
	Command          string          `bun:"command"`
	Status           string          `bun:"status"`
	Result           sql.NullString  `bun:"result"`
	EncryptedPayload sql.NullString  `bun:"encrypted_payload"`
	ExecutionTime    sql.NullFloat64 `bun:"execution_time"`
	AgentID          sql.NullString  `bun:"agent_id"`
	SessionID        sql.NullString  `bun:"session_id"`
	Username         sql.NullString  `bun:"username"`
}

// GetCommandHistoryBun returns command records newest first, joined with
// the issuing username, with parameters decrypted under the same fail-soft
// policy as the security log.
func GetCommandHistoryBun(bdb *bun.DB, cipher *crypto.FieldCipher, userID int, module string, limit int) ([]model.CommandRecord, error) {
	ctx := context.Background()
	if limit <= 0 {
		limit = 100
	}
	var rows []commandRow
	q := bdb.NewSelect().
		ColumnExpr("ch.id, ch.timestamp, ch.user_id, ch.module, ch.command, ch.status").
		ColumnExpr("ch.result, ch.encrypted_payload, ch.execution_time, ch.agent_id, ch.session_id").
		ColumnExpr("u.username AS username").
		TableExpr("command_history AS ch").
		Join("LEFT JOIN users u ON ch.user_id = u.id")
	if userID != 0 {
		q = q.Where("ch.user_id = ?", userID)
	}
	if module != "" {
		q = q.Where("ch.module = ?", module)
	}
	if err := q.OrderExpr("ch.timestamp DESC, ch.id DESC").Limit(limit).Scan(ctx, &rows); err != nil {
		return nil, err
	}

	out := make([]model.CommandRecord, 0, len(rows))
	for _, r := range rows {
		rec := model.CommandRecord{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			UserID:    r.UserID,
			Module:    r.Module,
			Command:   r.Command,
			Status:    r.Status,
		}
		if r.Username.Valid {
			rec.Username = r.Username.String
		}
		if r.Result.Valid {
			rec.Result = r.Result.String
		}
		if r.ExecutionTime.Valid {
			rec.ExecutionTime = r.ExecutionTime.Float64
		}
		if r.AgentID.Valid {
			rec.AgentID = r.AgentID.String
		}
		if r.SessionID.Valid {
			rec.SessionID = r.SessionID.String
		}
		if r.EncryptedPayload.Valid && r.EncryptedPayload.String != "" {
			plain, derr := cipher.Decrypt(r.EncryptedPayload.String)
			if derr != nil {
				logging.Warnf("command %d: undecryptable parameters: %v", r.ID, derr)
				rec.ParamsUnavailable = true
			} else if params, perr := decodePayload(plain); perr != nil {
				logging.Warnf("command %d: undecodable parameters: %v", r.ID, perr)
				rec.ParamsUnavailable = true
			} else {
				rec.Parameters = params
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

// --- Retention ---

// CleanupOldDataBun prunes security log and command history rows older than
// the given age. The cutoff is computed here so the statement stays portable
// across engines.
func CleanupOldDataBun(bdb *bun.DB, days int) error {
	ctx := context.Background()
	cutoff := nowFunc().UTC().AddDate(0, 0, -days)
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		if _, err := ExecRaw(ctx, tx, "DELETE FROM security_logs WHERE timestamp < ?", cutoff); err != nil {
			return err
		}
		if _, err := ExecRaw(ctx, tx, "DELETE FROM command_history WHERE timestamp < ?", cutoff); err != nil {
			return err
		}
		return nil
	})
}
