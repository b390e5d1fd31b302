// Package model defines the plain value records exchanged between the
// MIFTAH data layer and its callers. All records are passed by copy; the
// store never hands out shared mutable state.
package model

import (
	"fmt"
	"time"
)

// User is an operator account. The password is only ever present in its
// hashed form; PasswordHash is opaque to everything except the credential
// verifier.
type User struct {
	ID             int
	Username       string
	PasswordHash   string
	Email          string
	Role           string
	IsActive       bool
	FailedAttempts int
	LockedUntil    time.Time
	LastLogin      time.Time
	CreatedAt      time.Time
}

// IsLocked reports whether the account is inside an active lockout window.
func (u User) IsLocked(now time.Time) bool {
	return !u.LockedUntil.IsZero() && u.LockedUntil.After(now)
}

// Agent is a remote agent known to the hub. AgentID is assigned externally
// and is the natural key; status transitions come from heartbeat reports.
type Agent struct {
	ID                int
	AgentID           string
	Name              string
	Type              string
	Status            string
	Location          string
	IPAddress         string
	HeartbeatInterval int
	Config            map[string]any
	LastSeen          time.Time
}

// String returns the agent_id (name) display form.
func (a Agent) String() string {
	return fmt.Sprintf("%s (%s)", a.AgentID, a.Name)
}

// EventRef carries the optional correlation fields of a security event or
// command record. The zero value means "no correlation".
type EventRef struct {
	UserID    int
	AgentID   string
	IPAddress string
	SessionID string
}

// SecurityEvent is one row of the append-only security ledger. Details is
// the decrypted payload when available; DetailsUnavailable marks a stored
// ciphertext that could not be decrypted (the row itself is still returned).
type SecurityEvent struct {
	ID                 int
	Timestamp          time.Time
	Level              string
	Module             string
	EventType          string
	Message            string
	Details            map[string]any
	DetailsUnavailable bool
	UserID             int
	AgentID            string
	IPAddress          string
	SessionID          string
}

// ModuleStatus is the health snapshot of one named subsystem. One row per
// module name; ErrorCount only ever grows.
type ModuleStatus struct {
	ID         int
	ModuleName string
	Status     string
	Version    string
	Config     map[string]any
	Metrics    map[string]any
	ErrorCount int
	LastError  string
	IsEnabled  bool
	LastUpdate time.Time
}

// CommandRecord is one issued operator command. Parameters is the decrypted
// payload when available; ParamsUnavailable marks an undecryptable payload.
// Username is joined in from the issuing user for display.
type CommandRecord struct {
	ID                int64
	Timestamp         time.Time
	UserID            int
	Username          string
	Module            string
	Command           string
	Parameters        map[string]any
	ParamsUnavailable bool
	Status            string
	Result            string
	ExecutionTime     float64
	AgentID           string
	SessionID         string
}

// Command lifecycle states. A record is created as StatusPending and moves
// to exactly one final state via the apply-result call.
const (
	StatusPending = "pending"
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)
