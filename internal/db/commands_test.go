// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/masdens1250/MIFTAH/internal/model"
)

func TestCommandLifecycle(t *testing.T) {
	_ = newTestDB(t)

	uid, err := CreateUser("operator1", "pass-operator1", "", "operator")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	params := map[string]any{"target": "10.14.0.0/24", "depth": float64(2)}
	cmdID, err := LogCommand(uid, "OMEGA", "scan_network", params, "AGT-001", "sess-7")
	if err != nil {
		t.Fatalf("LogCommand failed: %v", err)
	}
	if cmdID == 0 {
		t.Fatalf("expected non-zero command id")
	}

	recs, err := GetCommandHistory(0, "", 0)
	if err != nil {
		t.Fatalf("GetCommandHistory failed: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.Status != model.StatusPending {
		t.Fatalf("expected pending record, got %q", rec.Status)
	}
	if rec.Username != "operator1" {
		t.Fatalf("expected joined username, got %q", rec.Username)
	}
	if rec.Parameters["target"] != "10.14.0.0/24" || rec.Parameters["depth"] != float64(2) {
		t.Fatalf("unexpected decrypted parameters: %+v", rec.Parameters)
	}
	if rec.Result != "" || rec.ExecutionTime != 0 {
		t.Fatalf("pending record should carry no outcome: %+v", rec)
	}

	if err := UpdateCommandResult(cmdID, model.StatusSuccess, "14 hosts found", 3.25); err != nil {
		t.Fatalf("UpdateCommandResult failed: %v", err)
	}

	recs, err = GetCommandHistory(0, "", 0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("reload failed: %v (%d rows)", err, len(recs))
	}
	rec = recs[0]
	if rec.Status != model.StatusSuccess {
		t.Fatalf("expected success, got %q", rec.Status)
	}
	if rec.Result != "14 hosts found" {
		t.Fatalf("unexpected result: %q", rec.Result)
	}
	if rec.ExecutionTime != 3.25 {
		t.Fatalf("unexpected execution time: %v", rec.ExecutionTime)
	}
}

func TestUpdateCommandResult_Unknown(t *testing.T) {
	_ = newTestDB(t)

	if err := UpdateCommandResult(999, model.StatusFailed, "no such command", 0); !errors.Is(err, ErrCommandNotFound) {
		t.Fatalf("expected ErrCommandNotFound, got %v", err)
	}
}

func TestCommandHistory_Filters(t *testing.T) {
	_ = newTestDB(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	advance := setClock(t, base)

	alice, err := CreateUser("alice", "pass-alice", "", "operator")
	if err != nil {
		t.Fatalf("failed to create alice: %v", err)
	}
	bob, err := CreateUser("bob", "pass-bob", "", "operator")
	if err != nil {
		t.Fatalf("failed to create bob: %v", err)
	}

	seed := []struct {
		uid    int
		module string
		cmd    string
	}{
		{alice, "OMEGA", "scan_network"},
		{alice, "ATLAS", "track_target"},
		{bob, "OMEGA", "deep_scan"},
	}
	for i, s := range seed {
		advance(base.Add(time.Duration(i) * time.Minute))
		if _, err := LogCommand(s.uid, s.module, s.cmd, nil, "", ""); err != nil {
			t.Fatalf("failed to log %s: %v", s.cmd, err)
		}
	}

	recs, err := GetCommandHistory(alice, "", 0)
	if err != nil {
		t.Fatalf("user filter failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 alice commands, got %d", len(recs))
	}

	recs, err = GetCommandHistory(0, "OMEGA", 0)
	if err != nil {
		t.Fatalf("module filter failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 OMEGA commands, got %d", len(recs))
	}
	// Newest first.
	if recs[0].Command != "deep_scan" || recs[1].Command != "scan_network" {
		t.Fatalf("unexpected order: %q, %q", recs[0].Command, recs[1].Command)
	}

	recs, err = GetCommandHistory(bob, "ATLAS", 0)
	if err != nil {
		t.Fatalf("combined filter failed: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no bob ATLAS commands, got %d", len(recs))
	}
}

// The plaintext parameters column is never written; only the ciphertext is
// persisted.
func TestCommand_ParamsEncryptedAtRest(t *testing.T) {
	dsn := newTestDB(t)

	uid, err := CreateUser("operator1", "pass-operator1", "", "operator")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if _, err := LogCommand(uid, "MIFTAH", "rotate_keys", map[string]any{"vault": "primary"}, "", ""); err != nil {
		t.Fatalf("LogCommand failed: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	var plainParams sql.NullString
	var blob string
	if err := sqlDB.QueryRow("SELECT parameters, encrypted_payload FROM command_history LIMIT 1").Scan(&plainParams, &blob); err != nil {
		t.Fatalf("failed to read command row: %v", err)
	}
	if plainParams.Valid {
		t.Fatalf("plaintext parameters column must stay NULL, got %q", plainParams.String)
	}
	if blob == "" || strings.Contains(blob, "primary") {
		t.Fatalf("expected opaque ciphertext, got %q", blob)
	}
}

func TestCommand_UnreadableParamsSurfaced(t *testing.T) {
	dsn := newTestDB(t)

	uid, err := CreateUser("operator1", "pass-operator1", "", "operator")
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	if _, err := LogCommand(uid, "MIFTAH", "rotate_keys", map[string]any{"vault": "primary"}, "", ""); err != nil {
		t.Fatalf("LogCommand failed: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()
	if _, err := sqlDB.Exec("UPDATE command_history SET encrypted_payload = 'garbage'"); err != nil {
		t.Fatalf("failed to corrupt row: %v", err)
	}

	recs, err := GetCommandHistory(0, "", 0)
	if err != nil {
		t.Fatalf("GetCommandHistory failed on corrupted row: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected the corrupted record to survive, got %d", len(recs))
	}
	if !recs[0].ParamsUnavailable {
		t.Fatalf("expected ParamsUnavailable marker")
	}
	if recs[0].Command != "rotate_keys" {
		t.Fatalf("plain columns should survive corruption: %+v", recs[0])
	}
}
