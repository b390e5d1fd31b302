// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/masdens1250/MIFTAH/internal/model"
)

func TestSecurityLogs_NewestFirst(t *testing.T) {
	_ = newTestDB(t)
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	advance := setClock(t, base)

	for i, msg := range []string{"first", "second", "third"} {
		advance(base.Add(time.Duration(i) * time.Minute))
		if err := LogSecurityEvent("INFO", "MIFTAH", "test_event", msg, nil, model.EventRef{}); err != nil {
			t.Fatalf("failed to log %q: %v", msg, err)
		}
	}

	events, err := GetSecurityLogs(0, "", "")
	if err != nil {
		t.Fatalf("GetSecurityLogs failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	got := []string{events[0].Message, events[1].Message, events[2].Message}
	want := []string{"third", "second", "first"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

// Events written within the same clock tick still come back newest first,
// by insertion order.
func TestSecurityLogs_SameInstantOrdering(t *testing.T) {
	_ = newTestDB(t)
	setClock(t, time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))

	for _, msg := range []string{"a", "b", "c"} {
		if err := LogSecurityEvent("INFO", "MIFTAH", "burst", msg, nil, model.EventRef{}); err != nil {
			t.Fatalf("failed to log %q: %v", msg, err)
		}
	}

	events, err := GetSecurityLogs(0, "", "")
	if err != nil {
		t.Fatalf("GetSecurityLogs failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Message != "c" || events[2].Message != "a" {
		t.Fatalf("expected insertion-order tiebreak, got %q..%q", events[0].Message, events[2].Message)
	}
}

func TestSecurityLogs_Filters(t *testing.T) {
	_ = newTestDB(t)

	seed := []struct{ level, module, msg string }{
		{"INFO", "OMEGA", "omega info"},
		{"WARNING", "OMEGA", "omega warning"},
		{"CRITICAL", "ATLAS", "atlas critical"},
	}
	for _, e := range seed {
		if err := LogSecurityEvent(e.level, e.module, "probe", e.msg, nil, model.EventRef{}); err != nil {
			t.Fatalf("failed to log: %v", err)
		}
	}

	events, err := GetSecurityLogs(0, "WARNING", "")
	if err != nil {
		t.Fatalf("level filter failed: %v", err)
	}
	if len(events) != 1 || events[0].Message != "omega warning" {
		t.Fatalf("unexpected level filter result: %+v", events)
	}

	events, err = GetSecurityLogs(0, "", "OMEGA")
	if err != nil {
		t.Fatalf("module filter failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 OMEGA events, got %d", len(events))
	}

	events, err = GetSecurityLogs(0, "CRITICAL", "OMEGA")
	if err != nil {
		t.Fatalf("combined filter failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no CRITICAL OMEGA events, got %d", len(events))
	}

	events, err = GetSecurityLogs(2, "", "")
	if err != nil {
		t.Fatalf("limit failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected limit of 2 events, got %d", len(events))
	}
}

func TestSecurityLogs_DetailsEncryptedAtRest(t *testing.T) {
	dsn := newTestDB(t)

	details := map[string]any{"source_ip": "10.14.0.7", "reason": "bad token"}
	ref := model.EventRef{UserID: 0, AgentID: "AGT-001", IPAddress: "10.14.0.7", SessionID: "sess-42"}
	if err := LogSecurityEvent("WARNING", "MIFTAH", "auth_reject", "rejected token", details, ref); err != nil {
		t.Fatalf("failed to log event: %v", err)
	}

	// The stored column must not contain the plaintext payload.
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB for inspection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()
	var blob string
	if err := sqlDB.QueryRow("SELECT encrypted_details FROM security_logs LIMIT 1").Scan(&blob); err != nil {
		t.Fatalf("failed to read encrypted_details: %v", err)
	}
	if blob == "" {
		t.Fatalf("expected non-empty encrypted_details")
	}
	if strings.Contains(blob, "10.14.0.7") || strings.Contains(blob, "bad token") {
		t.Fatalf("details stored in plaintext: %q", blob)
	}

	// The read path decrypts transparently.
	events, err := GetSecurityLogs(1, "", "")
	if err != nil {
		t.Fatalf("GetSecurityLogs failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.DetailsUnavailable {
		t.Fatalf("expected readable details")
	}
	if ev.Details["source_ip"] != "10.14.0.7" || ev.Details["reason"] != "bad token" {
		t.Fatalf("unexpected details after decrypt: %+v", ev.Details)
	}
	if ev.AgentID != "AGT-001" || ev.IPAddress != "10.14.0.7" || ev.SessionID != "sess-42" {
		t.Fatalf("unexpected event refs: %+v", ev)
	}
}

// A row whose ciphertext cannot be decrypted is surfaced with a marker, not
// dropped, and does not abort the read.
func TestSecurityLogs_UnreadableDetailsSurfaced(t *testing.T) {
	dsn := newTestDB(t)

	if err := LogSecurityEvent("INFO", "MIFTAH", "ok_event", "readable", map[string]any{"k": "v"}, model.EventRef{}); err != nil {
		t.Fatalf("failed to log event: %v", err)
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()
	if _, err := sqlDB.Exec("UPDATE security_logs SET encrypted_details = 'not-a-ciphertext'"); err != nil {
		t.Fatalf("failed to corrupt row: %v", err)
	}

	events, err := GetSecurityLogs(0, "", "")
	if err != nil {
		t.Fatalf("GetSecurityLogs failed on corrupted row: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected the corrupted event to survive, got %d rows", len(events))
	}
	if !events[0].DetailsUnavailable {
		t.Fatalf("expected DetailsUnavailable marker")
	}
	if events[0].Message != "readable" {
		t.Fatalf("plain columns should survive corruption, got %+v", events[0])
	}
}

func TestSecurityLogs_NoDetails(t *testing.T) {
	_ = newTestDB(t)

	if err := LogSecurityEvent("INFO", "MIFTAH", "bare", "no payload", nil, model.EventRef{}); err != nil {
		t.Fatalf("failed to log event: %v", err)
	}
	events, err := GetSecurityLogs(1, "", "")
	if err != nil {
		t.Fatalf("GetSecurityLogs failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Details != nil || events[0].DetailsUnavailable {
		t.Fatalf("expected absent details to stay absent: %+v", events[0])
	}
}
