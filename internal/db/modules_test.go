// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"
)

func TestModuleStatus_InsertAndGet(t *testing.T) {
	_ = newTestDB(t)

	cfg := map[string]any{"scan_interval": float64(60)}
	metrics := map[string]any{"targets": float64(12)}
	if err := UpdateModuleStatus("OMEGA", "online", "2.1.0", cfg, metrics, ""); err != nil {
		t.Fatalf("failed to insert module status: %v", err)
	}

	mods, err := GetModuleStatus("OMEGA")
	if err != nil {
		t.Fatalf("GetModuleStatus failed: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("expected 1 module, got %d", len(mods))
	}
	m := mods[0]
	if m.Status != "online" || m.Version != "2.1.0" {
		t.Fatalf("unexpected snapshot: %+v", m)
	}
	if m.Config["scan_interval"] != float64(60) {
		t.Fatalf("unexpected config: %+v", m.Config)
	}
	if m.Metrics["targets"] != float64(12) {
		t.Fatalf("unexpected metrics: %+v", m.Metrics)
	}
	if m.ErrorCount != 0 || m.LastError != "" {
		t.Fatalf("fresh module should carry no errors: %+v", m)
	}
}

// A later report that omits optional fields keeps the stored values; one row
// per module name no matter how many reports arrive.
func TestModuleStatus_UpsertKeepsOmittedFields(t *testing.T) {
	_ = newTestDB(t)

	if err := UpdateModuleStatus("ATLAS", "online", "1.4.2", map[string]any{"region": "south"}, nil, ""); err != nil {
		t.Fatalf("first report failed: %v", err)
	}
	if err := UpdateModuleStatus("ATLAS", "degraded", "", nil, map[string]any{"lag_ms": float64(900)}, ""); err != nil {
		t.Fatalf("second report failed: %v", err)
	}

	mods, err := GetModuleStatus("")
	if err != nil {
		t.Fatalf("GetModuleStatus failed: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("expected a single ATLAS row, got %d", len(mods))
	}
	m := mods[0]
	if m.Status != "degraded" {
		t.Fatalf("expected status degraded, got %q", m.Status)
	}
	if m.Version != "1.4.2" {
		t.Fatalf("expected version kept across sparse report, got %q", m.Version)
	}
	if m.Config["region"] != "south" {
		t.Fatalf("expected config kept, got %+v", m.Config)
	}
	if m.Metrics["lag_ms"] != float64(900) {
		t.Fatalf("expected metrics updated, got %+v", m.Metrics)
	}
}

func TestModuleStatus_ErrorCounting(t *testing.T) {
	_ = newTestDB(t)

	if err := UpdateModuleStatus("MIFTAH", "online", "3.0.0", nil, nil, ""); err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if err := UpdateModuleStatus("MIFTAH", "error", "", nil, nil, "vault unreachable"); err != nil {
		t.Fatalf("error report failed: %v", err)
	}
	if err := UpdateModuleStatus("MIFTAH", "error", "", nil, nil, "vault unreachable"); err != nil {
		t.Fatalf("error report failed: %v", err)
	}
	// Recovery clears last_error but never decrements the counter.
	if err := UpdateModuleStatus("MIFTAH", "online", "", nil, nil, ""); err != nil {
		t.Fatalf("recovery report failed: %v", err)
	}

	mods, err := GetModuleStatus("MIFTAH")
	if err != nil || len(mods) != 1 {
		t.Fatalf("GetModuleStatus failed: %v (%d rows)", err, len(mods))
	}
	m := mods[0]
	if m.ErrorCount != 2 {
		t.Fatalf("expected error_count 2, got %d", m.ErrorCount)
	}
	if m.LastError != "" {
		t.Fatalf("expected last_error cleared after recovery, got %q", m.LastError)
	}
	if m.Status != "online" {
		t.Fatalf("expected status online, got %q", m.Status)
	}
}

func TestModuleStatus_ListOrdering(t *testing.T) {
	_ = newTestDB(t)

	for _, name := range []string{"PROLITAGE", "ATLAS", "OMEGA"} {
		if err := UpdateModuleStatus(name, "offline", "", nil, nil, ""); err != nil {
			t.Fatalf("report for %s failed: %v", name, err)
		}
	}

	mods, err := GetModuleStatus("")
	if err != nil {
		t.Fatalf("GetModuleStatus failed: %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("expected 3 modules, got %d", len(mods))
	}
	want := []string{"ATLAS", "OMEGA", "PROLITAGE"}
	for i := range want {
		if mods[i].ModuleName != want[i] {
			t.Fatalf("expected name order %v, got %s at %d", want, mods[i].ModuleName, i)
		}
	}
}
