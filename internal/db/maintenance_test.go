// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"testing"

	"github.com/masdens1250/MIFTAH/internal/model"
)

func TestRunDBMaintenance_Sqlite(t *testing.T) {
	dsn := newTestDB(t)

	// Some data to vacuum around.
	if err := LogSecurityEvent("INFO", "MIFTAH", "probe", "before maintenance", nil, model.EventRef{}); err != nil {
		t.Fatalf("failed to log event: %v", err)
	}

	if err := RunDBMaintenance("sqlite", dsn); err != nil {
		t.Fatalf("RunDBMaintenance failed: %v", err)
	}

	// The store still works afterwards.
	events, err := GetSecurityLogs(0, "", "")
	if err != nil || len(events) != 1 {
		t.Fatalf("expected store to survive maintenance: %v (%d rows)", err, len(events))
	}
}

func TestRunDBMaintenance_UnsupportedType(t *testing.T) {
	if err := RunDBMaintenance("oracle", "dsn"); err == nil {
		t.Fatalf("expected error for unsupported database type")
	}
}
