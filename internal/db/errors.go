// Copyright (c) 2026 masdens1250
// MIFTAH - SPARTA security hub
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains shared database errors and helpers.
package db

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned when attempting to insert a record that already exists.
var ErrDuplicate = errors.New("duplicate record")

// Authentication failure taxonomy. The store keeps the three cases apart so
// the audit trail can record which one occurred; anything user-facing must
// collapse them into a single opaque message to avoid username enumeration.
var (
	// ErrUserNotFound means no active user with that username exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserLocked means the account is inside an active lockout window.
	ErrUserLocked = errors.New("account locked")
	// ErrInvalidPassword means the password did not verify.
	ErrInvalidPassword = errors.New("invalid password")
)

// ErrCommandNotFound is returned when applying a result to an unknown command id.
var ErrCommandNotFound = errors.New("command record not found")

// MapDBError inspects low-level driver errors and maps common constraint
// violations to package-level sentinel errors (like ErrDuplicate). This is a
// conservative, string-based mapping to avoid importing SQL driver packages
// into this package file.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	le := strings.ToLower(err.Error())
	// MySQL duplicate entry, Postgres unique violation (23505), SQLite unique constraint
	if strings.Contains(le, "duplicate") || strings.Contains(le, "unique") || strings.Contains(le, "23505") || strings.Contains(le, "1062") {
		return ErrDuplicate
	}
	return err
}
