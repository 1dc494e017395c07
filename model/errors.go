package model

import "errors"

var (
	// ErrStore marks a failed or timed out ledger read/write.
	ErrStore = errors.New("xp store unavailable")

	// ErrConfigMissing marks a level with no role mapping, or a mapping whose role is gone.
	ErrConfigMissing = errors.New("configuration missing")

	// ErrPermissionDenied is returned when the platform or the admin gate rejects an action.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotFound is returned when a member, role, channel or ban does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation marks malformed command arguments.
	ErrValidation = errors.New("invalid arguments")
)
