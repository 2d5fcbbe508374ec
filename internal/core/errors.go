// Package core defines the fundamental types and errors for TermLog.
package core

import "errors"

// Core errors that can occur across the system
var (
	// Operating-mode engine errors
	ErrInvalidConfig     = errors.New("invalid mode configuration")
	ErrNoActiveMode      = errors.New("no active operating mode")
	ErrUnsupportedExport = errors.New("export not supported for this mode")

	// Storage errors
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
	ErrSessionNotFound = errors.New("mode session not found")
	ErrMigrationFailed = errors.New("migration failed")

	// Lookup errors
	ErrLookupDisabled  = errors.New("callsign lookup is not configured")
	ErrLookupAuth      = errors.New("lookup service authentication failed")
	ErrLookupNotFound  = errors.New("callsign not found")
	ErrLookupBadReply  = errors.New("lookup service returned malformed data")

	// Spot errors
	ErrSpotFeedClosed = errors.New("spot feed closed")

	// Validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingRequired = errors.New("missing required field")
)
