package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Store-level conditions surfaced to services, which translate them into
// caller-facing error kinds.
var (
	ErrDuplicate   = errors.New("unique constraint violated")
	ErrCapExceeded = errors.New("resource cap exceeded")
)

// isUniqueViolation detects a unique-index conflict from the sqlite driver.
// GORM translates some of these to ErrDuplicatedKey; the message check covers
// driver paths that don't.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
