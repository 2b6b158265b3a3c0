package services

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

const (
	cursorVersion = "v1"

	// DefaultPageLimit applies when the caller sends no limit; MaxPageLimit
	// clamps whatever the caller asks for.
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Cursor marks a resumable position in a reverse-chronological stream: the
// sequence id of the last item the caller has seen. Offsets are never used
// because concurrent inserts make them skip or repeat rows between pages.
type Cursor struct {
	LastSeenID uint
}

// EncodeCursor renders an opaque, versioned continuation token.
func EncodeCursor(cursor Cursor) string {
	raw := fmt.Sprintf("%s:%d", cursorVersion, cursor.LastSeenID)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor parses a token produced by EncodeCursor. Any malformed or
// differently-versioned token fails closed with ErrInvalidCursor rather than
// being guessed at or silently ignored.
func DecodeCursor(token string) (Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}

	parts := strings.SplitN(string(raw), ":", 2)
	if len(parts) != 2 || parts[0] != cursorVersion {
		return Cursor{}, ErrInvalidCursor
	}

	lastSeen, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil || lastSeen == 0 {
		return Cursor{}, ErrInvalidCursor
	}
	return Cursor{LastSeenID: uint(lastSeen)}, nil
}

// ClampPageLimit validates and clamps a requested page size. Zero and
// negative limits are rejected; an absent limit is the adapter's concern and
// should arrive here already defaulted.
func ClampPageLimit(requested int) (int, error) {
	if requested <= 0 {
		return 0, ErrInvalidLimit
	}
	if requested > MaxPageLimit {
		return MaxPageLimit, nil
	}
	return requested, nil
}
