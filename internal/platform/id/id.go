// Package id generates calibration session identifiers.
//
// IDs are UUIDv7 values encoded as 26 lowercase base32hex characters without
// padding. The encoding preserves byte order, so IDs sort by creation time and
// can serve directly as keyset page tokens.
package id

import (
	"encoding/base32"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var encoding = base32.HexEncoding.WithPadding(base32.NoPadding)

// NewID returns a new time-ordered session ID.
func NewID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return Encode(u), nil
}

// Encode renders u in the session ID format.
func Encode(u uuid.UUID) string {
	return strings.ToLower(encoding.EncodeToString(u[:]))
}

// Parse decodes a session ID back to its UUID.
func Parse(value string) (uuid.UUID, error) {
	value = strings.TrimSpace(value)
	if len(value) != 26 {
		return uuid.Nil, fmt.Errorf("invalid id length %d", len(value))
	}
	raw, err := encoding.DecodeString(strings.ToUpper(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("decode id: %w", err)
	}
	return uuid.FromBytes(raw)
}

// Valid reports whether value is a well-formed session ID.
func Valid(value string) bool {
	_, err := Parse(value)
	return err == nil
}
