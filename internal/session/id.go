package session

import "github.com/google/uuid"

// IDGenerator produces the per-process session identifier attached to every
// log line, so interleaved logs from several editors sharing one record can
// be told apart.
type IDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session ids.
//
// Panics if UUID generation fails (should never happen in practice).
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator always returns the same id. Used in tests.
type FixedGenerator string

// Generate returns the fixed id.
func (g FixedGenerator) Generate() string {
	return string(g)
}
