// Package id generates the identifiers used across the backend. All ids
// are ULIDs, so they sort by creation time, and each domain gets its own
// prefix (win_*, sess_*, req_*) so a bare id in a log line still says
// what it names.
package id

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	WindowPrefix  = "win"
	SessionPrefix = "sess"
	RequestPrefix = "req"
	UserPrefix    = "user"
	TermPrefix    = "term"
)

// Typed wrappers keep window ids from wandering into session fields.
type (
	// WindowID identifies a window record
	WindowID string
	// SessionID identifies a saved desktop session
	SessionID string
	// RequestID identifies one API request
	RequestID string
	// UserID identifies a local user account
	UserID string
	// TermID identifies a terminal session
	TermID string
)

func (id WindowID) String() string  { return string(id) }
func (id SessionID) String() string { return string(id) }
func (id RequestID) String() string { return string(id) }
func (id UserID) String() string    { return string(id) }
func (id TermID) String() string    { return string(id) }

// NewWindowID generates a win_* id
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// NewSessionID generates a sess_* id
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewRequestID generates a req_* id
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewUserID generates a user_* id
func NewUserID() UserID {
	return UserID(Default().GenerateWithPrefix(UserPrefix))
}

// NewTermID generates a term_* id
func NewTermID() TermID {
	return TermID(Default().GenerateWithPrefix(TermPrefix))
}

// Generator produces ULIDs from a locked entropy source
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

var (
	defaultGen  *Generator
	defaultOnce sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	defaultOnce.Do(func() {
		defaultGen = NewGenerator()
	})
	return defaultGen
}

// Generate creates one ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates one ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a "prefix_ULID" string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return prefix + "_" + g.GenerateString()
}

// GenerateBatch creates count ULIDs sharing one timestamp, cheaper than
// looping over Generate
func (g *Generator) GenerateBatch(count int) []ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := ulid.Timestamp(time.Now())
	ids := make([]ulid.ULID, count)
	for i := range ids {
		ids[i] = ulid.MustNew(now, g.entropy)
	}
	return ids
}

// IsValid reports whether s parses as a ULID
func IsValid(s string) bool {
	_, err := ulid.Parse(s)
	return err == nil
}

// Parse parses a bare ULID string
func Parse(s string) (ulid.ULID, error) {
	return ulid.Parse(s)
}

// Timestamp extracts the creation time from a ULID string
func Timestamp(s string) (time.Time, error) {
	parsed, err := Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
