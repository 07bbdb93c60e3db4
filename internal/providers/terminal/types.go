package terminal

import (
	"os"
	"os/exec"
	"sync"
	"time"
)

// Session represents an active shell session behind a PTY.
type Session struct {
	ID         string
	Shell      string
	WorkingDir string
	Cols       int
	Rows       int
	StartedAt  time.Time

	cmd  *exec.Cmd
	ptmx *os.File

	outputBuf *Buffer

	mu     sync.RWMutex
	closed bool
}

// Buffer is a thread-safe ring of terminal output. A buffer built with
// NewBuffer(n) retains at most n-1 bytes; once full, the oldest bytes
// are dropped so a stalled reader never blocks the shell.
type Buffer struct {
	mu    sync.Mutex
	data  []byte
	start int // index of the oldest retained byte
	count int // bytes currently retained
	max   int // retention limit
}

// NewBuffer creates a circular buffer of the given size.
func NewBuffer(size int) *Buffer {
	return &Buffer{
		data: make([]byte, size),
		max:  size - 1,
	}
}

// Write appends data, overwriting the oldest bytes when full.
func (b *Buffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	n = len(p)
	if len(p) > b.max {
		// only the newest max bytes can survive anyway
		p = p[len(p)-b.max:]
	}

	if overflow := b.count + len(p) - b.max; overflow > 0 {
		b.start = (b.start + overflow) % len(b.data)
		b.count -= overflow
	}

	pos := (b.start + b.count) % len(b.data)
	m := copy(b.data[pos:], p)
	copy(b.data, p[m:])
	b.count += len(p)

	return n, nil
}

// ReadAll drains and returns all buffered output.
func (b *Buffer) ReadAll() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, b.count)
	tail := len(b.data) - b.start
	if tail > b.count {
		tail = b.count
	}
	copy(out, b.data[b.start:b.start+tail])
	copy(out[tail:], b.data[:b.count-tail])

	b.start, b.count = 0, 0
	return out
}

// SessionInfo is the public representation of a session.
type SessionInfo struct {
	ID         string    `json:"id"`
	Shell      string    `json:"shell"`
	WorkingDir string    `json:"working_dir"`
	Cols       int       `json:"cols"`
	Rows       int       `json:"rows"`
	StartedAt  time.Time `json:"started_at"`
	Active     bool      `json:"active"`
}
