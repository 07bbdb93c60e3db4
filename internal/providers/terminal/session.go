package terminal

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/420btc/mymac/internal/shared/id"
	"github.com/creack/pty"
)

// ErrTooManySessions is returned when the session cap is reached.
var ErrTooManySessions = errors.New("terminal: session limit reached")

const outputBufSize = 1 << 20 // 1MB per session

// Manager manages PTY-backed shell sessions. Sessions live only as long
// as the process; nothing is persisted.
type Manager struct {
	sessions     sync.Map // id -> *Session
	count        atomic.Int64
	defaultShell string
	maxSessions  int
}

// NewManager creates a session manager. defaultShell is used when a
// session request names no shell; maxSessions caps concurrent sessions
// (0 means unlimited).
func NewManager(defaultShell string, maxSessions int) *Manager {
	return &Manager{
		defaultShell: defaultShell,
		maxSessions:  maxSessions,
	}
}

// CreateSession starts a new shell behind a PTY.
func (m *Manager) CreateSession(shell, workingDir string, cols, rows int, env map[string]string) (*SessionInfo, error) {
	if m.maxSessions > 0 && int(m.count.Load()) >= m.maxSessions {
		return nil, ErrTooManySessions
	}

	if shell == "" {
		shell = m.defaultShell
	}
	if shell == "" {
		shell = os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/bash"
		}
	}

	if workingDir == "" {
		workingDir = os.Getenv("HOME")
		if workingDir == "" {
			workingDir = "/tmp"
		}
	}

	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}

	sessionID := id.NewTermID().String()

	cmd := exec.Command(shell)
	cmd.Dir = workingDir
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, "TERM=xterm-256color")
	for key, value := range env {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", key, value))
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PTY: %w", err)
	}

	session := &Session{
		ID:         sessionID,
		Shell:      shell,
		WorkingDir: workingDir,
		Cols:       cols,
		Rows:       rows,
		StartedAt:  time.Now(),
		cmd:        cmd,
		ptmx:       ptmx,
		outputBuf:  NewBuffer(outputBufSize),
	}

	m.sessions.Store(sessionID, session)
	m.count.Add(1)

	go m.readOutput(session)
	go m.monitorProcess(session)

	return session.info(true), nil
}

func (m *Manager) readOutput(session *Session) {
	buf := make([]byte, 4096)
	for {
		n, err := session.ptmx.Read(buf)
		if n > 0 {
			session.outputBuf.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}
}

func (m *Manager) monitorProcess(session *Session) {
	session.cmd.Wait()

	session.mu.Lock()
	wasOpen := !session.closed
	session.closed = true
	session.mu.Unlock()

	session.ptmx.Close()
	if wasOpen {
		m.count.Add(-1)
	}
}

// Write sends input to a session.
func (m *Manager) Write(sessionID string, input []byte) error {
	session, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.RLock()
	closed := session.closed
	session.mu.RUnlock()
	if closed {
		return fmt.Errorf("session is closed: %s", sessionID)
	}

	_, err = session.ptmx.Write(input)
	return err
}

// Read drains buffered output from a session.
func (m *Manager) Read(sessionID string) ([]byte, error) {
	session, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return session.outputBuf.ReadAll(), nil
}

// Resize changes terminal dimensions.
func (m *Manager) Resize(sessionID string, cols, rows int) error {
	session, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.closed {
		return fmt.Errorf("session is closed: %s", sessionID)
	}

	session.Cols = cols
	session.Rows = rows

	return pty.Setsize(session.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

// Kill terminates a session and removes it.
func (m *Manager) Kill(sessionID string) error {
	session, err := m.lookup(sessionID)
	if err != nil {
		return err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.closed {
		session.closed = true
		if session.cmd.Process != nil {
			session.cmd.Process.Kill()
		}
		session.ptmx.Close()
		m.count.Add(-1)
	}

	m.sessions.Delete(sessionID)

	return nil
}

// ListSessions returns all known sessions.
func (m *Manager) ListSessions() []SessionInfo {
	sessions := []SessionInfo{}

	m.sessions.Range(func(_, value interface{}) bool {
		session := value.(*Session)

		session.mu.RLock()
		active := !session.closed
		session.mu.RUnlock()

		sessions = append(sessions, *session.info(active))
		return true
	})

	return sessions
}

// GetSession retrieves session info.
func (m *Manager) GetSession(sessionID string) (*SessionInfo, error) {
	session, err := m.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	session.mu.RLock()
	active := !session.closed
	session.mu.RUnlock()

	return session.info(active), nil
}

func (m *Manager) lookup(sessionID string) (*Session, error) {
	value, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	return value.(*Session), nil
}

func (s *Session) info(active bool) *SessionInfo {
	return &SessionInfo{
		ID:         s.ID,
		Shell:      s.Shell,
		WorkingDir: s.WorkingDir,
		Cols:       s.Cols,
		Rows:       s.Rows,
		StartedAt:  s.StartedAt,
		Active:     active,
	}
}
