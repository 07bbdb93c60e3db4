package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests")
)

// State is the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures a Breaker. Zero values get sane defaults from New.
type Settings struct {
	// MaxRequests caps probe requests while half-open
	MaxRequests uint32
	// Interval resets closed-state counts so old failures age out
	Interval time.Duration
	// Timeout is how long the breaker stays open before probing
	Timeout time.Duration
	// ReadyToTrip decides, after each closed-state failure, whether to open
	ReadyToTrip func(counts Counts) bool
	// OnStateChange observes transitions
	OnStateChange func(name string, from State, to State)
}

// Counts tracks request outcomes within the current generation
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func (c *Counts) success() {
	c.TotalSuccesses++
	c.ConsecutiveSuccesses++
	c.ConsecutiveFailures = 0
}

func (c *Counts) failure() {
	c.TotalFailures++
	c.ConsecutiveFailures++
	c.ConsecutiveSuccesses = 0
}

// Breaker guards a downstream dependency. Requests flow while closed,
// are rejected while open, and trickle through as probes while half-open.
// A generation counter ties each outcome back to the state it started in,
// so results from before a transition cannot corrupt the new state.
type Breaker struct {
	name     string
	settings Settings

	mu     sync.Mutex
	state  State
	gen    uint64
	counts Counts
	// deadline of the current state: counts reset (closed) or probe time (open)
	deadline time.Time
}

// New creates a breaker with defaults filled in
func New(name string, settings Settings) *Breaker {
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 1
	}
	if settings.Interval == 0 {
		settings.Interval = 60 * time.Second
	}
	if settings.Timeout == 0 {
		settings.Timeout = 60 * time.Second
	}
	if settings.ReadyToTrip == nil {
		settings.ReadyToTrip = func(counts Counts) bool {
			return counts.ConsecutiveFailures > 5
		}
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
		deadline: time.Now().Add(settings.Interval),
	}
}

// Name returns the breaker's name
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, applying any pending timed transition
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.advance(time.Now())
	return b.state
}

// Counts returns a copy of the current generation's counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Reset forces the breaker closed with fresh counts
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transition(StateClosed, time.Now())
}

// Execute runs req if the breaker admits it. Panics count as failures
// and are re-raised.
func (b *Breaker) Execute(req func() (interface{}, error)) (interface{}, error) {
	gen, err := b.admit()
	if err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			b.settle(gen, false)
			panic(r)
		}
	}()

	result, err := req()
	b.settle(gen, err == nil)
	return result, err
}

// admit decides whether a request may proceed, returning the generation
// the caller must report its outcome against
func (b *Breaker) admit() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.advance(time.Now())

	switch {
	case b.state == StateOpen:
		return b.gen, ErrCircuitOpen
	case b.state == StateHalfOpen && b.counts.Requests >= b.settings.MaxRequests:
		return b.gen, ErrTooManyRequests
	}

	b.counts.Requests++
	return b.gen, nil
}

// settle records a request outcome, ignoring it if the breaker has since
// moved to a new generation
func (b *Breaker) settle(gen uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.advance(now)
	if b.gen != gen {
		return
	}

	if success {
		b.counts.success()
		if b.state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.MaxRequests {
			b.transition(StateClosed, now)
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.counts.failure()
		if b.settings.ReadyToTrip(b.counts) {
			b.transition(StateOpen, now)
		}
	case StateHalfOpen:
		b.transition(StateOpen, now)
	}
}

// advance applies deadline-driven transitions. Callers hold b.mu.
func (b *Breaker) advance(now time.Time) {
	switch b.state {
	case StateClosed:
		if !b.deadline.IsZero() && now.After(b.deadline) {
			b.gen++
			b.counts = Counts{}
			b.deadline = now.Add(b.settings.Interval)
		}
	case StateOpen:
		if now.After(b.deadline) {
			b.transition(StateHalfOpen, now)
		}
	}
}

// transition moves to a new state and starts a new generation. Callers
// hold b.mu.
func (b *Breaker) transition(next State, now time.Time) {
	if b.state == next {
		return
	}

	prev := b.state
	b.state = next
	b.gen++
	b.counts = Counts{}

	switch next {
	case StateClosed:
		b.deadline = now.Add(b.settings.Interval)
	case StateOpen:
		b.deadline = now.Add(b.settings.Timeout)
	case StateHalfOpen:
		b.deadline = time.Time{}
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, next)
	}
}
