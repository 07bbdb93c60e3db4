package dock

import (
	"context"
	"math"
	"sync"
	"time"
)

// Icon describes one dock entry. Immutable once registered.
type Icon struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Config holds magnification tuning.
type Config struct {
	BaseSize   float64 // icon edge length at rest, px
	Spacing    float64 // gap between icons, px
	MaxScale   float64 // scale at the pointer
	MinScale   float64 // scale outside the influence window
	Influence  float64 // influence half-width, px
	ActiveLerp float64 // easing factor while the pointer is active
	SettleLerp float64 // easing factor while settling to rest
	Tolerance  float64 // settle threshold per value
	FrameRate  int     // ticks per second for Run
}

// DefaultConfig returns the stock magnification tuning.
func DefaultConfig() Config {
	return Config{
		BaseSize:   56,
		Spacing:    8,
		MaxScale:   1.8,
		MinScale:   1.0,
		Influence:  140,
		ActiveLerp: 0.35,
		SettleLerp: 0.18,
		Tolerance:  0.01,
		FrameRate:  60,
	}
}

// normalize clamps nonsensical tuning so the engine never divides by zero
// or produces NaN scales.
func (c Config) normalize() Config {
	if c.BaseSize <= 0 {
		c.BaseSize = 1
	}
	if c.Spacing < 0 {
		c.Spacing = 0
	}
	if c.MinScale <= 0 {
		c.MinScale = 0.01
	}
	if c.MaxScale < c.MinScale {
		c.MaxScale = c.MinScale
	}
	if c.Influence <= 0 {
		c.Influence = 1
	}
	if c.ActiveLerp <= 0 || c.ActiveLerp >= 1 {
		c.ActiveLerp = 0.35
	}
	if c.SettleLerp <= 0 || c.SettleLerp >= 1 {
		c.SettleLerp = 0.18
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 0.01
	}
	if c.FrameRate <= 0 {
		c.FrameRate = 60
	}
	return c
}

// Frame is one tick's render state: parallel sequences, one entry per icon.
type Frame struct {
	Scales    []float64 `json:"scales"`
	Centers   []float64 `json:"centers"`
	Animating bool      `json:"animating"`
}

// Engine owns the dock render state. All state behind mu; the Run loop is
// the only long-lived writer, but Step is exported so tests and callers
// without a loop can tick synchronously.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	icons   []Icon
	pointer *float64 // cursor offset along the dock, nil when outside

	scales  []float64 // current, eased
	centers []float64 // current, eased

	frames chan Frame
	wake   chan struct{}

	onFrame func() // optional frame counter hook
}

// NewEngine creates an engine at rest for the given icon list.
func NewEngine(cfg Config, icons []Icon) *Engine {
	e := &Engine{
		cfg:    cfg.normalize(),
		icons:  append([]Icon(nil), icons...),
		frames: make(chan Frame, 8),
		wake:   make(chan struct{}, 1),
	}
	e.reset()
	return e
}

// OnFrame installs a hook invoked once per published frame.
func (e *Engine) OnFrame(fn func()) {
	e.mu.Lock()
	e.onFrame = fn
	e.mu.Unlock()
}

// reset snaps current values to the resting layout. Caller holds mu or has
// exclusive access.
func (e *Engine) reset() {
	n := len(e.icons)
	e.scales = make([]float64, n)
	e.centers = make([]float64, n)
	rest := e.restingCenters()
	for i := range e.icons {
		e.scales[i] = e.cfg.MinScale
		e.centers[i] = rest[i]
	}
}

// Icons returns the icon list.
func (e *Engine) Icons() []Icon {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Icon(nil), e.icons...)
}

// Config returns the current tuning.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Reconfigure swaps the tuning and wakes the loop so the dock eases into
// the new layout.
func (e *Engine) Reconfigure(cfg Config) {
	e.mu.Lock()
	e.cfg = cfg.normalize()
	e.mu.Unlock()
	e.poke()
}

// SetIcons replaces the icon list and snaps the render state to rest.
func (e *Engine) SetIcons(icons []Icon) {
	e.mu.Lock()
	e.icons = append([]Icon(nil), icons...)
	e.reset()
	e.mu.Unlock()
	e.poke()
}

// SetPointer reports the cursor offset along the dock's axis.
func (e *Engine) SetPointer(offset float64) {
	e.mu.Lock()
	e.pointer = &offset
	e.mu.Unlock()
	e.poke()
}

// ClearPointer reports that the cursor left the dock.
func (e *Engine) ClearPointer() {
	e.mu.Lock()
	e.pointer = nil
	e.mu.Unlock()
	e.poke()
}

// Frames returns the frame subscription channel. Frames are dropped, not
// queued, when the consumer falls behind.
func (e *Engine) Frames() <-chan Frame {
	return e.frames
}

// Width returns the dock row width at rest.
func (e *Engine) Width() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := float64(len(e.icons))
	if n == 0 {
		return 0
	}
	return n*e.cfg.BaseSize + (n-1)*e.cfg.Spacing
}

// TargetScale computes the magnification target for an icon centered at
// the given resting offset. Pure; exposed for tests and layout previews.
func (e *Engine) TargetScale(center float64) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.targetScale(center)
}

func (e *Engine) targetScale(center float64) float64 {
	if e.pointer == nil {
		return e.cfg.MinScale
	}
	d := math.Abs(center - *e.pointer)
	if d > e.cfg.Influence {
		return e.cfg.MinScale
	}
	s := e.cfg.MinScale + (e.cfg.MaxScale-e.cfg.MinScale)*0.5*(1+math.Cos(math.Pi*d/e.cfg.Influence))
	if s < e.cfg.MinScale {
		s = e.cfg.MinScale
	}
	return s
}

// restingCenters lays icons out left to right at minimum scale.
func (e *Engine) restingCenters() []float64 {
	centers := make([]float64, len(e.icons))
	x := 0.0
	for i := range e.icons {
		centers[i] = x + e.cfg.BaseSize/2
		x += e.cfg.BaseSize + e.cfg.Spacing
	}
	return centers
}

// targets recomputes per-icon target scale and center. Magnified icons
// widen in place, pushing later icons outward, so centers track scale.
func (e *Engine) targets() (scales, centers []float64) {
	n := len(e.icons)
	scales = make([]float64, n)
	centers = make([]float64, n)

	rest := e.restingCenters()
	for i := range e.icons {
		scales[i] = e.targetScale(rest[i])
	}

	x := 0.0
	for i := range e.icons {
		w := e.cfg.BaseSize * scales[i]
		centers[i] = x + w/2
		x += w + e.cfg.Spacing
	}
	return scales, centers
}

// Step advances the render state one tick and reports whether the dock is
// still animating. A dock at rest with no pointer returns false, which is
// the loop's signal to park.
func (e *Engine) Step() (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	targetScales, targetCenters := e.targets()

	factor := e.cfg.SettleLerp
	if e.pointer != nil {
		factor = e.cfg.ActiveLerp
	}

	settled := true
	for i := range e.scales {
		e.scales[i] = lerp(e.scales[i], targetScales[i], factor)
		e.centers[i] = lerp(e.centers[i], targetCenters[i], factor)
		if math.Abs(e.scales[i]-targetScales[i]) > e.cfg.Tolerance ||
			math.Abs(e.centers[i]-targetCenters[i]) > e.cfg.Tolerance {
			settled = false
		}
	}
	if settled {
		// Snap so a parked dock renders exact resting values.
		copy(e.scales, targetScales)
		copy(e.centers, targetCenters)
	}

	animating := e.pointer != nil || !settled
	return Frame{
		Scales:    append([]float64(nil), e.scales...),
		Centers:   append([]float64(nil), e.centers...),
		Animating: animating,
	}, animating
}

// Run ticks the engine at the configured frame rate, publishing a frame
// per tick while animating. Once settled with no pointer the loop parks
// until the next input. Blocks until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	interval := time.Second / time.Duration(e.cfg.FrameRate)
	e.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	parked := true
	for {
		if parked {
			select {
			case <-ctx.Done():
				return
			case <-e.wake:
				parked = false
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-e.wake:
			// Input while running; fall through to the next tick.
		case <-ticker.C:
			frame, animating := e.Step()
			e.publish(frame)
			if !animating {
				parked = true
			}
		}
	}
}

func (e *Engine) publish(frame Frame) {
	e.mu.Lock()
	hook := e.onFrame
	e.mu.Unlock()
	if hook != nil {
		hook()
	}
	select {
	case e.frames <- frame:
	default:
	}
}

// poke wakes a parked Run loop without blocking.
func (e *Engine) poke() {
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// lerp eases cur toward target by factor. With 0 < factor < 1 the result
// never overshoots.
func lerp(cur, target, factor float64) float64 {
	return cur + (target-cur)*factor
}
