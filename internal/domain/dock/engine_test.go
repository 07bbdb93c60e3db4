package dock

import (
	"context"
	"math"
	"testing"
	"time"
)

func testIcons(n int) []Icon {
	icons := make([]Icon, n)
	names := []string{"finder", "calculator", "terminal", "safari", "settings", "clipboard"}
	for i := range icons {
		name := names[i%len(names)]
		icons[i] = Icon{ID: name, Name: name, Image: name + ".png"}
	}
	return icons
}

func TestTargetScaleFalloff(t *testing.T) {
	e := NewEngine(DefaultConfig(), testIcons(6))
	cfg := e.Config()

	pointer := 200.0
	e.SetPointer(pointer)

	// Scale is monotonically non-increasing with distance inside the
	// influence window.
	prev := math.Inf(1)
	for d := 0.0; d <= cfg.Influence; d += 5 {
		s := e.TargetScale(pointer + d)
		if s > prev+1e-12 {
			t.Fatalf("scale increased with distance: d=%v scale=%v prev=%v", d, s, prev)
		}
		prev = s
	}

	// Exactly at the pointer the scale is the maximum.
	if got := e.TargetScale(pointer); math.Abs(got-cfg.MaxScale) > 1e-9 {
		t.Errorf("scale at pointer = %v, want %v", got, cfg.MaxScale)
	}

	// Outside the window the scale is the minimum.
	for _, d := range []float64{cfg.Influence + 1, cfg.Influence * 2, 1e6} {
		if got := e.TargetScale(pointer + d); got != cfg.MinScale {
			t.Errorf("scale outside window (d=%v) = %v, want %v", d, got, cfg.MinScale)
		}
		if got := e.TargetScale(pointer - d); got != cfg.MinScale {
			t.Errorf("scale outside window (d=-%v) = %v, want %v", d, got, cfg.MinScale)
		}
	}
}

func TestTargetScaleSymmetry(t *testing.T) {
	e := NewEngine(DefaultConfig(), testIcons(3))
	e.SetPointer(300)

	for d := 0.0; d <= 200; d += 12.5 {
		left := e.TargetScale(300 - d)
		right := e.TargetScale(300 + d)
		if math.Abs(left-right) > 1e-9 {
			t.Fatalf("falloff asymmetric at d=%v: left=%v right=%v", d, left, right)
		}
	}
}

func TestTargetScaleNoPointer(t *testing.T) {
	e := NewEngine(DefaultConfig(), testIcons(3))
	cfg := e.Config()

	e.SetPointer(100)
	e.ClearPointer()

	for _, center := range []float64{0, 50, 100, 500} {
		if got := e.TargetScale(center); got != cfg.MinScale {
			t.Errorf("scale with no pointer = %v, want %v", got, cfg.MinScale)
		}
	}
}

func TestLerpNeverOvershoots(t *testing.T) {
	cases := []struct{ cur, target, factor float64 }{
		{0, 1, 0.35},
		{1, 0, 0.35},
		{-5, 5, 0.18},
		{100, 100, 0.5},
		{2.5, 2.4, 0.99},
	}
	for _, tc := range cases {
		next := lerp(tc.cur, tc.target, tc.factor)
		before := math.Abs(tc.cur - tc.target)
		after := math.Abs(next - tc.target)
		if before > 0 && after >= before {
			t.Errorf("lerp(%v, %v, %v) did not reduce distance: %v -> %v",
				tc.cur, tc.target, tc.factor, before, after)
		}
		// Never past the target.
		if (tc.target-tc.cur)*(tc.target-next) < 0 {
			t.Errorf("lerp(%v, %v, %v) overshot to %v", tc.cur, tc.target, tc.factor, next)
		}
	}
}

func TestStepConvergesAndParks(t *testing.T) {
	e := NewEngine(DefaultConfig(), testIcons(4))

	e.SetPointer(e.Width() / 2)

	// While the pointer is active the dock keeps animating.
	frame, animating := e.Step()
	if !animating {
		t.Fatal("dock reported settled with an active pointer")
	}
	if len(frame.Scales) != 4 || len(frame.Centers) != 4 {
		t.Fatalf("frame has %d scales, %d centers, want 4 each", len(frame.Scales), len(frame.Centers))
	}

	// Distance to target must shrink every tick.
	prevDist := math.Inf(1)
	for i := 0; i < 50; i++ {
		f, _ := e.Step()
		dist := 0.0
		tgtScales, tgtCenters := e.targets()
		for j := range f.Scales {
			dist += math.Abs(f.Scales[j]-tgtScales[j]) + math.Abs(f.Centers[j]-tgtCenters[j])
		}
		if dist > prevDist+1e-9 {
			t.Fatalf("tick %d moved away from target: %v -> %v", i, prevDist, dist)
		}
		prevDist = dist
	}

	// With the pointer gone the dock settles to rest and stops.
	e.ClearPointer()
	settled := false
	for i := 0; i < 500; i++ {
		if _, animating := e.Step(); !animating {
			settled = true
			break
		}
	}
	if !settled {
		t.Fatal("dock never settled after pointer cleared")
	}

	cfg := e.Config()
	frame, _ = e.Step()
	for i, s := range frame.Scales {
		if s != cfg.MinScale {
			t.Errorf("icon %d settled at scale %v, want %v", i, s, cfg.MinScale)
		}
	}
}

func TestMagnifiedIconsPushNeighbors(t *testing.T) {
	e := NewEngine(DefaultConfig(), testIcons(5))
	rest := e.restingCenters()

	// Pointer over the first icon: later icons shift right of rest.
	e.SetPointer(rest[0])
	_, centers := e.targets()
	for i := 1; i < len(centers); i++ {
		if centers[i] <= rest[i] {
			t.Errorf("icon %d center %v not pushed past resting %v", i, centers[i], rest[i])
		}
	}

	// Centers stay strictly ordered regardless of magnification.
	for i := 1; i < len(centers); i++ {
		if centers[i] <= centers[i-1] {
			t.Errorf("centers out of order at %d: %v <= %v", i, centers[i], centers[i-1])
		}
	}
}

func TestConfigNormalizeClampsDegenerateTuning(t *testing.T) {
	cfg := Config{
		BaseSize:   -10,
		MaxScale:   0.5,
		MinScale:   2.0, // max < min
		Influence:  0,
		ActiveLerp: 1.5,
		SettleLerp: -1,
		Tolerance:  0,
		FrameRate:  0,
	}.normalize()

	if cfg.BaseSize <= 0 || cfg.Influence <= 0 || cfg.FrameRate <= 0 {
		t.Errorf("normalize left non-positive dimensions: %+v", cfg)
	}
	if cfg.MaxScale < cfg.MinScale {
		t.Errorf("normalize left max < min: %+v", cfg)
	}
	if cfg.ActiveLerp <= 0 || cfg.ActiveLerp >= 1 || cfg.SettleLerp <= 0 || cfg.SettleLerp >= 1 {
		t.Errorf("normalize left factors outside (0,1): %+v", cfg)
	}

	// A degenerate config still produces finite scales.
	e := NewEngine(cfg, testIcons(2))
	e.SetPointer(0)
	frame, _ := e.Step()
	for _, s := range frame.Scales {
		if math.IsNaN(s) || s < cfg.MinScale {
			t.Errorf("degenerate config produced scale %v", s)
		}
	}
}

func TestRunPublishesFramesAndParks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameRate = 240 // fast test
	e := NewEngine(cfg, testIcons(3))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		e.Run(ctx)
		close(done)
	}()

	e.SetPointer(40)

	select {
	case frame := <-e.Frames():
		if len(frame.Scales) != 3 {
			t.Errorf("frame has %d scales, want 3", len(frame.Scales))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no frame published after pointer input")
	}

	e.ClearPointer()

	// Drain until the settle frame arrives.
	deadline := time.After(2 * time.Second)
	for settled := false; !settled; {
		select {
		case frame := <-e.Frames():
			settled = !frame.Animating
		case <-deadline:
			t.Fatal("dock never published a settle frame")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit on context cancel")
	}
}

func TestSetIconsResetsState(t *testing.T) {
	e := NewEngine(DefaultConfig(), testIcons(2))
	e.SetPointer(10)
	e.Step()

	e.SetIcons(testIcons(5))
	frame, _ := e.Step()
	if len(frame.Scales) != 5 {
		t.Fatalf("frame has %d scales after SetIcons, want 5", len(frame.Scales))
	}
}
