// Package dock implements the dock magnification engine.
//
// The dock holds an immutable list of icon descriptors and a per-icon
// render state (current scale and center position) that is eased toward
// target values every tick. Targets follow a cosine falloff inside a
// pointer-centered influence window; icons outside the window sit at the
// minimum scale.
//
// Components:
//   - Engine: owns all render state, single-goroutine tick loop
//   - Frame: one tick's snapshot of scales and centers
//   - Config: magnification tuning (sizes, factors, tolerance, FPS)
//
// Animation Model:
//   - scale(d) = min + (max-min) * 0.5 * (1 + cos(pi*d/w)) for |d| <= w
//   - cur += (target - cur) * factor, with a faster factor while the
//     pointer is active and a slower one while the dock settles
//   - the loop parks once every value is within tolerance of its target
//     and no pointer is active; pointer input wakes it again
//
// Example Usage:
//
//	engine := dock.NewEngine(cfg, icons)
//	go engine.Run(ctx)
//	engine.SetPointer(312)
//	frame := <-engine.Frames()
package dock
