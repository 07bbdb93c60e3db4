// Package window implements the desktop window manager.
//
// The manager keeps one record per application identifier. Records are
// created on first open with a cascade-offset position and the next
// stacking index, and are never destroyed: closing a window clears its
// open flag but keeps the geometry, so reopening restores the last
// position instead of recentering.
//
// Semantics:
//   - Open: create-or-refocus; restores a minimized window
//   - Close: open=false, record retained
//   - Focus: assigns the next strictly increasing stacking index
//   - Move/Resize: geometry updates, sizes clamped to configured minimums
//   - Get on an unknown identifier fails with ErrWindowNotFound
//
// The manager is a state mapping, not a scheduler; there is no z-order
// policy beyond the monotonic stacking index.
package window
