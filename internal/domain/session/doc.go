// Package session provides explicit save and restore of the desktop.
//
// A snapshot captures every window record (geometry included), the dock
// tuning and the state blobs of registered hooks (wallpaper, settings).
// Restoration replays windows through the window manager in two passes:
// records first, then focus order, so stacking indices stay strictly
// increasing.
//
// Snapshots are only written when the user asks; nothing here runs on
// drag or close.
package session
