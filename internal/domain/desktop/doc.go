// Package desktop couples the dock, the window manager and the app
// catalog into one coordinator.
//
// The desktop builds the dock's icon row from the catalog, routes dock
// clicks to window operations (open, restore or focus, per the window
// manager's contract) and fans window events out to subscribers. The
// WebSocket layer is one subscriber; tests are another.
package desktop
