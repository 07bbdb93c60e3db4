// Package types provides shared data structures for the mymac backend.
//
// This package defines core types used across all backend components,
// ensuring type safety and consistent data structures.
//
// Core Types:
//   - Window: Window record owned by the window manager
//   - Manifest: Installable application entry in the catalog
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Snapshot: Saved desktop session
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Request Types:
//   - ExecuteRequest: Service tool execution
//   - MoveRequest, ResizeRequest: Window geometry updates
//   - SaveSessionRequest: Session capture
//
// State Management:
//   - WindowPosition, WindowSize: Window geometry
//   - WindowStats: Window manager statistics
//
// Example Usage:
//
//	win := &types.Window{
//	    ID:    string(id.NewWindowID()),
//	    AppID: "calculator",
//	    Title: "Calculator",
//	    Open:  true,
//	}
package types
