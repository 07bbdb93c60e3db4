// Package main is the entry point for the mymac desktop server.
//
// The server hosts a macOS-style desktop simulation for a browser frontend:
// a dock with cosine magnification, a retained-geometry window manager, and
// a set of mock application panes (Finder, Calculator, Terminal, Safari and
// friends) exposed as service providers.
//
// The server provides:
//   - REST API for desktop state, windows, catalog and sessions
//   - WebSocket stream for dock frames and window events
//   - Service provider registry with per-tool execution
//   - Icon proxy with an in-memory cache
//   - Rate limiting and prometheus metrics
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	./server -port 9000 -data ./data
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
