// Package paths defines the on-disk workspace layout served to desktop apps.
//
// Every file operation exposed through the Finder pane resolves against a
// single workspace root; this package owns the standard directory names
// under that root and the sandboxing rules that keep resolved paths inside
// it.
//
// # Directory Structure
//
//	<root>/
//	  ├── Desktop/
//	  ├── Documents/
//	  ├── Downloads/
//	  ├── Pictures/
//	  └── Applications/
//
// # Usage
//
//	ws := paths.NewWorkspace("/var/lib/mymac/workspace")
//
//	// Resolve a user-supplied relative path, rejecting escapes
//	abs, err := ws.Resolve("Documents/notes.txt")
//
//	// Ensure the standard directories exist
//	err = ws.EnsureLayout()
package paths
