package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Standard directories under the workspace root
const (
	Desktop      = "Desktop"
	Documents    = "Documents"
	Downloads    = "Downloads"
	Pictures     = "Pictures"
	Applications = "Applications"
)

// StandardDirectories returns all directories that should exist under the root
func StandardDirectories() []string {
	return []string{
		Desktop,
		Documents,
		Downloads,
		Pictures,
		Applications,
	}
}

// Workspace sandboxes path resolution to a single root directory
type Workspace struct {
	root string
}

// NewWorkspace creates a workspace rooted at the given directory
func NewWorkspace(root string) *Workspace {
	return &Workspace{root: filepath.Clean(root)}
}

// Root returns the workspace root
func (w *Workspace) Root() string {
	return w.root
}

// Resolve maps a workspace-relative path to an absolute path.
// Paths that would escape the root are rejected.
func (w *Workspace) Resolve(rel string) (string, error) {
	if strings.Contains(rel, "\x00") {
		return "", fmt.Errorf("path contains invalid characters")
	}

	cleaned := filepath.Clean("/" + rel)
	abs := filepath.Join(w.root, cleaned)

	if abs != w.root && !strings.HasPrefix(abs, w.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes workspace root", rel)
	}

	return abs, nil
}

// Relative maps an absolute path inside the workspace back to its
// workspace-relative form.
func (w *Workspace) Relative(abs string) (string, error) {
	rel, err := filepath.Rel(w.root, abs)
	if err != nil {
		return "", fmt.Errorf("path %q is not inside workspace: %w", abs, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is not inside workspace", abs)
	}
	if rel == "." {
		return "/", nil
	}
	return "/" + filepath.ToSlash(rel), nil
}

// Contains reports whether an absolute path lies inside the workspace
func (w *Workspace) Contains(abs string) bool {
	abs = filepath.Clean(abs)
	return abs == w.root || strings.HasPrefix(abs, w.root+string(filepath.Separator))
}

// EnsureLayout creates the root and all standard directories
func (w *Workspace) EnsureLayout() error {
	for _, dir := range StandardDirectories() {
		path := filepath.Join(w.root, dir)
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
