package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/types"
)

func TestRegisterAndGet(t *testing.T) {
	m := NewManager(nil)

	manifest := &types.Manifest{ID: "finder", Name: "Finder", Category: "files"}
	if err := m.Register(manifest); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get("finder")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Finder" {
		t.Errorf("name = %q, want Finder", got.Name)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps not set on register")
	}
}

func TestRegisterRequiresIDAndName(t *testing.T) {
	m := NewManager(nil)

	if err := m.Register(&types.Manifest{Name: "x"}); err == nil {
		t.Error("register without ID succeeded")
	}
	if err := m.Register(&types.Manifest{ID: "x"}); err == nil {
		t.Error("register without name succeeded")
	}
}

func TestGetUnknown(t *testing.T) {
	m := NewManager(nil)
	if _, err := m.Get("nope"); !errors.Is(err, ErrAppNotFound) {
		t.Errorf("Get unknown = %v, want ErrAppNotFound", err)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	m := NewManager(nil)
	m.Register(&types.Manifest{ID: "terminal", Name: "Terminal", Category: "system"})
	m.Register(&types.Manifest{ID: "finder", Name: "Finder", Category: "files"})
	m.Register(&types.Manifest{ID: "activity", Name: "Activity Monitor", Category: "system"})

	all := m.List(nil)
	if len(all) != 3 {
		t.Fatalf("list returned %d, want 3", len(all))
	}
	if all[0].Name != "Activity Monitor" || all[2].Name != "Terminal" {
		t.Errorf("list not sorted by name: %s ... %s", all[0].Name, all[2].Name)
	}

	system := "system"
	filtered := m.List(&system)
	if len(filtered) != 2 {
		t.Errorf("category filter returned %d, want 2", len(filtered))
	}
}

func TestDockApps(t *testing.T) {
	m := NewManager(nil)
	m.Register(&types.Manifest{ID: "finder", Name: "Finder", ShowInDock: true})
	m.Register(&types.Manifest{ID: "clipboard", Name: "Clipboard", ShowInDock: false})

	dock := m.DockApps()
	if len(dock) != 1 || dock[0].ID != "finder" {
		t.Errorf("dock apps = %v", dock)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	m := NewManager(st)
	if err := m.Register(&types.Manifest{ID: "safari", Name: "Safari"}); err != nil {
		t.Fatal(err)
	}

	// A fresh manager backed by the same store sees the manifest.
	fresh := NewManager(st)
	got, err := fresh.Get("safari")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Safari" {
		t.Errorf("name = %q after reload", got.Name)
	}
}

func TestSeederBuiltins(t *testing.T) {
	m := NewManager(nil)
	s := NewSeeder(m, "", nil)
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"finder", "calculator", "terminal", "safari"} {
		manifest, err := m.Get(id)
		if err != nil {
			t.Errorf("built-in %s missing: %v", id, err)
			continue
		}
		if !manifest.ShowInDock {
			t.Errorf("built-in %s not in dock", id)
		}
	}
}

func TestSeederLoadsManifestDir(t *testing.T) {
	dir := t.TempDir()
	manifest := `{"id":"notes","name":"Notes","icon":"notes","category":"utility","show_in_dock":true}`
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}
	// A broken file is skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewManager(nil)
	s := NewSeeder(m, dir, nil)
	if err := s.Seed(); err != nil {
		t.Fatal(err)
	}

	got, err := m.Get("notes")
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Notes" {
		t.Errorf("loaded manifest name = %q", got.Name)
	}
}

func TestRemoveAndStats(t *testing.T) {
	m := NewManager(nil)
	m.Register(&types.Manifest{ID: "finder", Name: "Finder", Category: "files", ShowInDock: true})
	m.Register(&types.Manifest{ID: "safari", Name: "Safari", Category: "web", ShowInDock: true})

	if err := m.Remove("finder"); err != nil {
		t.Fatal(err)
	}
	if err := m.Remove("finder"); !errors.Is(err, ErrAppNotFound) {
		t.Errorf("double remove = %v, want ErrAppNotFound", err)
	}

	stats := m.Stats()
	if stats.TotalApps != 1 || stats.DockApps != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Categories["web"] != 1 {
		t.Errorf("categories = %v", stats.Categories)
	}
}
