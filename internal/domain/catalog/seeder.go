package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/420btc/mymac/internal/infrastructure/logging"
	"github.com/420btc/mymac/internal/shared/types"
)

// Seeder loads the built-in apps and any extra manifests from disk.
type Seeder struct {
	manager *Manager
	appsDir string
	logger  *logging.Logger
}

// NewSeeder creates a catalog seeder.
func NewSeeder(manager *Manager, appsDir string, logger *logging.Logger) *Seeder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Seeder{
		manager: manager,
		appsDir: appsDir,
		logger:  logger.Component("seeder"),
	}
}

// Seed registers the built-in apps, then overlays manifests found in the
// apps directory. Built-ins never fail; a bad manifest file is logged and
// skipped.
func (s *Seeder) Seed() error {
	for _, manifest := range builtinApps() {
		if err := s.manager.Register(manifest); err != nil {
			return fmt.Errorf("failed to seed %s: %w", manifest.ID, err)
		}
	}
	s.logger.Info("Seeded built-in apps", zap.Int("count", len(builtinApps())))

	return s.loadManifestDir()
}

// loadManifestDir reads *.json manifests from the apps directory.
func (s *Seeder) loadManifestDir() error {
	if s.appsDir == "" {
		return nil
	}
	entries, err := os.ReadDir(s.appsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read apps directory: %w", err)
	}

	var loaded, failed int
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.appsDir, entry.Name())
		if err := s.loadManifest(path); err != nil {
			s.logger.Warn("Failed to load manifest",
				zap.String("file", entry.Name()),
				zap.Error(err),
			)
			failed++
			continue
		}
		loaded++
	}

	if loaded > 0 || failed > 0 {
		s.logger.Info("Loaded extra manifests",
			zap.Int("loaded", loaded),
			zap.Int("failed", failed),
		)
	}
	return nil
}

func (s *Seeder) loadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var manifest types.Manifest
	if err := sonic.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("invalid manifest JSON: %w", err)
	}
	if manifest.ID == "" {
		return fmt.Errorf("manifest missing id")
	}

	return s.manager.Register(&manifest)
}

// builtinApps returns the stock application set.
func builtinApps() []*types.Manifest {
	return []*types.Manifest{
		{
			ID:          "finder",
			Name:        "Finder",
			Description: "Browse and manage workspace files",
			Icon:        "finder",
			Category:    "files",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"finder"},
			Tags:        []string{"files", "browse"},
			DefaultSize: types.WindowSize{Width: 840, Height: 520},
			ShowInDock:  true,
		},
		{
			ID:          "calculator",
			Name:        "Calculator",
			Description: "Arithmetic, statistics and expression evaluation",
			Icon:        "calculator",
			Category:    "utility",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"calculator"},
			Tags:        []string{"math"},
			DefaultSize: types.WindowSize{Width: 320, Height: 480},
			ShowInDock:  true,
		},
		{
			ID:          "terminal",
			Name:        "Terminal",
			Description: "Shell sessions inside the desktop",
			Icon:        "terminal",
			Category:    "system",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"terminal"},
			Tags:        []string{"shell", "pty"},
			DefaultSize: types.WindowSize{Width: 720, Height: 440},
			ShowInDock:  true,
		},
		{
			ID:          "safari",
			Name:        "Safari",
			Description: "Fetch and read web pages",
			Icon:        "safari",
			Category:    "web",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"browser"},
			Tags:        []string{"web", "browser"},
			DefaultSize: types.WindowSize{Width: 1024, Height: 640},
			ShowInDock:  true,
		},
		{
			ID:          "settings",
			Name:        "System Settings",
			Description: "Desktop preferences, wallpaper and appearance",
			Icon:        "settings",
			Category:    "system",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"settings", "wallpaper"},
			Tags:        []string{"preferences"},
			DefaultSize: types.WindowSize{Width: 680, Height: 500},
			ShowInDock:  true,
		},
		{
			ID:          "activity",
			Name:        "Activity Monitor",
			Description: "Runtime statistics and the live window table",
			Icon:        "activity",
			Category:    "system",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"activity", "system"},
			Tags:        []string{"monitor"},
			DefaultSize: types.WindowSize{Width: 760, Height: 480},
			ShowInDock:  true,
		},
		{
			ID:          "clipboard",
			Name:        "Clipboard",
			Description: "Clipboard history viewer",
			Icon:        "clipboard",
			Category:    "utility",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"clipboard"},
			Tags:        []string{"clipboard"},
			DefaultSize: types.WindowSize{Width: 420, Height: 560},
			ShowInDock:  false,
		},
		{
			ID:          "account",
			Name:        "Users & Groups",
			Description: "Local user accounts",
			Icon:        "account",
			Category:    "account",
			Version:     "1.0.0",
			Author:      "system",
			Services:    []string{"account"},
			Tags:        []string{"users", "login"},
			DefaultSize: types.WindowSize{Width: 540, Height: 420},
			ShowInDock:  false,
		},
	}
}
