// Package server assembles the desktop: config, logging, metrics, domain
// managers, providers, and the HTTP/WS surface.
package server

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "github.com/420btc/mymac/internal/api/http"
	"github.com/420btc/mymac/internal/api/middleware"
	"github.com/420btc/mymac/internal/api/ws"
	"github.com/420btc/mymac/internal/assets"
	"github.com/420btc/mymac/internal/domain/catalog"
	"github.com/420btc/mymac/internal/domain/desktop"
	"github.com/420btc/mymac/internal/domain/dock"
	"github.com/420btc/mymac/internal/domain/session"
	"github.com/420btc/mymac/internal/domain/window"
	"github.com/420btc/mymac/internal/infrastructure/config"
	"github.com/420btc/mymac/internal/infrastructure/logging"
	"github.com/420btc/mymac/internal/infrastructure/monitoring"
	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/infrastructure/tracing"
	"github.com/420btc/mymac/internal/providers/account"
	"github.com/420btc/mymac/internal/providers/activity"
	"github.com/420btc/mymac/internal/providers/browser"
	"github.com/420btc/mymac/internal/providers/calculator"
	"github.com/420btc/mymac/internal/providers/clipboard"
	"github.com/420btc/mymac/internal/providers/finder"
	"github.com/420btc/mymac/internal/providers/settings"
	"github.com/420btc/mymac/internal/providers/storage"
	"github.com/420btc/mymac/internal/providers/system"
	"github.com/420btc/mymac/internal/providers/terminal"
	"github.com/420btc/mymac/internal/providers/wallpaper"
	"github.com/420btc/mymac/internal/service"
	"github.com/420btc/mymac/internal/shared/paths"
)

// browserFetchTimeout bounds one upstream page fetch.
const browserFetchTimeout = 30 * time.Second

// Server wraps the HTTP server and its dependencies.
type Server struct {
	router   *gin.Engine
	desktop  *desktop.Desktop
	registry *service.Registry
	catalog  *catalog.Manager
	sessions *session.Manager
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics

	cancel context.CancelFunc
}

// NewServer creates a server instance.
func NewServer(cfg *config.Config) (*Server, error) {
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger.Info("Initializing mymac server",
		zap.String("port", cfg.Server.Port),
		zap.String("data_dir", cfg.Data.Dir),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("mymac", logger.Logger)

	st, err := store.New(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	workspace := paths.NewWorkspace(cfg.Data.Workspace)
	if err := workspace.EnsureLayout(); err != nil {
		return nil, fmt.Errorf("prepare workspace: %w", err)
	}

	// Catalog, seeded with the builtin apps plus any manifests dropped
	// into <data>/apps.
	cat := catalog.NewManager(st)
	seeder := catalog.NewSeeder(cat, filepath.Join(cfg.Data.Dir, "apps"), logger)
	if err := seeder.Seed(); err != nil {
		logger.Warn("Catalog seeding incomplete", zap.Error(err))
	}
	metrics.SetCatalogApps(cat.Stats().TotalApps)

	desk := desktop.New(cat, dockConfig(cfg.Dock), windowConfig(cfg.Windows), logger).
		WithMetrics(metrics)

	sessions := session.NewManager(desk.Windows(), desk.Dock(), st)

	registry := service.NewRegistry()
	registerProviders(registry, providerDeps{
		cfg:       cfg,
		store:     st,
		workspace: workspace,
		desktop:   desk,
		sessions:  sessions,
		logger:    logger,
	})

	iconProxy := assets.New(cfg.Assets, logger)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS())
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(cfg.RateLimit))
	}

	handlers := apihttp.NewHandlers(desk, cat, registry, sessions, metrics)
	wsHandler := ws.NewHandler(desk, logger, metrics)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Desktop state
	router.GET("/desktop", handlers.GetDesktop)
	router.GET("/dock/config", handlers.GetDockConfig)
	router.PATCH("/dock/config", handlers.PatchDockConfig)

	// Windows
	router.GET("/windows", handlers.ListWindows)
	router.GET("/windows/:id", handlers.GetWindow)
	router.POST("/windows/:id/open", handlers.OpenWindow)
	router.POST("/windows/:id/close", handlers.CloseWindow)
	router.POST("/windows/:id/minimize", handlers.MinimizeWindow)
	router.POST("/windows/:id/restore", handlers.RestoreWindow)
	router.POST("/windows/:id/focus", handlers.FocusWindow)
	router.POST("/windows/:id/move", handlers.MoveWindow)
	router.POST("/windows/:id/resize", handlers.ResizeWindow)

	// Catalog
	router.GET("/apps", handlers.ListApps)
	router.GET("/apps/:id", handlers.GetApp)

	// Providers
	router.GET("/services", handlers.ListServices)
	router.POST("/services/discover", handlers.DiscoverServices)
	router.POST("/services/execute", handlers.ExecuteService)

	// Sessions
	router.POST("/sessions/save", handlers.SaveSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.POST("/sessions/:id/restore", handlers.RestoreSession)
	router.DELETE("/sessions/:id", handlers.DeleteSession)

	// Assets
	router.GET("/assets/icon/:id", iconProxy.Handler())

	// WebSocket
	router.GET("/stream", wsHandler.HandleConnection)

	// Background loops: the dock tick loop and the WS fan-out hub.
	ctx, cancel := context.WithCancel(context.Background())
	go desk.Dock().Run(ctx)
	go wsHandler.Run(ctx)

	logger.Info("Server initialized",
		zap.Int("catalog_apps", cat.Stats().TotalApps),
		zap.Int("providers", len(registry.List(nil))),
	)

	return &Server{
		router:   router,
		desktop:  desk,
		registry: registry,
		catalog:  cat,
		sessions: sessions,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		cancel:   cancel,
	}, nil
}

// Router exposes the gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.logger.Info("Starting HTTP server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Close stops the background loops.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server")
	s.cancel()
	s.logger.Sync()
	return nil
}

// providerDeps carries everything the pane providers need.
type providerDeps struct {
	cfg       *config.Config
	store     *store.Store
	workspace *paths.Workspace
	desktop   *desktop.Desktop
	sessions  *session.Manager
	logger    *logging.Logger
}

func registerProviders(registry *service.Registry, deps providerDeps) {
	register := func(p service.Provider) {
		if err := registry.Register(p); err != nil {
			deps.logger.Warn("Failed to register provider",
				zap.String("service", p.Definition().ID),
				zap.Error(err),
			)
		}
	}

	// Core panes
	register(finder.NewProvider(deps.workspace))
	register(calculator.NewProvider())
	register(terminal.NewProvider(deps.cfg.Terminal.Shell, deps.cfg.Terminal.MaxSessions))
	register(browser.NewProvider(browserFetchTimeout))

	// Supplemental panes
	register(clipboard.NewProvider())
	register(system.NewProvider())
	register(activity.NewProvider(deps.desktop.Windows()))
	register(account.NewProvider(deps.store))
	register(storage.NewProvider(deps.store))

	// Settings and wallpaper also contribute state to session snapshots.
	settingsProvider := settings.NewProvider(deps.store)
	register(settingsProvider)
	deps.sessions.RegisterHook("settings", settingsProvider)

	wallpaperProvider := wallpaper.NewProvider(deps.store)
	register(wallpaperProvider)
	deps.sessions.RegisterHook("wallpaper", wallpaperProvider)
}

func dockConfig(cfg config.DockConfig) dock.Config {
	return dock.Config{
		BaseSize:   cfg.BaseSize,
		Spacing:    cfg.Spacing,
		MaxScale:   cfg.MaxScale,
		MinScale:   cfg.MinScale,
		Influence:  cfg.Influence,
		ActiveLerp: cfg.ActiveLerp,
		SettleLerp: cfg.SettleLerp,
		Tolerance:  cfg.Tolerance,
		FrameRate:  cfg.FrameRate,
	}
}

func windowConfig(cfg config.WindowConfig) window.Config {
	return window.Config{
		ScreenWidth:   cfg.ScreenWidth,
		ScreenHeight:  cfg.ScreenHeight,
		CascadeStep:   cfg.CascadeStep,
		CascadeBaseX:  cfg.CascadeBaseX,
		CascadeBaseY:  cfg.CascadeBaseY,
		MinWidth:      cfg.MinWidth,
		MinHeight:     cfg.MinHeight,
		DefaultWidth:  cfg.DefaultWidth,
		DefaultHeight: cfg.DefaultHeight,
	}
}
