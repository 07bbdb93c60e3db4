package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Dock      DockConfig
	Windows   WindowConfig
	Terminal  TerminalConfig
	Assets    AssetConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"9000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// DataConfig holds on-disk layout configuration.
type DataConfig struct {
	Dir       string `envconfig:"DATA_DIR" default:"./data"`
	Workspace string `envconfig:"WORKSPACE_DIR" default:"./data/workspace"`
}

// DockConfig holds dock magnification tuning.
type DockConfig struct {
	BaseSize   float64 `envconfig:"DOCK_BASE_SIZE" default:"56"`
	Spacing    float64 `envconfig:"DOCK_SPACING" default:"8"`
	MaxScale   float64 `envconfig:"DOCK_MAX_SCALE" default:"1.8"`
	MinScale   float64 `envconfig:"DOCK_MIN_SCALE" default:"1.0"`
	Influence  float64 `envconfig:"DOCK_INFLUENCE" default:"140"`
	ActiveLerp float64 `envconfig:"DOCK_ACTIVE_LERP" default:"0.35"`
	SettleLerp float64 `envconfig:"DOCK_SETTLE_LERP" default:"0.18"`
	Tolerance  float64 `envconfig:"DOCK_TOLERANCE" default:"0.01"`
	FrameRate  int     `envconfig:"DOCK_FRAME_RATE" default:"60"`
}

// WindowConfig holds window manager tuning.
type WindowConfig struct {
	ScreenWidth   int `envconfig:"SCREEN_WIDTH" default:"1440"`
	ScreenHeight  int `envconfig:"SCREEN_HEIGHT" default:"900"`
	CascadeStep   int `envconfig:"WINDOW_CASCADE_STEP" default:"28"`
	CascadeBaseX  int `envconfig:"WINDOW_CASCADE_BASE_X" default:"120"`
	CascadeBaseY  int `envconfig:"WINDOW_CASCADE_BASE_Y" default:"80"`
	MinWidth      int `envconfig:"WINDOW_MIN_WIDTH" default:"320"`
	MinHeight     int `envconfig:"WINDOW_MIN_HEIGHT" default:"240"`
	DefaultWidth  int `envconfig:"WINDOW_DEFAULT_WIDTH" default:"720"`
	DefaultHeight int `envconfig:"WINDOW_DEFAULT_HEIGHT" default:"480"`
}

// TerminalConfig holds terminal provider configuration.
type TerminalConfig struct {
	Shell       string `envconfig:"TERMINAL_SHELL" default:"/bin/bash"`
	MaxSessions int    `envconfig:"TERMINAL_MAX_SESSIONS" default:"8"`
}

// AssetConfig holds icon proxy configuration.
type AssetConfig struct {
	BaseURL      string `envconfig:"ASSET_BASE_URL" default:"https://img.icons8.com/color/96"`
	CacheEntries int    `envconfig:"ASSET_CACHE_ENTRIES" default:"128"`
	TimeoutSecs  int    `envconfig:"ASSET_TIMEOUT_SECS" default:"10"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "9000",
			Host: "0.0.0.0",
		},
		Data: DataConfig{
			Dir:       "./data",
			Workspace: "./data/workspace",
		},
		Dock: DockConfig{
			BaseSize:   56,
			Spacing:    8,
			MaxScale:   1.8,
			MinScale:   1.0,
			Influence:  140,
			ActiveLerp: 0.35,
			SettleLerp: 0.18,
			Tolerance:  0.01,
			FrameRate:  60,
		},
		Windows: WindowConfig{
			ScreenWidth:   1440,
			ScreenHeight:  900,
			CascadeStep:   28,
			CascadeBaseX:  120,
			CascadeBaseY:  80,
			MinWidth:      320,
			MinHeight:     240,
			DefaultWidth:  720,
			DefaultHeight: 480,
		},
		Terminal: TerminalConfig{
			Shell:       "/bin/bash",
			MaxSessions: 8,
		},
		Assets: AssetConfig{
			BaseURL:      "https://img.icons8.com/color/96",
			CacheEntries: 128,
			TimeoutSecs:  10,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
