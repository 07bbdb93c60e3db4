package activity

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/420btc/mymac/internal/shared/types"
)

// Windows is the window table consumed by the activity monitor.
type Windows interface {
	List() []types.Window
	Stats() types.WindowStats
}

// Provider implements the Activity Monitor backend: runtime resource
// statistics plus the live window table standing in for a process list.
type Provider struct {
	windows   Windows
	startTime time.Time
}

// MemoryStats represents memory usage.
type MemoryStats struct {
	Allocated    uint64  `json:"allocated_bytes"`
	Total        uint64  `json:"total_bytes"`
	System       uint64  `json:"system_bytes"`
	NumGC        uint32  `json:"num_gc"`
	UsagePercent float64 `json:"usage_percent"`
}

// CPUStats represents scheduler-level CPU information.
type CPUStats struct {
	Cores      int `json:"cores"`
	Threads    int `json:"threads"`
	Goroutines int `json:"goroutines"`
}

// WindowRow is one row of the activity table.
type WindowRow struct {
	AppID     string `json:"app_id"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Z         int    `json:"z"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	FocusedAt int64  `json:"focused_at,omitempty"`
}

// NewProvider creates an activity provider over the given window table.
func NewProvider(windows Windows) *Provider {
	return &Provider{
		windows:   windows,
		startTime: time.Now(),
	}
}

// Definition returns service metadata.
func (a *Provider) Definition() types.Service {
	return types.Service{
		ID:          "activity",
		Name:        "Activity Monitor",
		Description: "Runtime resource statistics and the live window table",
		Category:    types.CategorySystem,
		Capabilities: []string{
			"system_stats",
			"window_table",
			"memory_stats",
		},
		Tools: []types.Tool{
			{
				ID:          "activity.overview",
				Name:        "Get Overview",
				Description: "Current memory, CPU and window counts in one call",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "activity.windows",
				Name:        "List Windows",
				Description: "List all windows with state and geometry, frontmost first",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "activity.memory",
				Name:        "Get Memory Details",
				Description: "Detailed memory usage breakdown",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "activity.cpu",
				Name:        "Get CPU Details",
				Description: "Scheduler and CPU information",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs an activity operation.
func (a *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "activity.overview":
		return a.overview()
	case "activity.windows":
		return a.windowTable()
	case "activity.memory":
		return a.memoryDetails()
	case "activity.cpu":
		return a.cpuDetails()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (a *Provider) overview() (*types.Result, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	usage := 0.0
	if memStats.Sys > 0 {
		usage = float64(memStats.Alloc) / float64(memStats.Sys) * 100
	}

	mem := MemoryStats{
		Allocated:    memStats.Alloc,
		Total:        memStats.TotalAlloc,
		System:       memStats.Sys,
		NumGC:        memStats.NumGC,
		UsagePercent: usage,
	}
	cpu := CPUStats{
		Cores:      runtime.NumCPU(),
		Threads:    runtime.GOMAXPROCS(0),
		Goroutines: runtime.NumGoroutine(),
	}

	winStats := types.WindowStats{}
	if a.windows != nil {
		winStats = a.windows.Stats()
	}

	return success(map[string]interface{}{
		"timestamp":      time.Now().Unix(),
		"memory":         mem,
		"cpu":            cpu,
		"windows":        winStats,
		"uptime_seconds": time.Since(a.startTime).Seconds(),
	})
}

func (a *Provider) windowTable() (*types.Result, error) {
	rows := []WindowRow{}
	if a.windows != nil {
		wins := a.windows.List()
		sort.Slice(wins, func(i, j int) bool { return wins[i].Z > wins[j].Z })
		for _, w := range wins {
			state := "open"
			switch {
			case !w.Open:
				state = "closed"
			case w.Minimized:
				state = "minimized"
			}
			rows = append(rows, WindowRow{
				AppID:  w.AppID,
				Title:  w.Title,
				State:  state,
				Z:      w.Z,
				Width:  w.Size.Width,
				Height: w.Size.Height,
			})
		}
	}

	return success(map[string]interface{}{
		"windows": rows,
		"count":   len(rows),
	})
}

func (a *Provider) memoryDetails() (*types.Result, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return success(map[string]interface{}{
		"alloc":          memStats.Alloc,
		"total_alloc":    memStats.TotalAlloc,
		"sys":            memStats.Sys,
		"mallocs":        memStats.Mallocs,
		"frees":          memStats.Frees,
		"heap_alloc":     memStats.HeapAlloc,
		"heap_sys":       memStats.HeapSys,
		"heap_idle":      memStats.HeapIdle,
		"heap_inuse":     memStats.HeapInuse,
		"heap_objects":   memStats.HeapObjects,
		"stack_inuse":    memStats.StackInuse,
		"gc_sys":         memStats.GCSys,
		"num_gc":         memStats.NumGC,
		"pause_total_ns": memStats.PauseTotalNs,
	})
}

func (a *Provider) cpuDetails() (*types.Result, error) {
	return success(map[string]interface{}{
		"num_cpu":       runtime.NumCPU(),
		"gomaxprocs":    runtime.GOMAXPROCS(0),
		"num_goroutine": runtime.NumGoroutine(),
		"num_cgo_call":  runtime.NumCgoCall(),
	})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	errMsg := message
	return &types.Result{Success: false, Error: &errMsg}, nil
}
