package finder

import (
	"time"

	"github.com/420btc/mymac/internal/shared/paths"
	"github.com/420btc/mymac/internal/shared/types"
)

// MaxFileSize caps reads and previews at 10MB.
const MaxFileSize = 10 * 1024 * 1024

// FileInfo represents file metadata as shown in a Finder column.
type FileInfo struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	IsDir     bool      `json:"is_dir"`
	Mode      string    `json:"mode"`
	Modified  time.Time `json:"modified"`
	Extension string    `json:"extension,omitempty"`
	MimeType  string    `json:"mime_type,omitempty"`
}

// finderOps is the shared base for the finder's operation groups. All
// paths are workspace-relative and resolved through the sandbox.
type finderOps struct {
	ws *paths.Workspace
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

func getString(params map[string]interface{}, key string) (string, bool) {
	val, ok := params[key].(string)
	return val, ok && val != ""
}

func getBool(params map[string]interface{}, key string, def bool) bool {
	if val, ok := params[key].(bool); ok {
		return val
	}
	return def
}

func getInt(params map[string]interface{}, key string, def int) int {
	if val, ok := params[key].(float64); ok {
		return int(val)
	}
	return def
}
