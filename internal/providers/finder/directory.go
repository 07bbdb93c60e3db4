package finder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/420btc/mymac/internal/shared/types"
)

// directoryOps covers listing and tree manipulation.
type directoryOps struct {
	*finderOps
}

func (d *directoryOps) getTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "finder.list",
			Name:        "List Directory",
			Description: "List directory entries, directories first",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Workspace-relative directory", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "finder.mkdir",
			Name:        "Create Directory",
			Description: "Create a directory including parents",
			Parameters: []types.Parameter{
				{Name: "path", Type: "string", Description: "Workspace-relative path", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "finder.move",
			Name:        "Move",
			Description: "Move or rename a file or directory",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source path", Required: true},
				{Name: "destination", Type: "string", Description: "Destination path", Required: true},
			},
			Returns: "boolean",
		},
		{
			ID:          "finder.copy",
			Name:        "Copy",
			Description: "Copy a file",
			Parameters: []types.Parameter{
				{Name: "source", Type: "string", Description: "Source path", Required: true},
				{Name: "destination", Type: "string", Description: "Destination path", Required: true},
			},
			Returns: "boolean",
		},
	}
}

func (d *directoryOps) list(params map[string]interface{}) (*types.Result, error) {
	rel, _ := params["path"].(string)
	if rel == "" {
		rel = "/"
	}

	abs, err := d.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return failure(fmt.Sprintf("list failed: %v", err))
	}

	infos := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		entryAbs := filepath.Join(abs, entry.Name())
		entryRel, err := d.ws.Relative(entryAbs)
		if err != nil {
			continue
		}
		infos = append(infos, d.fileInfo(entryRel, entryAbs, info))
	}

	// Finder ordering: directories first, then case-insensitive by name.
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].IsDir != infos[j].IsDir {
			return infos[i].IsDir
		}
		return infos[i].Name < infos[j].Name
	})

	return success(map[string]interface{}{
		"path":    rel,
		"entries": infos,
		"count":   len(infos),
	})
}

func (d *directoryOps) mkdir(params map[string]interface{}) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	abs, err := d.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}

	if err := os.MkdirAll(abs, 0o755); err != nil {
		return failure(fmt.Sprintf("mkdir failed: %v", err))
	}

	return success(map[string]interface{}{"created": true, "path": rel})
}

func (d *directoryOps) move(params map[string]interface{}) (*types.Result, error) {
	srcAbs, dstAbs, result := d.resolvePair(params)
	if result != nil {
		return result, nil
	}

	if err := os.MkdirAll(filepath.Dir(dstAbs), 0o755); err != nil {
		return failure(fmt.Sprintf("mkdir failed: %v", err))
	}
	if err := os.Rename(srcAbs, dstAbs); err != nil {
		return failure(fmt.Sprintf("move failed: %v", err))
	}

	return success(map[string]interface{}{"moved": true})
}

func (d *directoryOps) copy(params map[string]interface{}) (*types.Result, error) {
	srcAbs, dstAbs, result := d.resolvePair(params)
	if result != nil {
		return result, nil
	}

	info, err := os.Stat(srcAbs)
	if err != nil {
		return failure(fmt.Sprintf("stat failed: %v", err))
	}
	if info.IsDir() {
		return failure("copying directories is not supported")
	}
	if info.Size() > MaxFileSize {
		return failure(fmt.Sprintf("file exceeds maximum size of %d bytes", MaxFileSize))
	}

	src, err := os.Open(srcAbs)
	if err != nil {
		return failure(fmt.Sprintf("open failed: %v", err))
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(dstAbs), 0o755); err != nil {
		return failure(fmt.Sprintf("mkdir failed: %v", err))
	}
	dst, err := os.Create(dstAbs)
	if err != nil {
		return failure(fmt.Sprintf("create failed: %v", err))
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return failure(fmt.Sprintf("copy failed: %v", err))
	}

	return success(map[string]interface{}{"copied": true, "bytes": written})
}

// resolvePair resolves source and destination params. The third return is
// non-nil when resolution failed and holds the failure result.
func (d *directoryOps) resolvePair(params map[string]interface{}) (string, string, *types.Result) {
	source, ok := getString(params, "source")
	if !ok {
		res, _ := failure("source parameter required")
		return "", "", res
	}
	destination, ok := getString(params, "destination")
	if !ok {
		res, _ := failure("destination parameter required")
		return "", "", res
	}

	srcAbs, err := d.ws.Resolve(source)
	if err != nil {
		res, _ := failure(err.Error())
		return "", "", res
	}
	dstAbs, err := d.ws.Resolve(destination)
	if err != nil {
		res, _ := failure(err.Error())
		return "", "", res
	}

	return srcAbs, dstAbs, nil
}
