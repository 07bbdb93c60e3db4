package finder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/420btc/mymac/internal/shared/types"
	"github.com/gabriel-vasile/mimetype"
)

// basicOps covers single-file operations: read, write, stat, delete.
type basicOps struct {
	*finderOps
}

func (b *basicOps) getTools() []types.Tool {
	pathParam := types.Parameter{Name: "path", Type: "string", Description: "Workspace-relative path", Required: true}
	return []types.Tool{
		{
			ID:          "finder.read",
			Name:        "Read File",
			Description: "Read a file's contents",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "finder.write",
			Name:        "Write File",
			Description: "Write contents to a file, creating it if needed",
			Parameters: []types.Parameter{
				pathParam,
				{Name: "content", Type: "string", Description: "File contents", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "finder.stat",
			Name:        "Get Info",
			Description: "File metadata with detected MIME type",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "object",
		},
		{
			ID:          "finder.exists",
			Name:        "Exists",
			Description: "Check whether a path exists",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "boolean",
		},
		{
			ID:          "finder.delete",
			Name:        "Delete",
			Description: "Delete a file or empty directory",
			Parameters:  []types.Parameter{pathParam},
			Returns:     "boolean",
		},
	}
}

func (b *basicOps) read(params map[string]interface{}) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	abs, err := b.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}

	info, err := os.Stat(abs)
	if err != nil {
		return failure(fmt.Sprintf("stat failed: %v", err))
	}
	if info.IsDir() {
		return failure("path is a directory")
	}
	if info.Size() > MaxFileSize {
		return failure(fmt.Sprintf("file exceeds maximum size of %d bytes", MaxFileSize))
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return failure(fmt.Sprintf("read failed: %v", err))
	}

	return success(map[string]interface{}{
		"path":    rel,
		"content": string(data),
		"size":    len(data),
	})
}

func (b *basicOps) write(params map[string]interface{}) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	content, hasContent := params["content"].(string)
	if !hasContent {
		return failure("content parameter required")
	}
	if len(content) > MaxFileSize {
		return failure(fmt.Sprintf("content exceeds maximum size of %d bytes", MaxFileSize))
	}

	abs, err := b.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return failure(fmt.Sprintf("mkdir failed: %v", err))
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		return failure(fmt.Sprintf("write failed: %v", err))
	}

	return success(map[string]interface{}{
		"path":    rel,
		"written": len(content),
	})
}

func (b *basicOps) stat(params map[string]interface{}) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	abs, err := b.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}

	info, err := os.Stat(abs)
	if err != nil {
		return failure(fmt.Sprintf("stat failed: %v", err))
	}

	fi := b.fileInfo(rel, abs, info)

	return success(map[string]interface{}{
		"name":      fi.Name,
		"path":      fi.Path,
		"size":      fi.Size,
		"is_dir":    fi.IsDir,
		"mode":      fi.Mode,
		"modified":  fi.Modified,
		"extension": fi.Extension,
		"mime_type": fi.MimeType,
	})
}

func (b *basicOps) exists(params map[string]interface{}) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	abs, err := b.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}

	_, statErr := os.Stat(abs)
	return success(map[string]interface{}{"exists": statErr == nil})
}

func (b *basicOps) delete(params map[string]interface{}) (*types.Result, error) {
	rel, ok := getString(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	abs, err := b.ws.Resolve(rel)
	if err != nil {
		return failure(err.Error())
	}
	if abs == b.ws.Root() {
		return failure("cannot delete workspace root")
	}

	if err := os.Remove(abs); err != nil {
		return failure(fmt.Sprintf("delete failed: %v", err))
	}

	return success(map[string]interface{}{"deleted": true, "path": rel})
}

func (f *finderOps) fileInfo(rel, abs string, info os.FileInfo) FileInfo {
	fi := FileInfo{
		Name:     info.Name(),
		Path:     rel,
		Size:     info.Size(),
		IsDir:    info.IsDir(),
		Mode:     info.Mode().String(),
		Modified: info.ModTime(),
	}
	if !info.IsDir() {
		fi.Extension = strings.ToLower(filepath.Ext(info.Name()))
		if mtype, err := mimetype.DetectFile(abs); err == nil {
			fi.MimeType = mtype.String()
		}
	}
	return fi
}
