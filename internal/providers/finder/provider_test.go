package finder

import (
	"context"
	"testing"

	"github.com/420btc/mymac/internal/shared/paths"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	ws := paths.NewWorkspace(t.TempDir())
	if err := ws.EnsureLayout(); err != nil {
		t.Fatalf("EnsureLayout: %v", err)
	}
	return NewProvider(ws)
}

func TestWriteReadRoundTrip(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	result, err := p.Execute(ctx, "finder.write", map[string]interface{}{
		"path":    "Documents/notes.txt",
		"content": "hello",
	}, nil)
	if err != nil || !result.Success {
		t.Fatalf("write failed: %v %v", err, result.Error)
	}

	result, _ = p.Execute(ctx, "finder.read", map[string]interface{}{
		"path": "Documents/notes.txt",
	}, nil)
	if !result.Success || result.Data["content"] != "hello" {
		t.Errorf("read = %v, want hello", result.Data["content"])
	}
}

func TestPathEscapeRejected(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	for _, path := range []string{"../outside.txt", "Documents/../../etc/passwd"} {
		result, _ := p.Execute(ctx, "finder.write", map[string]interface{}{
			"path":    path,
			"content": "x",
		}, nil)
		// Clean collapses the traversal inside the root, or resolution
		// rejects it; either way nothing outside the workspace is written.
		if result.Success {
			abs, err := p.basic.ws.Resolve(path)
			if err != nil || !p.basic.ws.Contains(abs) {
				t.Errorf("write to %q escaped the workspace", path)
			}
		}
	}
}

func TestListDirectoriesFirst(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/a.txt", "content": "a",
	}, nil)
	p.Execute(ctx, "finder.mkdir", map[string]interface{}{
		"path": "Documents/sub",
	}, nil)

	result, _ := p.Execute(ctx, "finder.list", map[string]interface{}{
		"path": "Documents",
	}, nil)
	if !result.Success {
		t.Fatal("list failed")
	}
	entries := result.Data["entries"].([]FileInfo)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if !entries[0].IsDir {
		t.Error("directories should sort before files")
	}
}

func TestStatDetectsMimeType(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path":    "Documents/data.json",
		"content": `{"a": 1}`,
	}, nil)

	result, _ := p.Execute(ctx, "finder.stat", map[string]interface{}{
		"path": "Documents/data.json",
	}, nil)
	if !result.Success {
		t.Fatal("stat failed")
	}
	if result.Data["extension"] != ".json" {
		t.Errorf("extension = %v, want .json", result.Data["extension"])
	}
	if result.Data["mime_type"] == "" {
		t.Error("expected a detected mime type")
	}
}

func TestMoveAndCopy(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/src.txt", "content": "payload",
	}, nil)

	result, _ := p.Execute(ctx, "finder.copy", map[string]interface{}{
		"source": "Documents/src.txt", "destination": "Downloads/copy.txt",
	}, nil)
	if !result.Success {
		t.Fatalf("copy failed: %v", result.Error)
	}

	result, _ = p.Execute(ctx, "finder.move", map[string]interface{}{
		"source": "Documents/src.txt", "destination": "Desktop/moved.txt",
	}, nil)
	if !result.Success {
		t.Fatalf("move failed: %v", result.Error)
	}

	result, _ = p.Execute(ctx, "finder.exists", map[string]interface{}{
		"path": "Documents/src.txt",
	}, nil)
	if result.Data["exists"].(bool) {
		t.Error("source should be gone after move")
	}
	result, _ = p.Execute(ctx, "finder.read", map[string]interface{}{
		"path": "Downloads/copy.txt",
	}, nil)
	if result.Data["content"] != "payload" {
		t.Error("copy should preserve contents")
	}
}

func TestGlobSearch(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/a/deep.md", "content": "x",
	}, nil)
	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/top.md", "content": "x",
	}, nil)
	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/skip.txt", "content": "x",
	}, nil)

	result, _ := p.Execute(ctx, "finder.glob", map[string]interface{}{
		"pattern": "Documents/**/*.md",
	}, nil)
	if !result.Success {
		t.Fatalf("glob failed: %v", result.Error)
	}
	if result.Data["count"].(int) != 2 {
		t.Errorf("glob count = %v, want 2 (%v)", result.Data["count"], result.Data["matches"])
	}
}

func TestNameSearch(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/report-2026.txt", "content": "x",
	}, nil)

	result, _ := p.Execute(ctx, "finder.search", map[string]interface{}{
		"query": "report",
	}, nil)
	if !result.Success || result.Data["count"].(int) != 1 {
		t.Errorf("search count = %v, want 1", result.Data["count"])
	}
}

func TestZipRoundTrip(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path": "Documents/proj/readme.txt", "content": "hello zip",
	}, nil)

	result, _ := p.Execute(ctx, "finder.zip.create", map[string]interface{}{
		"source": "Documents/proj", "output": "Downloads/proj.zip",
	}, nil)
	if !result.Success {
		t.Fatalf("zip.create failed: %v", result.Error)
	}

	result, _ = p.Execute(ctx, "finder.zip.list", map[string]interface{}{
		"archive": "Downloads/proj.zip",
	}, nil)
	if !result.Success || result.Data["count"].(int) != 1 {
		t.Fatalf("zip.list count = %v, want 1", result.Data["count"])
	}

	result, _ = p.Execute(ctx, "finder.zip.extract", map[string]interface{}{
		"archive": "Downloads/proj.zip", "destination": "Desktop/out",
	}, nil)
	if !result.Success {
		t.Fatalf("zip.extract failed: %v", result.Error)
	}

	result, _ = p.Execute(ctx, "finder.read", map[string]interface{}{
		"path": "Desktop/out/readme.txt",
	}, nil)
	if result.Data["content"] != "hello zip" {
		t.Error("extracted file should match original")
	}
}

func TestFormatConvert(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "finder.write", map[string]interface{}{
		"path":    "Documents/cfg.json",
		"content": `{"name": "mymac", "port": 9000}`,
	}, nil)

	result, _ := p.Execute(ctx, "finder.convert", map[string]interface{}{
		"source": "Documents/cfg.json",
		"output": "Documents/cfg.yaml",
		"to":     "yaml",
	}, nil)
	if !result.Success {
		t.Fatalf("convert failed: %v", result.Error)
	}

	result, _ = p.Execute(ctx, "finder.yaml.read", map[string]interface{}{
		"path": "Documents/cfg.yaml",
	}, nil)
	if !result.Success {
		t.Fatalf("yaml.read failed: %v", result.Error)
	}
	data := result.Data["data"].(map[string]interface{})
	if data["name"] != "mymac" {
		t.Errorf("converted name = %v, want mymac", data["name"])
	}
}
