package storage

import (
	"context"
	"testing"

	"github.com/420btc/mymac/internal/infrastructure/store"
	"github.com/420btc/mymac/internal/shared/types"
)

func testProvider(t *testing.T) *Provider {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	return NewProvider(st)
}

func appContext(appID string) *types.Context {
	id := appID
	return &types.Context{AppID: &id}
}

func TestSetGetRoundTrip(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()
	appCtx := appContext("notes")

	result, err := p.Execute(ctx, "storage.set", map[string]interface{}{
		"key":   "draft",
		"value": "hello world",
	}, appCtx)
	if err != nil || !result.Success {
		t.Fatalf("set failed: %v %v", err, result.Error)
	}

	result, _ = p.Execute(ctx, "storage.get", map[string]interface{}{"key": "draft"}, appCtx)
	if !result.Success || result.Data["value"] != "hello world" {
		t.Errorf("get = %v, want hello world", result.Data["value"])
	}
}

func TestGetMissingKeyReturnsNil(t *testing.T) {
	p := testProvider(t)
	result, _ := p.Execute(context.Background(), "storage.get",
		map[string]interface{}{"key": "missing"}, appContext("notes"))
	if !result.Success {
		t.Fatal("get of missing key should succeed")
	}
	if result.Data["value"] != nil {
		t.Errorf("expected nil value, got %v", result.Data["value"])
	}
}

func TestAppIsolation(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()

	p.Execute(ctx, "storage.set", map[string]interface{}{
		"key": "shared", "value": "from-a",
	}, appContext("app-a"))

	result, _ := p.Execute(ctx, "storage.get", map[string]interface{}{"key": "shared"}, appContext("app-b"))
	if result.Data["value"] != nil {
		t.Error("app-b should not see app-a's data")
	}
}

func TestRemoveAndClear(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()
	appCtx := appContext("notes")

	p.Execute(ctx, "storage.set", map[string]interface{}{"key": "one", "value": 1.0}, appCtx)
	p.Execute(ctx, "storage.set", map[string]interface{}{"key": "two", "value": 2.0}, appCtx)

	result, _ := p.Execute(ctx, "storage.remove", map[string]interface{}{"key": "one"}, appCtx)
	if !result.Success {
		t.Fatal("remove failed")
	}
	result, _ = p.Execute(ctx, "storage.get", map[string]interface{}{"key": "one"}, appCtx)
	if result.Data["value"] != nil {
		t.Error("removed key should be gone")
	}

	result, _ = p.Execute(ctx, "storage.clear", map[string]interface{}{}, appCtx)
	if !result.Success {
		t.Fatal("clear failed")
	}
	result, _ = p.Execute(ctx, "storage.list", map[string]interface{}{}, appCtx)
	if result.Data["count"].(int) != 0 {
		t.Errorf("expected empty list after clear, got %v", result.Data["count"])
	}
}

func TestRequiresAppContext(t *testing.T) {
	p := testProvider(t)
	result, _ := p.Execute(context.Background(), "storage.set",
		map[string]interface{}{"key": "k", "value": "v"}, nil)
	if result.Success {
		t.Error("expected failure without app context")
	}
}

func TestKeyEscaping(t *testing.T) {
	p := testProvider(t)
	ctx := context.Background()
	appCtx := appContext("notes")

	p.Execute(ctx, "storage.set", map[string]interface{}{
		"key": "prefs.editor", "value": "vim",
	}, appCtx)

	result, _ := p.Execute(ctx, "storage.list", map[string]interface{}{}, appCtx)
	keys := result.Data["keys"].([]string)
	if len(keys) != 1 || keys[0] != "prefs.editor" {
		t.Errorf("expected [prefs.editor], got %v", keys)
	}
}
