package service

import (
	"context"
	"testing"

	"github.com/420btc/mymac/internal/shared/types"
)

type fakeProvider struct {
	def    types.Service
	called string
}

func (f *fakeProvider) Definition() types.Service {
	return f.def
}

func (f *fakeProvider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	f.called = toolID
	return &types.Result{Success: true, Data: map[string]interface{}{"tool": toolID}}, nil
}

func newFake(id, name, desc string, caps ...string) *fakeProvider {
	return &fakeProvider{def: types.Service{
		ID:           id,
		Name:         name,
		Description:  desc,
		Category:     types.CategoryUtility,
		Capabilities: caps,
		Tools:        []types.Tool{{ID: id + ".run", Name: "Run"}},
	}}
}

func TestRegisterAndGet(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(newFake("calculator", "Calculator", "math")); err != nil {
		t.Fatal(err)
	}
	if err := r.Register(&fakeProvider{}); err == nil {
		t.Error("register with empty ID succeeded")
	}

	if _, ok := r.Get("calculator"); !ok {
		t.Error("registered provider not found")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("unknown provider found")
	}
}

func TestListSortedAndFiltered(t *testing.T) {
	r := NewRegistry()
	r.Register(newFake("terminal", "Terminal", "shell"))
	r.Register(newFake("browser", "Safari", "web"))

	list := r.List(nil)
	if len(list) != 2 || list[0].ID != "browser" {
		t.Errorf("list = %+v", list)
	}

	web := types.CategoryWeb
	if got := r.List(&web); len(got) != 0 {
		t.Errorf("filter returned %d services registered under utility", len(got))
	}
}

func TestDiscoverRanksByRelevance(t *testing.T) {
	r := NewRegistry()
	r.Register(newFake("calculator", "Calculator", "arithmetic and statistics", "evaluate"))
	r.Register(newFake("finder", "Finder", "browse workspace files", "list"))

	results := r.Discover("calculator arithmetic", 5)
	if len(results) == 0 || results[0].ID != "calculator" {
		t.Errorf("discover = %+v", results)
	}

	if got := r.Discover("zzz nothing matches", 5); len(got) != 0 {
		t.Errorf("irrelevant query returned %d services", len(got))
	}
}

func TestExecuteDispatch(t *testing.T) {
	r := NewRegistry()
	fake := newFake("clipboard", "Clipboard", "copy paste")
	r.Register(fake)

	result, err := r.Execute(context.Background(), "clipboard.copy", map[string]interface{}{"data": "x"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Errorf("result = %+v", result)
	}
	if fake.called != "clipboard.copy" {
		t.Errorf("provider saw tool %q", fake.called)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()

	if result, err := r.Execute(context.Background(), "no-dot", nil, nil); err == nil || result.Success {
		t.Error("malformed tool ID accepted")
	}
	if result, err := r.Execute(context.Background(), "ghost.run", nil, nil); err == nil || result.Success {
		t.Error("unknown service accepted")
	}
}

func TestStats(t *testing.T) {
	r := NewRegistry()
	r.Register(newFake("calculator", "Calculator", "math"))
	r.Register(newFake("finder", "Finder", "files"))

	stats := r.Stats()
	if stats["total_services"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats["total_tools"] != 2 {
		t.Errorf("stats = %+v", stats)
	}
}
