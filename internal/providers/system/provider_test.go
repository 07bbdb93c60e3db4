package system

import (
	"context"
	"fmt"
	"testing"

	"github.com/420btc/mymac/internal/shared/types"
)

func TestAbout(t *testing.T) {
	p := NewProvider()
	result, err := p.Execute(context.Background(), "system.about", map[string]interface{}{}, nil)
	if err != nil || !result.Success {
		t.Fatalf("about failed: %v", err)
	}
	if result.Data["product"] != "mymac" {
		t.Errorf("product = %v, want mymac", result.Data["product"])
	}
	if result.Data["version"] != Version {
		t.Errorf("version = %v, want %s", result.Data["version"], Version)
	}
}

func TestPing(t *testing.T) {
	p := NewProvider()
	result, err := p.Execute(context.Background(), "system.ping", map[string]interface{}{}, nil)
	if err != nil || !result.Success {
		t.Fatalf("ping failed: %v", err)
	}
	if result.Data["pong"] != true {
		t.Error("expected pong: true")
	}
}

func TestLogAndGetLogs(t *testing.T) {
	p := NewProvider()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, _ := p.Execute(ctx, "system.log", map[string]interface{}{
			"message": fmt.Sprintf("entry %d", i),
			"level":   "warn",
		}, nil)
		if !result.Success {
			t.Fatal("log failed")
		}
	}
	p.Execute(ctx, "system.log", map[string]interface{}{"message": "other"}, nil)

	result, _ := p.Execute(ctx, "system.getLogs", map[string]interface{}{
		"level": "warn",
	}, nil)
	if !result.Success || result.Data["count"].(int) != 3 {
		t.Errorf("warn count = %v, want 3", result.Data["count"])
	}

	logs := result.Data["logs"].([]LogEntry)
	if logs[0].Message != "entry 2" {
		t.Errorf("newest warn entry = %q, want entry 2", logs[0].Message)
	}
}

func TestLogRequiresMessage(t *testing.T) {
	p := NewProvider()
	result, _ := p.Execute(context.Background(), "system.log", map[string]interface{}{}, nil)
	if result.Success {
		t.Error("log without message should fail")
	}
}

func TestLogRecordsAppID(t *testing.T) {
	p := NewProvider()
	appID := "notes"

	p.Execute(context.Background(), "system.log", map[string]interface{}{
		"message": "hello",
	}, &types.Context{AppID: &appID})

	recent := p.logs.GetRecent(1, "")
	if recent[0].AppID != "notes" {
		t.Errorf("app id = %q, want notes", recent[0].AppID)
	}
}

func TestCircularLogBufferOverwritesOldest(t *testing.T) {
	buf := NewCircularLogBuffer(3)
	for i := 0; i < 5; i++ {
		buf.Add(&LogEntry{Message: fmt.Sprintf("m%d", i)})
	}

	recent := buf.GetRecent(10, "")
	if len(recent) != 3 {
		t.Fatalf("len = %d, want 3", len(recent))
	}
	// Newest first; m0 and m1 were overwritten.
	want := []string{"m4", "m3", "m2"}
	for i, w := range want {
		if recent[i].Message != w {
			t.Errorf("recent[%d] = %q, want %q", i, recent[i].Message, w)
		}
	}
}

func TestGetRecentLimit(t *testing.T) {
	buf := NewCircularLogBuffer(10)
	for i := 0; i < 6; i++ {
		buf.Add(&LogEntry{Message: fmt.Sprintf("m%d", i)})
	}

	recent := buf.GetRecent(2, "")
	if len(recent) != 2 || recent[0].Message != "m5" {
		t.Errorf("recent = %v, want [m5 m4]", recent)
	}
}
