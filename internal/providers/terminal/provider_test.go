package terminal

import (
	"bytes"
	"context"
	"testing"
)

func TestBufferReadAllDrains(t *testing.T) {
	buf := NewBuffer(64)

	if _, err := buf.Write([]byte("hello")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got := buf.ReadAll()
	if !bytes.Equal(got, []byte("hello")) {
		t.Errorf("ReadAll = %q, want hello", got)
	}

	if got := buf.ReadAll(); len(got) != 0 {
		t.Errorf("second ReadAll = %q, want empty", got)
	}
}

func TestBufferDropsOldestWhenFull(t *testing.T) {
	// A buffer of size n holds at most n-1 bytes; older bytes are dropped.
	buf := NewBuffer(8)

	if _, err := buf.Write([]byte("abcdefghij")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got := buf.ReadAll()
	if !bytes.Equal(got, []byte("defghij")) {
		t.Errorf("ReadAll = %q, want defghij", got)
	}
}

func TestBufferWrapAround(t *testing.T) {
	buf := NewBuffer(8)

	buf.Write([]byte("abc"))
	buf.ReadAll()
	// head and tail are now mid-buffer; this write wraps past the end.
	buf.Write([]byte("defghi"))

	got := buf.ReadAll()
	if !bytes.Equal(got, []byte("defghi")) {
		t.Errorf("ReadAll = %q, want defghi", got)
	}
}

func TestUnknownSessionErrors(t *testing.T) {
	p := NewProvider("/bin/bash", 4)
	ctx := context.Background()

	tools := map[string]map[string]interface{}{
		"terminal.write":       {"session_id": "nope", "input": "ls\n"},
		"terminal.read":        {"session_id": "nope"},
		"terminal.resize":      {"session_id": "nope", "cols": float64(120), "rows": float64(40)},
		"terminal.get_session": {"session_id": "nope"},
		"terminal.kill":        {"session_id": "nope"},
	}

	for toolID, params := range tools {
		result, err := p.Execute(ctx, toolID, params, nil)
		if err != nil {
			t.Fatalf("%s returned error: %v", toolID, err)
		}
		if result.Success {
			t.Errorf("%s should fail for unknown session", toolID)
		}
	}
}

func TestMissingSessionIDRejected(t *testing.T) {
	p := NewProvider("/bin/bash", 4)

	result, _ := p.Execute(context.Background(), "terminal.read", map[string]interface{}{}, nil)
	if result.Success {
		t.Error("read without session_id should fail")
	}
}

func TestListSessionsEmpty(t *testing.T) {
	p := NewProvider("/bin/bash", 4)

	result, err := p.Execute(context.Background(), "terminal.list_sessions", map[string]interface{}{}, nil)
	if err != nil || !result.Success {
		t.Fatalf("list_sessions failed: %v", err)
	}
	if result.Data["count"].(int) != 0 {
		t.Errorf("count = %v, want 0", result.Data["count"])
	}
}

func TestUnknownToolRejected(t *testing.T) {
	p := NewProvider("/bin/bash", 4)

	result, _ := p.Execute(context.Background(), "terminal.bogus", map[string]interface{}{}, nil)
	if result.Success {
		t.Error("unknown tool should fail")
	}
}
