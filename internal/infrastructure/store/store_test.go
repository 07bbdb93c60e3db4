package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type doc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return st
}

func TestPutGetRoundTrip(t *testing.T) {
	st := newTestStore(t)

	in := doc{Name: "alpha", Count: 3}
	if err := st.Put("things", "a", in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out doc
	if err := st.Get("things", "a", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out != in {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	st := newTestStore(t)

	var out doc
	if err := st.Get("things", "nope", &out); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestPutLeavesNoTempFiles(t *testing.T) {
	st := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := st.Put("things", "a", doc{Name: "x", Count: i}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(st.Root(), "things"))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
}

func TestSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	st, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := st.Put("things", "a", doc{Name: "kept", Count: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	st2, err := New(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var out doc
	if err := st2.Get("things", "a", &out); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if out.Name != "kept" {
		t.Fatalf("got %q, want kept", out.Name)
	}
}

func TestDeleteAndExists(t *testing.T) {
	st := newTestStore(t)

	if st.Exists("things", "a") {
		t.Fatal("exists before put")
	}
	if err := st.Put("things", "a", doc{Name: "x"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !st.Exists("things", "a") {
		t.Fatal("missing after put")
	}
	if err := st.Delete("things", "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if st.Exists("things", "a") {
		t.Fatal("exists after delete")
	}
	// deleting a missing document is fine
	if err := st.Delete("things", "a"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestListSkipsForeignFiles(t *testing.T) {
	st := newTestStore(t)

	if err := st.Put("things", "b", doc{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Put("things", "a", doc{}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(st.Root(), "things", "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ids, err := st.List("things")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Fatalf("got %v, want [a b]", ids)
	}
}

func TestListMissingCollectionEmpty(t *testing.T) {
	st := newTestStore(t)

	ids, err := st.List("ghost")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("got %v, want empty", ids)
	}
}

func TestClear(t *testing.T) {
	st := newTestStore(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := st.Put("things", id, doc{}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}
	if err := st.Clear("things"); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	ids, err := st.List("things")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("got %v after clear", ids)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	st := newTestStore(t)

	for _, key := range []string{"", "..", "a/b", `a\b`, "../etc"} {
		if err := st.Put(key, "id", doc{}); err == nil {
			t.Fatalf("collection %q accepted", key)
		}
		if err := st.Put("things", key, doc{}); err == nil {
			t.Fatalf("id %q accepted", key)
		}
	}
}
