package session

import (
	"errors"
	"testing"

	"github.com/420btc/mymac/internal/domain/dock"
	"github.com/420btc/mymac/internal/domain/window"
	"github.com/420btc/mymac/internal/infrastructure/store"
)

func newFixture(t *testing.T, withStore bool) (*Manager, *window.Manager, *dock.Engine) {
	t.Helper()

	var st *store.Store
	if withStore {
		var err error
		st, err = store.New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
	}

	wm := window.NewManager(window.DefaultConfig())
	engine := dock.NewEngine(dock.DefaultConfig(), []dock.Icon{{ID: "finder", Name: "Finder"}})
	return NewManager(wm, engine, st), wm, engine
}

func TestSaveRequiresName(t *testing.T) {
	m, _, _ := newFixture(t, false)
	if _, err := m.Save("", ""); err == nil {
		t.Error("save without name succeeded")
	}
}

func TestSaveRestoreRoundTripsGeometry(t *testing.T) {
	m, wm, _ := newFixture(t, false)

	wm.Open("finder", window.OpenOptions{Title: "Finder"})
	wm.Move("finder", 411, 233)
	wm.Resize("finder", 901, 611)
	wm.Open("safari", window.OpenOptions{Title: "Safari"})
	wm.Minimize("safari")

	sess, err := m.Save("work", "desk layout")
	if err != nil {
		t.Fatal(err)
	}
	if len(sess.Windows) != 2 {
		t.Fatalf("snapshot has %d windows, want 2", len(sess.Windows))
	}

	// Replay into a fresh desktop.
	fresh := window.NewManager(window.DefaultConfig())
	engine := dock.NewEngine(dock.DefaultConfig(), nil)
	restorer := NewManager(fresh, engine, nil)
	restorer.sessions.Store(sess.ID, sess)

	if err := restorer.Restore(sess.ID); err != nil {
		t.Fatal(err)
	}

	finder, err := fresh.Get("finder")
	if err != nil {
		t.Fatal(err)
	}
	if finder.Pos.X != 411 || finder.Pos.Y != 233 {
		t.Errorf("restored position = %+v", finder.Pos)
	}
	if finder.Size.Width != 901 || finder.Size.Height != 611 {
		t.Errorf("restored size = %+v", finder.Size)
	}

	safari, _ := fresh.Get("safari")
	if !safari.Minimized {
		t.Error("minimized flag lost in restore")
	}
}

func TestRestorePreservesStackOrder(t *testing.T) {
	m, wm, _ := newFixture(t, false)

	wm.Open("finder", window.OpenOptions{})
	wm.Open("safari", window.OpenOptions{})
	wm.Open("terminal", window.OpenOptions{})
	wm.Focus("finder") // finder on top

	sess, err := m.Save("stacked", "")
	if err != nil {
		t.Fatal(err)
	}

	fresh := window.NewManager(window.DefaultConfig())
	engine := dock.NewEngine(dock.DefaultConfig(), nil)
	restorer := NewManager(fresh, engine, nil)
	restorer.sessions.Store(sess.ID, sess)
	if err := restorer.Restore(sess.ID); err != nil {
		t.Fatal(err)
	}

	stack := fresh.Stack()
	if len(stack) != 3 {
		t.Fatalf("restored stack has %d windows", len(stack))
	}
	if stack[len(stack)-1].AppID != "finder" {
		t.Errorf("top of restored stack = %s, want finder", stack[len(stack)-1].AppID)
	}
}

func TestPersistenceAcrossManagers(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	wm := window.NewManager(window.DefaultConfig())
	engine := dock.NewEngine(dock.DefaultConfig(), nil)
	m := NewManager(wm, engine, st)

	wm.Open("finder", window.OpenOptions{})
	sess, err := m.Save("persisted", "")
	if err != nil {
		t.Fatal(err)
	}

	// A fresh manager on the same store finds the snapshot on disk.
	fresh := NewManager(window.NewManager(window.DefaultConfig()), dock.NewEngine(dock.DefaultConfig(), nil), st)
	got, err := fresh.Get(sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "persisted" || len(got.Windows) != 1 {
		t.Errorf("reloaded session = %+v", got)
	}

	if list := fresh.List(); len(list) != 1 {
		t.Errorf("list = %d entries, want 1", len(list))
	}
}

func TestStateHooksRoundTrip(t *testing.T) {
	m, _, _ := newFixture(t, false)

	hook := &fakeHook{state: map[string]interface{}{"wallpaper": "ventura"}}
	m.RegisterHook("wallpaper", hook)

	sess, err := m.Save("with-state", "")
	if err != nil {
		t.Fatal(err)
	}
	if sess.State["wallpaper"]["wallpaper"] != "ventura" {
		t.Fatalf("hook state not captured: %+v", sess.State)
	}

	hook.state = map[string]interface{}{"wallpaper": "sonoma"}
	if err := m.Restore(sess.ID); err != nil {
		t.Fatal(err)
	}
	if hook.state["wallpaper"] != "ventura" {
		t.Errorf("hook state not restored: %+v", hook.state)
	}
}

type fakeHook struct {
	state map[string]interface{}
}

func (f *fakeHook) CaptureState() map[string]interface{} {
	return f.state
}

func (f *fakeHook) RestoreState(blob map[string]interface{}) {
	f.state = blob
}

func TestDeleteAndStats(t *testing.T) {
	m, wm, _ := newFixture(t, false)

	wm.Open("finder", window.OpenOptions{})
	sess, _ := m.Save("a", "")
	m.Save("b", "")

	if err := m.Delete(sess.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.Delete(sess.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double delete = %v", err)
	}

	stats := m.Stats()
	if stats.TotalSessions != 1 {
		t.Errorf("total = %d, want 1", stats.TotalSessions)
	}
	if stats.LastSaved == nil {
		t.Error("last saved not tracked")
	}
}

func TestRestoreUnknown(t *testing.T) {
	m, _, _ := newFixture(t, false)
	if err := m.Restore("sess_nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("restore unknown = %v", err)
	}
}

var _ WindowManager = (*window.Manager)(nil)
