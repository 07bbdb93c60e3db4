package assets

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/420btc/mymac/internal/infrastructure/config"
)

// pngHeader is enough for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func testProxy(t *testing.T, entries int) (*Proxy, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write(pngHeader)
	}))
	t.Cleanup(srv.Close)

	return New(config.AssetConfig{
		BaseURL:      srv.URL,
		CacheEntries: entries,
		TimeoutSecs:  5,
	}, nil), &hits
}

func TestIconFetchAndCache(t *testing.T) {
	p, hits := testProxy(t, 8)
	ctx := context.Background()

	icon, err := p.Icon(ctx, "finder")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(icon.Data) == 0 {
		t.Fatal("expected icon bytes")
	}
	if icon.ContentType != "image/png" {
		t.Errorf("content type = %s, want image/png", icon.ContentType)
	}

	if _, err := p.Icon(ctx, "finder"); err != nil {
		t.Fatalf("cached fetch failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("upstream hits = %d, want 1", hits.Load())
	}
}

func TestInvalidIconID(t *testing.T) {
	p, _ := testProxy(t, 8)

	for _, id := range []string{"", "../etc/passwd", "a b", "x/y"} {
		if _, err := p.Icon(context.Background(), id); err != ErrInvalidIconID {
			t.Errorf("Icon(%q) err = %v, want ErrInvalidIconID", id, err)
		}
	}
}

func TestCacheEviction(t *testing.T) {
	p, _ := testProxy(t, 2)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := p.Icon(ctx, fmt.Sprintf("icon%d", i)); err != nil {
			t.Fatalf("fetch %d failed: %v", i, err)
		}
	}

	if got := p.CacheSize(); got != 2 {
		t.Errorf("cache size = %d, want 2", got)
	}
}
