package browser

import (
	"context"
	"strings"
	"testing"
	"time"
)

const sampleHTML = `<html><head><title>  Sample Page </title></head><body>
<h1 id="headline">Welcome</h1>
<p class="intro">First paragraph.</p>
<p class="intro">Second paragraph.</p>
<a href="https://example.com/a">Link A</a>
<a href="https://example.com/a">Duplicate</a>
<a href="#anchor">Anchor</a>
<a href="javascript:alert(1)">Bad</a>
<script>var x = 1;</script>
</body></html>`

func TestExtractTitle(t *testing.T) {
	p := NewProvider(time.Second)
	result, err := p.Execute(context.Background(), "browser.title",
		map[string]interface{}{"html": sampleHTML}, nil)
	if err != nil || !result.Success {
		t.Fatalf("title failed: %v", err)
	}
	if result.Data["title"] != "Sample Page" {
		t.Errorf("title = %q, want Sample Page", result.Data["title"])
	}
}

func TestExtractTextStripsScripts(t *testing.T) {
	p := NewProvider(time.Second)
	result, _ := p.Execute(context.Background(), "browser.text",
		map[string]interface{}{"html": sampleHTML}, nil)
	if !result.Success {
		t.Fatal("text failed")
	}
	text := result.Data["text"].(string)
	if len(text) == 0 {
		t.Fatal("expected extracted text")
	}
	for _, unwanted := range []string{"var x", "alert"} {
		if strings.Contains(text, unwanted) {
			t.Errorf("text should not contain %q: %q", unwanted, text)
		}
	}
}

func TestExtractLinksDeduplicates(t *testing.T) {
	p := NewProvider(time.Second)
	result, _ := p.Execute(context.Background(), "browser.links",
		map[string]interface{}{"html": sampleHTML}, nil)
	if !result.Success {
		t.Fatal("links failed")
	}
	// One real link: duplicate, anchor and javascript: are all dropped.
	if result.Data["count"].(int) != 1 {
		t.Errorf("links count = %v, want 1", result.Data["count"])
	}
}

func TestCSSSelect(t *testing.T) {
	p := NewProvider(time.Second)
	ctx := context.Background()

	result, _ := p.Execute(ctx, "browser.select", map[string]interface{}{
		"html": sampleHTML, "selector": "p.intro", "all": true,
	}, nil)
	if !result.Success || result.Data["count"].(int) != 2 {
		t.Errorf("select all count = %v, want 2", result.Data["count"])
	}

	result, _ = p.Execute(ctx, "browser.select", map[string]interface{}{
		"html": sampleHTML, "selector": "p.intro",
	}, nil)
	if result.Data["count"].(int) != 1 {
		t.Errorf("select first count = %v, want 1", result.Data["count"])
	}
}

func TestXPathQuery(t *testing.T) {
	p := NewProvider(time.Second)
	result, _ := p.Execute(context.Background(), "browser.xpath", map[string]interface{}{
		"html": sampleHTML, "xpath": "//h1[@id='headline']",
	}, nil)
	if !result.Success || result.Data["count"].(int) != 1 {
		t.Fatalf("xpath count = %v, want 1", result.Data["count"])
	}
	matches := result.Data["matches"].([]map[string]interface{})
	if matches[0]["text"] != "Welcome" {
		t.Errorf("xpath text = %v, want Welcome", matches[0]["text"])
	}
}

func TestBookmarks(t *testing.T) {
	p := NewProvider(time.Second)
	ctx := context.Background()

	result, _ := p.Execute(ctx, "browser.bookmark", map[string]interface{}{
		"url": "https://example.com", "title": "Example",
	}, nil)
	if !result.Success {
		t.Fatal("bookmark failed")
	}

	result, _ = p.Execute(ctx, "browser.bookmarks", map[string]interface{}{}, nil)
	if result.Data["count"].(int) != 1 {
		t.Errorf("bookmarks count = %v, want 1", result.Data["count"])
	}

	result, _ = p.Execute(ctx, "browser.remove_bookmark", map[string]interface{}{
		"url": "https://example.com",
	}, nil)
	if !result.Data["removed"].(bool) {
		t.Error("expected bookmark to be removed")
	}
}

func TestHistoryEmptyByDefault(t *testing.T) {
	p := NewProvider(time.Second)
	result, _ := p.Execute(context.Background(), "browser.history", map[string]interface{}{}, nil)
	if !result.Success || result.Data["count"].(int) != 0 {
		t.Errorf("history count = %v, want 0", result.Data["count"])
	}
}

func TestCharsetDetection(t *testing.T) {
	if got := detectCharset([]byte("plain ascii text with some length to it")); got == "" {
		t.Error("expected a detected charset")
	}
}
