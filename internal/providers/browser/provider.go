package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/420btc/mymac/internal/shared/types"
	"github.com/microcosm-cc/bluemonday"
)

// DefaultHistoryLimit bounds per-profile navigation history.
const DefaultHistoryLimit = 200

// Provider implements the Safari pane backend: server-side page fetching,
// content extraction and per-profile history and bookmarks.
type Provider struct {
	fetcher   *Fetcher
	sanitizer *bluemonday.Policy

	mu       sync.RWMutex
	profiles map[string]*Profile // key: app instance, "default" when absent
}

// Profile holds per-app browsing state. Nothing is persisted.
type Profile struct {
	History   []HistoryEntry
	Bookmarks map[string]Bookmark // key: URL
}

// HistoryEntry records one visited page.
type HistoryEntry struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	VisitedAt time.Time `json:"visited_at"`
}

// Bookmark is a saved page.
type Bookmark struct {
	URL     string    `json:"url"`
	Title   string    `json:"title"`
	AddedAt time.Time `json:"added_at"`
}

// NewProvider creates a browser provider.
func NewProvider(timeout time.Duration) *Provider {
	return &Provider{
		fetcher:   NewFetcher(timeout),
		sanitizer: bluemonday.UGCPolicy(),
		profiles:  make(map[string]*Profile),
	}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "browser",
		Name:        "Safari",
		Description: "Server-side page fetching, content extraction, history and bookmarks",
		Category:    types.CategoryWeb,
		Capabilities: []string{
			"navigate",
			"extract",
			"query",
			"history",
			"bookmarks",
		},
		Tools: p.getTools(),
	}
}

func (p *Provider) getTools() []types.Tool {
	htmlParam := types.Parameter{Name: "html", Type: "string", Description: "HTML content", Required: true}
	return []types.Tool{
		{
			ID:          "browser.navigate",
			Name:        "Navigate",
			Description: "Fetch a page, decode and sanitize it, and record the visit",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "URL to fetch", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "browser.text",
			Name:        "Extract Text",
			Description: "Extract visible text from HTML",
			Parameters:  []types.Parameter{htmlParam},
			Returns:     "object",
		},
		{
			ID:          "browser.title",
			Name:        "Extract Title",
			Description: "Get page title from HTML",
			Parameters:  []types.Parameter{htmlParam},
			Returns:     "object",
		},
		{
			ID:          "browser.links",
			Name:        "Extract Links",
			Description: "Get all links from HTML, deduplicated",
			Parameters:  []types.Parameter{htmlParam},
			Returns:     "object",
		},
		{
			ID:          "browser.select",
			Name:        "CSS Select",
			Description: "Query HTML using a CSS selector",
			Parameters: []types.Parameter{
				htmlParam,
				{Name: "selector", Type: "string", Description: "CSS selector", Required: true},
				{Name: "all", Type: "boolean", Description: "Return all matches (default: first)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "browser.xpath",
			Name:        "XPath Query",
			Description: "Query HTML using an XPath expression",
			Parameters: []types.Parameter{
				htmlParam,
				{Name: "xpath", Type: "string", Description: "XPath expression", Required: true},
				{Name: "all", Type: "boolean", Description: "Return all matches (default: first)", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "browser.history",
			Name:        "Get History",
			Description: "List visited pages, newest first",
			Parameters: []types.Parameter{
				{Name: "limit", Type: "number", Description: "Maximum entries to return", Required: false},
			},
			Returns: "array",
		},
		{
			ID:          "browser.clear_history",
			Name:        "Clear History",
			Description: "Delete all history for this profile",
			Parameters:  []types.Parameter{},
			Returns:     "boolean",
		},
		{
			ID:          "browser.bookmark",
			Name:        "Add Bookmark",
			Description: "Save a page to bookmarks",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "Page URL", Required: true},
				{Name: "title", Type: "string", Description: "Page title", Required: false},
			},
			Returns: "boolean",
		},
		{
			ID:          "browser.bookmarks",
			Name:        "List Bookmarks",
			Description: "List saved bookmarks",
			Parameters:  []types.Parameter{},
			Returns:     "array",
		},
		{
			ID:          "browser.remove_bookmark",
			Name:        "Remove Bookmark",
			Description: "Delete a bookmark by URL",
			Parameters: []types.Parameter{
				{Name: "url", Type: "string", Description: "Page URL", Required: true},
			},
			Returns: "boolean",
		},
	}
}

// Execute routes tool calls.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	profile := p.profileFor(appCtx)

	switch toolID {
	case "browser.navigate":
		return p.navigate(ctx, params, profile)
	case "browser.text":
		return p.extractText(params)
	case "browser.title":
		return p.extractTitle(params)
	case "browser.links":
		return p.extractLinks(params)
	case "browser.select":
		return p.cssSelect(params)
	case "browser.xpath":
		return p.xpathQuery(params)
	case "browser.history":
		return p.history(params, profile)
	case "browser.clear_history":
		return p.clearHistory(profile)
	case "browser.bookmark":
		return p.addBookmark(params, profile)
	case "browser.bookmarks":
		return p.listBookmarks(profile)
	case "browser.remove_bookmark":
		return p.removeBookmark(params, profile)
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) profileFor(appCtx *types.Context) *Profile {
	key := "default"
	if appCtx != nil && appCtx.AppID != nil && *appCtx.AppID != "" {
		key = *appCtx.AppID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	profile, ok := p.profiles[key]
	if !ok {
		profile = &Profile{Bookmarks: make(map[string]Bookmark)}
		p.profiles[key] = profile
	}
	return profile
}

func (p *Provider) navigate(ctx context.Context, params map[string]interface{}, profile *Profile) (*types.Result, error) {
	urlStr, ok := params["url"].(string)
	if !ok || urlStr == "" {
		return failure("url parameter required")
	}

	page, err := p.fetcher.Fetch(ctx, urlStr)
	if err != nil {
		return failure(err.Error())
	}

	title := extractTitleFrom(page.Body)
	if title == "" {
		title = urlStr
	}
	sanitized := p.sanitizer.Sanitize(page.Body)

	p.mu.Lock()
	profile.History = append(profile.History, HistoryEntry{
		URL:       urlStr,
		Title:     title,
		VisitedAt: time.Now(),
	})
	if len(profile.History) > DefaultHistoryLimit {
		profile.History = profile.History[len(profile.History)-DefaultHistoryLimit:]
	}
	p.mu.Unlock()

	return success(map[string]interface{}{
		"url":          urlStr,
		"title":        title,
		"html":         sanitized,
		"status":       page.Status,
		"content_type": page.ContentType,
		"charset":      page.Charset,
	})
}

func (p *Provider) history(params map[string]interface{}, profile *Profile) (*types.Result, error) {
	limit := DefaultHistoryLimit
	if l, ok := params["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	entries := []HistoryEntry{}
	for i := len(profile.History) - 1; i >= 0 && len(entries) < limit; i-- {
		entries = append(entries, profile.History[i])
	}

	return success(map[string]interface{}{
		"history": entries,
		"count":   len(entries),
	})
}

func (p *Provider) clearHistory(profile *Profile) (*types.Result, error) {
	p.mu.Lock()
	count := len(profile.History)
	profile.History = nil
	p.mu.Unlock()

	return success(map[string]interface{}{"cleared": true, "count": count})
}

func (p *Provider) addBookmark(params map[string]interface{}, profile *Profile) (*types.Result, error) {
	urlStr, ok := params["url"].(string)
	if !ok || urlStr == "" {
		return failure("url parameter required")
	}
	title, _ := params["title"].(string)
	if title == "" {
		title = urlStr
	}

	p.mu.Lock()
	profile.Bookmarks[urlStr] = Bookmark{
		URL:     urlStr,
		Title:   title,
		AddedAt: time.Now(),
	}
	p.mu.Unlock()

	return success(map[string]interface{}{"bookmarked": true, "url": urlStr})
}

func (p *Provider) listBookmarks(profile *Profile) (*types.Result, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	bookmarks := make([]Bookmark, 0, len(profile.Bookmarks))
	for _, b := range profile.Bookmarks {
		bookmarks = append(bookmarks, b)
	}

	return success(map[string]interface{}{
		"bookmarks": bookmarks,
		"count":     len(bookmarks),
	})
}

func (p *Provider) removeBookmark(params map[string]interface{}, profile *Profile) (*types.Result, error) {
	urlStr, ok := params["url"].(string)
	if !ok || urlStr == "" {
		return failure("url parameter required")
	}

	p.mu.Lock()
	_, existed := profile.Bookmarks[urlStr]
	delete(profile.Bookmarks, urlStr)
	p.mu.Unlock()

	return success(map[string]interface{}{"removed": existed})
}

func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}
