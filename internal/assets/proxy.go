// Package assets proxies dock icon images from the configured icon host,
// caching them in memory so the desktop never hits the host twice for the
// same icon.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/420btc/mymac/internal/infrastructure/config"
	"github.com/420btc/mymac/internal/infrastructure/logging"
	"github.com/420btc/mymac/internal/infrastructure/resilience"
)

// MaxIconSize bounds one fetched icon.
const MaxIconSize = 1 << 20 // 1MB

// ErrInvalidIconID is returned for identifiers that are not plain slugs.
var ErrInvalidIconID = errors.New("invalid icon id")

var iconIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// Icon is one cached image.
type Icon struct {
	Data        []byte
	ContentType string
	FetchedAt   time.Time
}

// Proxy fetches and caches icons.
type Proxy struct {
	client  *retryablehttp.Client
	breaker *resilience.Breaker
	baseURL string
	logger  *logging.Logger

	mu         sync.Mutex
	cache      map[string]*Icon
	order      []string // insertion order, oldest first
	maxEntries int
}

// New creates an icon proxy from configuration.
func New(cfg config.AssetConfig, logger *logging.Logger) *Proxy {
	if logger == nil {
		logger = logging.NewNop()
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = time.Duration(cfg.TimeoutSecs) * time.Second
	client.Logger = nil

	maxEntries := cfg.CacheEntries
	if maxEntries <= 0 {
		maxEntries = 128
	}

	return &Proxy{
		client:  client,
		baseURL: cfg.BaseURL,
		logger:  logger.Component("assets"),
		breaker: resilience.New("asset-fetch", resilience.Settings{
			MaxRequests: 3,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts resilience.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		cache:      make(map[string]*Icon),
		maxEntries: maxEntries,
	}
}

// Icon returns the image for an icon identifier, fetching it on first use.
func (p *Proxy) Icon(ctx context.Context, id string) (*Icon, error) {
	if !iconIDPattern.MatchString(id) {
		return nil, ErrInvalidIconID
	}

	p.mu.Lock()
	if icon, ok := p.cache[id]; ok {
		p.mu.Unlock()
		return icon, nil
	}
	p.mu.Unlock()

	result, err := p.breaker.Execute(func() (interface{}, error) {
		return p.fetch(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	icon := result.(*Icon)

	p.store(id, icon)
	return icon, nil
}

func (p *Proxy) fetch(ctx context.Context, id string) (*Icon, error) {
	url := fmt.Sprintf("%s/%s.png", p.baseURL, id)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build icon request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch icon %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch icon %s: status %d", id, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxIconSize+1))
	if err != nil {
		return nil, fmt.Errorf("read icon %s: %w", id, err)
	}
	if len(data) > MaxIconSize {
		return nil, fmt.Errorf("icon %s exceeds %d bytes", id, MaxIconSize)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(data).String()
	}

	p.logger.Debug("Fetched icon",
		zap.String("id", id),
		zap.Int("bytes", len(data)),
		zap.String("content_type", contentType),
	)

	return &Icon{
		Data:        data,
		ContentType: contentType,
		FetchedAt:   time.Now(),
	}, nil
}

// store inserts into the cache, evicting the oldest entry once full.
func (p *Proxy) store(id string, icon *Icon) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.cache[id]; ok {
		return
	}
	if len(p.cache) >= p.maxEntries && len(p.order) > 0 {
		oldest := p.order[0]
		p.order = p.order[1:]
		delete(p.cache, oldest)
	}
	p.cache[id] = icon
	p.order = append(p.order, id)
}

// CacheSize returns the number of cached icons.
func (p *Proxy) CacheSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cache)
}

// Handler serves GET /assets/icon/:id.
func (p *Proxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		icon, err := p.Icon(c.Request.Context(), id)
		switch {
		case errors.Is(err, ErrInvalidIconID):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "icon host unavailable"})
			return
		case err != nil:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, icon.ContentType, icon.Data)
	}
}
