package browser

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/420btc/mymac/internal/infrastructure/resilience"
	"github.com/go-resty/resty/v2"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// MaxPageSize caps fetched page bodies at 10MB.
const MaxPageSize = 10 * 1024 * 1024

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Safari/605.1.15"

// PageData holds one fetched page.
type PageData struct {
	Body        string
	Status      int
	ContentType string
	Charset     string
}

// Fetcher retrieves pages with a shared client and circuit breaker.
type Fetcher struct {
	client  *resty.Client
	breaker *resilience.Breaker
}

// NewFetcher creates a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Fetcher{
		client:  client,
		breaker: resilience.New("browser-fetch", resilience.Settings{}),
	}
}

// Fetch retrieves a page and decodes its body to UTF-8.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*PageData, error) {
	if !strings.HasPrefix(urlStr, "http://") && !strings.HasPrefix(urlStr, "https://") {
		return nil, fmt.Errorf("unsupported URL scheme: %s", urlStr)
	}

	result, err := f.breaker.Execute(func() (interface{}, error) {
		return f.client.R().SetContext(ctx).Get(urlStr)
	})
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	resp := result.(*resty.Response)

	status := resp.StatusCode()
	if status < 200 || status >= 400 {
		return nil, fmt.Errorf("HTTP %d fetching %s", status, urlStr)
	}

	raw := resp.Body()
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty response body from %s", urlStr)
	}
	if len(raw) > MaxPageSize {
		raw = raw[:MaxPageSize]
	}

	detected := detectCharset(raw)
	decoded, err := decodeToUTF8(raw, detected)
	if err != nil {
		decoded = string(raw)
	}

	return &PageData{
		Body:        decoded,
		Status:      status,
		ContentType: resp.Header().Get("Content-Type"),
		Charset:     detected,
	}, nil
}

func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

func decodeToUTF8(data []byte, fromCharset string) (string, error) {
	reader, err := charset.NewReader(bytes.NewReader(data), fromCharset)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(io.LimitReader(reader, MaxPageSize))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
