package browser

import (
	"strings"

	"github.com/420btc/mymac/internal/shared/types"
	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

func validateHTML(htmlStr string) bool {
	return htmlStr != "" && len(htmlStr) <= MaxPageSize
}

func loadDoc(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

func extractTitleFrom(htmlStr string) string {
	doc, err := loadDoc(htmlStr)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func (p *Provider) extractText(params map[string]interface{}) (*types.Result, error) {
	htmlStr, ok := params["html"].(string)
	if !ok || !validateHTML(htmlStr) {
		return failure("html parameter required")
	}

	doc, err := loadDoc(htmlStr)
	if err != nil {
		return failure("failed to parse HTML: " + err.Error())
	}

	doc.Find("script, style, noscript").Remove()
	text := strings.Join(strings.Fields(doc.Text()), " ")

	return success(map[string]interface{}{
		"text":   text,
		"length": len(text),
	})
}

func (p *Provider) extractTitle(params map[string]interface{}) (*types.Result, error) {
	htmlStr, ok := params["html"].(string)
	if !ok || !validateHTML(htmlStr) {
		return failure("html parameter required")
	}

	title := extractTitleFrom(htmlStr)
	return success(map[string]interface{}{"title": title})
}

func (p *Provider) extractLinks(params map[string]interface{}) (*types.Result, error) {
	htmlStr, ok := params["html"].(string)
	if !ok || !validateHTML(htmlStr) {
		return failure("html parameter required")
	}

	doc, err := loadDoc(htmlStr)
	if err != nil {
		return failure("failed to parse HTML: " + err.Error())
	}

	seen := make(map[string]bool)
	links := []map[string]interface{}{}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || seen[href] {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "data:") {
			return
		}
		seen[href] = true
		links = append(links, map[string]interface{}{
			"href": href,
			"text": strings.TrimSpace(s.Text()),
		})
	})

	return success(map[string]interface{}{
		"links": links,
		"count": len(links),
	})
}

func (p *Provider) cssSelect(params map[string]interface{}) (*types.Result, error) {
	htmlStr, ok := params["html"].(string)
	if !ok || !validateHTML(htmlStr) {
		return failure("html parameter required")
	}
	selector, ok := params["selector"].(string)
	if !ok || selector == "" {
		return failure("selector parameter required")
	}
	all, _ := params["all"].(bool)

	doc, err := loadDoc(htmlStr)
	if err != nil {
		return failure("failed to parse HTML: " + err.Error())
	}

	matches := []map[string]interface{}{}
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		outer, _ := goquery.OuterHtml(s)
		matches = append(matches, map[string]interface{}{
			"html": outer,
			"text": strings.TrimSpace(s.Text()),
		})
		return all || len(matches) < 1
	})

	return success(map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

func (p *Provider) xpathQuery(params map[string]interface{}) (*types.Result, error) {
	htmlStr, ok := params["html"].(string)
	if !ok || !validateHTML(htmlStr) {
		return failure("html parameter required")
	}
	xpath, ok := params["xpath"].(string)
	if !ok || xpath == "" {
		return failure("xpath parameter required")
	}
	all, _ := params["all"].(bool)

	root, err := htmlquery.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return failure("failed to parse HTML: " + err.Error())
	}

	nodes, err := htmlquery.QueryAll(root, xpath)
	if err != nil {
		return failure("invalid xpath: " + err.Error())
	}
	if !all && len(nodes) > 1 {
		nodes = nodes[:1]
	}

	matches := []map[string]interface{}{}
	for _, node := range nodes {
		matches = append(matches, map[string]interface{}{
			"html": htmlquery.OutputHTML(node, true),
			"text": nodeText(node),
		})
	}

	return success(map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	})
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
