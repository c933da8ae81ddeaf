package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const (
	defaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"
	defaultMaxResults    = 5
	maxPageBytes         = 2 << 20
)

// DuckDuckGoConfig describes how to reach the DuckDuckGo HTML endpoint.
type DuckDuckGoConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxResults int
	UserAgent  string
	Observer   Observer
	Logger     *logging.Logger
}

// DuckDuckGoClient scrapes the DuckDuckGo HTML results page.
type DuckDuckGoClient struct {
	baseURL    string
	maxResults int
	userAgent  string
	http       *http.Client
	observer   Observer
	logger     *logging.Logger
}

func NewDuckDuckGoClient(cfg DuckDuckGoConfig) *DuckDuckGoClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultDuckDuckGoURL
	}
	limit := cfg.MaxResults
	if limit <= 0 {
		limit = defaultMaxResults
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "Mozilla/5.0 (compatible; mediscribe-api/1.0)"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &DuckDuckGoClient{
		baseURL:    base,
		maxResults: limit,
		userAgent:  ua,
		http:       &http.Client{Timeout: timeout},
		observer:   cfg.Observer,
		logger:     logger,
	}
}

// Search returns formatted findings or ErrNoResults when the page had none.
func (c *DuckDuckGoClient) Search(ctx context.Context, query string) (string, error) {
	began := time.Now()
	results, err := c.fetch(ctx, query)
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case len(results) == 0:
		outcome = "empty"
	}
	if c.observer != nil {
		c.observer.ObserveSearch(outcome, time.Since(began).Seconds())
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSearch, err)
	}
	if len(results) == 0 {
		return "", ErrNoResults
	}
	c.logger.Debug("web search completed", "results", len(results))
	return Format(results), nil
}

func (c *DuckDuckGoClient) fetch(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseResults(io.LimitReader(resp.Body, maxPageBytes), c.maxResults)
}

// parseResults extracts result__a links and result__snippet text from the
// HTML results page. Sponsored links are skipped.
func parseResults(r io.Reader, limit int) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	var results []Result
	var current *Result
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if len(results) >= limit && current == nil {
			return
		}
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a"):
				if current != nil {
					results = append(results, *current)
					current = nil
					if len(results) >= limit {
						return
					}
				}
				href := resultURL(attr(n, "href"))
				if href != "" {
					current = &Result{Title: textOf(n), URL: href}
				}
				return
			case hasClass(n, "result__snippet"):
				if current != nil {
					current.Snippet = textOf(n)
					results = append(results, *current)
					current = nil
				}
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	if current != nil && len(results) < limit {
		results = append(results, *current)
	}
	return results, nil
}

// resultURL unwraps DuckDuckGo redirect links and drops ad links.
func resultURL(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Host, "duckduckgo.com") {
		if strings.HasPrefix(u.Path, "/y.js") {
			return ""
		}
		if target := u.Query().Get("uddg"); target != "" {
			return target
		}
	}
	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			collect(child)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
