package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/iWorld-y/serp_intel/pkg/serp"
)

// Client SearXNG API 客户端
type Client struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewClient 创建一个新的 SearXNG 客户端
func NewClient(baseURL string, timeout int) *Client {
	t := time.Duration(timeout) * time.Second
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		timeout: t,
		client: &http.Client{
			Timeout: t,
		},
	}
}

// Ensure Client implements serp.Resolver
var _ serp.Resolver = (*Client)(nil)

// SearchResponse SearXNG 响应结构
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

// SearchResult SearXNG 单条结果
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Resolve implements serp.Resolver
func (c *Client) Resolve(ctx context.Context, req *serp.Request) (*serp.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = "/search"

	q := u.Query()
	q.Set("q", req.Topic)
	q.Set("format", "json")
	q.Set("categories", "general")
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	// 添加 User-Agent 避免被简单的反爬虫策略拦截
	httpReq.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("searxng api error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	limit := req.Limit
	if limit <= 0 || limit > len(searchResp.Results) {
		limit = len(searchResp.Results)
	}

	resp := &serp.Response{Mode: req.Mode}

	// 轻量模式只保留域名估算
	if req.Mode == serp.ModeFast {
		for _, r := range searchResp.Results {
			if parsed, err := url.Parse(r.URL); err == nil && parsed.Host != "" {
				resp.EstimatedDomains = append(resp.EstimatedDomains, parsed.Host)
			}
		}
		return resp, nil
	}

	for i := 0; i < limit; i++ {
		r := searchResp.Results[i]
		resp.Organic = append(resp.Organic, serp.OrganicResult{
			URL:      r.URL,
			Position: i + 1,
			Title:    r.Title,
		})
	}

	return resp, nil
}
