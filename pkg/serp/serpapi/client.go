package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/iWorld-y/serp_intel/pkg/serp"
)

const defaultBaseURL = "https://serpapi.com/search"

// Client SerpAPI 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient 创建一个新的 SerpAPI 客户端
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
}

// Ensure Client implements serp.Resolver
var _ serp.Resolver = (*Client)(nil)

// SearchResponse SerpAPI 搜索响应
type SearchResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
	RelatedDomains []string        `json:"related_domains"`
}

// OrganicResult 单条自然结果
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
}

// Resolve implements serp.Resolver
func (c *Client) Resolve(ctx context.Context, req *serp.Request) (*serp.Response, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}

	q := url.Values{}
	q.Set("engine", "google")
	q.Set("q", req.Topic)
	q.Set("num", fmt.Sprintf("%d", limit))
	q.Set("api_key", c.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serpapi error (status %d): %s", res.StatusCode, string(body))
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("unmarshal response failed: %w", err)
	}

	resp := &serp.Response{Mode: req.Mode}

	// 轻量模式只保留域名估算，不展开逐 URL 结果
	if req.Mode == serp.ModeFast {
		domains := searchResp.RelatedDomains
		for _, r := range searchResp.OrganicResults {
			if u, err := url.Parse(r.Link); err == nil && u.Host != "" {
				domains = append(domains, u.Host)
			}
		}
		resp.EstimatedDomains = domains
		return resp, nil
	}

	for i, r := range searchResp.OrganicResults {
		if i >= limit {
			break
		}
		position := r.Position
		if position == 0 {
			position = i + 1
		}
		resp.Organic = append(resp.Organic, serp.OrganicResult{
			URL:      r.Link,
			Position: position,
			Title:    r.Title,
		})
	}

	return resp, nil
}
