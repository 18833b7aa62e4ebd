package factory

import (
	"fmt"

	"github.com/iWorld-y/serp_intel/pkg/config"
	"github.com/iWorld-y/serp_intel/pkg/serp"
	"github.com/iWorld-y/serp_intel/pkg/serp/searxng"
	"github.com/iWorld-y/serp_intel/pkg/serp/serpapi"
)

// NewResolver 根据配置创建搜索结果解析实例
func NewResolver(cfg *config.Config) (serp.Resolver, error) {
	provider := cfg.SERP.Provider
	if provider == "" {
		// 默认回退逻辑：如果有 serpapi key，则使用 serpapi
		if cfg.SERP.SerpAPI.APIKey != "" {
			provider = "serpapi"
		} else {
			return nil, fmt.Errorf("serp provider not configured")
		}
	}

	switch provider {
	case "serpapi":
		if cfg.SERP.SerpAPI.APIKey == "" {
			return nil, fmt.Errorf("serpapi api key is missing")
		}
		return serpapi.NewClient(cfg.SERP.SerpAPI.APIKey), nil

	case "searxng":
		if cfg.SERP.SearXNG.BaseURL == "" {
			return nil, fmt.Errorf("searxng base url is missing")
		}
		return searxng.NewClient(cfg.SERP.SearXNG.BaseURL, cfg.SERP.SearXNG.Timeout), nil

	default:
		return nil, fmt.Errorf("unknown serp provider: %s", provider)
	}
}
