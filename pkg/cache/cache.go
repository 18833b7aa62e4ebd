package cache

import (
	"sync"
	"time"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// entry 带过期时间的缓存条目
type entry struct {
	analysis  model.CompetitorAnalysis
	timestamp time.Time
}

// Cache URL 维度的竞品分析缓存
// 编排器只做布尔透传（skipCache），失效策略由缓存自身管理
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

// New 创建缓存实例
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

// Get 按 URL 读取未过期的缓存条目
func (c *Cache) Get(url string) (model.CompetitorAnalysis, bool) {
	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()
	if !ok || time.Since(e.timestamp) > c.ttl {
		return model.CompetitorAnalysis{}, false
	}
	return e.analysis, true
}

// Set 写入缓存并顺带清理过期条目
func (c *Cache) Set(url string, analysis model.CompetitorAnalysis) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if time.Since(e.timestamp) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[url] = entry{analysis: analysis, timestamp: time.Now()}
}

// Len 当前条目数
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
