package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM         LLMConfig         `yaml:"llm"`
	SERP        SERPConfig        `yaml:"serp"`
	Topics      []string          `yaml:"topics"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
	DB          DBConfig          `yaml:"db"`
	Server      ServerConfig      `yaml:"server"`
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// SERPConfig 搜索结果解析相关配置
type SERPConfig struct {
	Provider string        `yaml:"provider"` // serpapi or searxng
	SerpAPI  SerpAPIConfig `yaml:"serpapi"`
	SearXNG  SearXNGConfig `yaml:"searxng"`
}

// SerpAPIConfig SerpAPI 配置
type SerpAPIConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// AnalysisConfig 分析流程配置
type AnalysisConfig struct {
	CompetitorLimit int  `yaml:"competitor_limit"` // 单话题最多分析的竞品数
	URLDelayMs      int  `yaml:"url_delay_ms"`     // 相邻 URL 之间的固定延迟
	TopicDelayMs    int  `yaml:"topic_delay_ms"`   // 相邻话题之间的固定延迟
	CacheTTLMinutes int  `yaml:"cache_ttl_minutes"`
	SkipCache       bool `yaml:"skip_cache"`
}

// DBConfig 数据库相关配置
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// ServerConfig 展示服务配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// URLDelay 相邻 URL 之间的延迟，未配置时使用默认值
func (c AnalysisConfig) URLDelay() time.Duration {
	if c.URLDelayMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.URLDelayMs) * time.Millisecond
}

// TopicDelay 相邻话题之间的延迟，未配置时使用默认值
func (c AnalysisConfig) TopicDelay() time.Duration {
	if c.TopicDelayMs <= 0 {
		return 2 * time.Second
	}
	return time.Duration(c.TopicDelayMs) * time.Millisecond
}

// CacheTTL 分析缓存有效期
func (c AnalysisConfig) CacheTTL() time.Duration {
	if c.CacheTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
