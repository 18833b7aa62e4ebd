package serp

import "context"

// Mode 结果解析模式
type Mode string

const (
	// ModeFast 轻量模式：只返回估算域名，不触发逐 URL 分析
	ModeFast Mode = "fast"
	// ModeDeep 深度模式：返回带排名的自然搜索结果
	ModeDeep Mode = "deep"
)

// Resolver 定义通用的搜索结果解析接口
type Resolver interface {
	Resolve(ctx context.Context, req *Request) (*Response, error)
}

// Request 通用解析请求
type Request struct {
	Topic string
	Mode  Mode
	Limit int
}

// Response 通用解析响应
type Response struct {
	Mode Mode
	// Organic 深度模式下带排名的自然结果
	Organic []OrganicResult
	// EstimatedDomains 轻量模式下的估算域名
	EstimatedDomains []string
}

// OrganicResult 单条自然搜索结果
type OrganicResult struct {
	URL      string
	Position int
	Title    string
}
