package analyzer

import (
	"context"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// Options 单次分析调用的选项
type Options struct {
	// SkipCache 为 true 时绕过外部缓存，强制重新分析
	SkipCache bool
}

// ContentAnalyzer 内容层分析能力（语义覆盖、属性三元组）
type ContentAnalyzer interface {
	AnalyzeContent(ctx context.Context, url string, opts Options) (*model.ContentLayer, error)
}

// TechnicalAnalyzer 技术层分析能力（结构化标记、导航）
type TechnicalAnalyzer interface {
	AnalyzeTechnical(ctx context.Context, url string, opts Options) (*model.TechnicalLayer, error)
}

// LinkAnalyzer 链接层分析能力（站内链接质量与流向）
type LinkAnalyzer interface {
	AnalyzeLink(ctx context.Context, url string, opts Options) (*model.LinkLayer, error)
}
