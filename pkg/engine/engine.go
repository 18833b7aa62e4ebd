package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/serp_intel/pkg/analyzer"
	"github.com/iWorld-y/serp_intel/pkg/cache"
	"github.com/iWorld-y/serp_intel/pkg/config"
	"github.com/iWorld-y/serp_intel/pkg/intel"
	dm "github.com/iWorld-y/serp_intel/pkg/model"
	"github.com/iWorld-y/serp_intel/pkg/serp"
	"github.com/iWorld-y/serp_intel/pkg/serp/factory"
	"github.com/iWorld-y/serp_intel/pkg/storage"
)

// Engine 话题竞争情报编排引擎
type Engine struct {
	cfg       *config.Config
	resolver  serp.Resolver
	content   analyzer.ContentAnalyzer
	technical analyzer.TechnicalAnalyzer
	link      analyzer.LinkAnalyzer
	store     *storage.Storage
	cache     *cache.Cache
	log       *logrus.Logger
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config, store *storage.Storage, log *logrus.Logger) (*Engine, error) {
	ctx := context.Background()

	// 初始化 LLM
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	// 初始化限流器
	limit := rate.Limit(float64(cfg.Concurrency.RPM) / 60.0)
	burst := cfg.Concurrency.QPS
	limiter := rate.NewLimiter(limit, burst)

	// 初始化搜索结果解析客户端
	resolver, err := factory.NewResolver(cfg)
	if err != nil {
		return nil, fmt.Errorf("SERP 客户端初始化失败: %w", err)
	}

	return &Engine{
		cfg:       cfg,
		resolver:  resolver,
		content:   analyzer.NewLLMContentAnalyzer(chatModel, limiter, log),
		technical: analyzer.NewHTMLTechnicalAnalyzer(),
		link:      analyzer.NewHTMLLinkAnalyzer(),
		store:     store,
		cache:     cache.New(cfg.Analysis.CacheTTL()),
		log:       log,
	}, nil
}

// NewEngineWithDeps 直接注入各能力实现的构造器，便于替换与测试
func NewEngineWithDeps(cfg *config.Config, resolver serp.Resolver, content analyzer.ContentAnalyzer,
	technical analyzer.TechnicalAnalyzer, link analyzer.LinkAnalyzer,
	store *storage.Storage, c *cache.Cache, log *logrus.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		resolver:  resolver,
		content:   content,
		technical: technical,
		link:      link,
		store:     store,
		cache:     c,
		log:       log,
	}
}

// Options 单次话题分析选项
type Options struct {
	Mode            serp.Mode
	CompetitorLimit int
	SkipCache       bool
	// OnProgress 进度回调，可为 nil
	OnProgress func(stage string, percent int, detail string)
}

// report 安全地触发进度回调
func (o Options) report(stage string, percent int, detail string) {
	if o.OnProgress != nil {
		o.OnProgress(stage, percent, detail)
	}
}

// AnalyzeTopic 对单个话题执行完整分析流程：
// 结果解析 -> 逐 URL 三层并发分析 -> 分层 -> 模式汇总 -> 缺口分析 -> 机会评分
func (e *Engine) AnalyzeTopic(ctx context.Context, topic string, opts Options) *dm.TopicAnalysisResult {
	start := time.Now()

	mode := opts.Mode
	if mode == "" {
		mode = serp.ModeDeep
	}
	limit := opts.CompetitorLimit
	if limit <= 0 {
		limit = e.cfg.Analysis.CompetitorLimit
	}
	if limit <= 0 {
		limit = 10
	}

	e.log.Infof("开始分析话题 [%s] (mode=%s, limit=%d)", topic, mode, limit)
	opts.report("resolving", 0, topic)

	resp, err := e.resolver.Resolve(ctx, &serp.Request{Topic: topic, Mode: mode, Limit: limit})
	if err != nil {
		// 结果解析失败是致命错误，整次运行快速失败
		e.log.Errorf("解析话题结果失败 [%s]: %v", topic, err)
		return &dm.TopicAnalysisResult{
			Success:        false,
			Error:          err.Error(),
			AnalysisTimeMs: time.Since(start).Milliseconds(),
		}
	}

	organic := resp.Organic
	if len(organic) > limit {
		organic = organic[:limit]
	}

	summary := dm.SERPSummary{
		Mode:             string(mode),
		TotalResults:     len(resp.Organic),
		EstimatedDomains: resp.EstimatedDomains,
	}

	// 无可用 URL 时提前收尾，仍返回良定义的零值/中性情报
	if len(organic) == 0 {
		e.log.Warnf("话题 [%s] 没有可分析的 URL，提前结束", topic)
		intelligence := e.assemble(topic, mode, summary, nil, nil)
		e.persist(intelligence)
		opts.report("completed", 100, topic)
		return &dm.TopicAnalysisResult{
			Intelligence:   intelligence,
			Success:        true,
			AnalysisTimeMs: time.Since(start).Milliseconds(),
		}
	}

	var competitors []dm.CompetitorAnalysis
	var sources []intel.AttributeSource

	for i, r := range organic {
		progress := 10 + i*70/len(organic)
		opts.report("analyzing", progress, fmt.Sprintf("%d/%d: %s", i+1, len(organic), r.URL))

		comp, err := e.analyzeURL(ctx, r, opts)
		if err != nil {
			// 单个竞品失败只记录日志并跳过，不中断整次运行
			e.log.Warnf("竞品分析失败，跳过 [%s]: %v", r.URL, err)
		} else {
			competitors = append(competitors, *comp)
			sources = append(sources, intel.AttributeSource{
				URL:     comp.URL,
				Triples: comp.Content.AttributeTriples,
			})
			opts.report("analyzed", 10+(i+1)*70/len(organic), fmt.Sprintf("%d/%d: %s", i+1, len(organic), r.URL))
		}

		// 除最后一个 URL 外，固定延迟以限流
		if i < len(organic)-1 {
			select {
			case <-ctx.Done():
				return &dm.TopicAnalysisResult{
					Success:        false,
					Error:          ctx.Err().Error(),
					AnalysisTimeMs: time.Since(start).Milliseconds(),
				}
			case <-time.After(e.cfg.Analysis.URLDelay()):
			}
		}
	}

	opts.report("aggregating", 85, topic)
	summary.AnalyzedResults = len(competitors)

	intelligence := e.assemble(topic, mode, summary, competitors, sources)

	opts.report("scoring", 95, topic)
	e.persist(intelligence)

	e.log.Infof("话题 [%s] 分析完成: %d 个竞品, 难度 %d", topic, len(competitors), intelligence.Scores.OverallDifficulty)
	opts.report("completed", 100, topic)

	return &dm.TopicAnalysisResult{
		Intelligence:   intelligence,
		Success:        true,
		AnalysisTimeMs: time.Since(start).Milliseconds(),
	}
}

// analyzeURL 并发调用三个层分析器并合路，任一失败则整个 URL 视为失败
func (e *Engine) analyzeURL(ctx context.Context, r serp.OrganicResult, opts Options) (*dm.CompetitorAnalysis, error) {
	if e.cache != nil && !opts.SkipCache {
		if cached, ok := e.cache.Get(r.URL); ok {
			e.log.Debugf("命中分析缓存 [%s]", r.URL)
			cached.RankPosition = r.Position
			return &cached, nil
		}
	}

	aopts := analyzer.Options{SkipCache: opts.SkipCache}

	var (
		wg             sync.WaitGroup
		contentLayer   *dm.ContentLayer
		technicalLayer *dm.TechnicalLayer
		linkLayer      *dm.LinkLayer
		contentErr     error
		technicalErr   error
		linkErr        error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		contentLayer, contentErr = e.content.AnalyzeContent(ctx, r.URL, aopts)
	}()
	go func() {
		defer wg.Done()
		technicalLayer, technicalErr = e.technical.AnalyzeTechnical(ctx, r.URL, aopts)
	}()
	go func() {
		defer wg.Done()
		linkLayer, linkErr = e.link.AnalyzeLink(ctx, r.URL, aopts)
	}()
	wg.Wait()

	if contentErr != nil {
		return nil, fmt.Errorf("content layer: %w", contentErr)
	}
	if technicalErr != nil {
		return nil, fmt.Errorf("technical layer: %w", technicalErr)
	}
	if linkErr != nil {
		return nil, fmt.Errorf("link layer: %w", linkErr)
	}

	comp := intel.SynthesizeCompetitor(r.URL, r.Position, *contentLayer, *technicalLayer, *linkLayer)
	if e.cache != nil {
		e.cache.Set(r.URL, comp)
	}
	return &comp, nil
}

// assemble 在所有竞品合路完成后执行同步的聚合阶段
func (e *Engine) assemble(topic string, mode serp.Mode, summary dm.SERPSummary,
	competitors []dm.CompetitorAnalysis, sources []intel.AttributeSource) *dm.TopicIntelligence {
	if competitors == nil {
		competitors = []dm.CompetitorAnalysis{}
	}

	classifications := intel.ClassifyAttributes(sources)
	patterns := intel.AggregatePatterns(competitors, classifications)
	gaps := intel.AnalyzeGaps(classifications, competitors)
	scores := intel.ScoreOpportunity(gaps, competitors)

	return &dm.TopicIntelligence{
		Topic:       topic,
		GeneratedAt: time.Now().UTC(),
		Mode:        string(mode),
		SERP:        summary,
		Competitors: competitors,
		Market:      classifications,
		Patterns:    patterns,
		Gaps:        gaps,
		Scores:      scores,
	}
}

// persist 持久化情报结果，失败只记录日志
func (e *Engine) persist(intelligence *dm.TopicIntelligence) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveIntelligence(intelligence); err != nil {
		e.log.Errorf("保存情报失败 [%s]: %v", intelligence.Topic, err)
	}
}

// AnalyzeTopics 串行分析多个话题，话题之间固定延迟
func (e *Engine) AnalyzeTopics(ctx context.Context, topics []string, opts Options) map[string]*dm.TopicAnalysisResult {
	results := make(map[string]*dm.TopicAnalysisResult, len(topics))

	for i, topic := range topics {
		opts.report("Analyzing topics", i*100/max(len(topics), 1), fmt.Sprintf("%d/%d: %s", i+1, len(topics), topic))

		// 话题内部只上报粗粒度进度，细粒度回调由单话题调用各自携带
		results[topic] = e.AnalyzeTopic(ctx, topic, Options{
			Mode:            opts.Mode,
			CompetitorLimit: opts.CompetitorLimit,
			SkipCache:       opts.SkipCache,
		})

		if i < len(topics)-1 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(e.cfg.Analysis.TopicDelay()):
			}
		}
	}

	opts.report("Analyzing topics", 100, fmt.Sprintf("%d/%d", len(topics), len(topics)))
	return results
}
