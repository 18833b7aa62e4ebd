package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/serp_intel/pkg/analyzer"
	"github.com/iWorld-y/serp_intel/pkg/cache"
	"github.com/iWorld-y/serp_intel/pkg/config"
	dm "github.com/iWorld-y/serp_intel/pkg/model"
	"github.com/iWorld-y/serp_intel/pkg/serp"
)

// fakeResolver 模拟搜索结果解析器
type fakeResolver struct {
	resp *serp.Response
	err  error
}

func (f *fakeResolver) Resolve(ctx context.Context, req *serp.Request) (*serp.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

// fakeContent 模拟内容层分析器，可针对特定 URL 注入失败
type fakeContent struct {
	failURL string
	calls   atomic.Int64
}

func (f *fakeContent) AnalyzeContent(ctx context.Context, url string, _ analyzer.Options) (*dm.ContentLayer, error) {
	f.calls.Add(1)
	if url == f.failURL {
		return nil, errors.New("content analysis blew up")
	}
	return &dm.ContentLayer{
		ContentScore: 70,
		AttributeTriples: []dm.AttributeTriple{
			{Subject: "entity", Relation: "price", Value: "$10"},
			{Subject: "entity", Relation: "warranty", Value: "2y"},
		},
		CentralEntityConsistency: 60,
		RootAttributeCoverage:    60,
	}, nil
}

// fakeTechnical 模拟技术层分析器
type fakeTechnical struct{}

func (fakeTechnical) AnalyzeTechnical(ctx context.Context, url string, _ analyzer.Options) (*dm.TechnicalLayer, error) {
	return &dm.TechnicalLayer{
		TechnicalScore:            60,
		HasSchema:                 true,
		SchemaTypes:               []string{"Article"},
		EntityDisambiguationScore: 55,
		NavigationScore:           60,
		NavigationIssues:          []string{"missing breadcrumb navigation"},
	}, nil
}

// fakeLink 模拟链接层分析器
type fakeLink struct{}

func (fakeLink) AnalyzeLink(ctx context.Context, url string, _ analyzer.Options) (*dm.LinkLayer, error) {
	return &dm.LinkLayer{
		LinkScore:          65,
		PageRankFlowScore:  70,
		FlowDirection:      "downward",
		FlowIssues:         []string{},
		AnchorQualityScore: 80,
		BridgeTopics:       []string{"related topic"},
	}, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisConfig{
			CompetitorLimit: 10,
			URLDelayMs:      1,
			TopicDelayMs:    1,
		},
	}
}

func organicResults(n int) []serp.OrganicResult {
	out := make([]serp.OrganicResult, n)
	for i := range out {
		out[i] = serp.OrganicResult{
			URL:      fmt.Sprintf("https://site%d.com/guide", i+1),
			Position: i + 1,
		}
	}
	return out
}

func newTestEngine(resolver serp.Resolver, content analyzer.ContentAnalyzer) *Engine {
	return NewEngineWithDeps(testConfig(), resolver, content, fakeTechnical{}, fakeLink{},
		nil, cache.New(time.Minute), testLogger())
}

func TestAnalyzeTopicResolverFailureIsFatal(t *testing.T) {
	eng := newTestEngine(&fakeResolver{err: errors.New("serp quota exceeded")}, &fakeContent{})

	result := eng.AnalyzeTopic(context.Background(), "widgets", Options{})
	if result.Success {
		t.Fatal("resolver failure must fail the whole run")
	}
	if result.Error != "serp quota exceeded" {
		t.Errorf("Error = %q, want causal message", result.Error)
	}
	if result.Intelligence != nil {
		t.Error("failed run should not carry intelligence")
	}
}

func TestAnalyzeTopicPartialFailureSkipsCompetitor(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{Mode: serp.ModeDeep, Organic: organicResults(3)}}
	content := &fakeContent{failURL: "https://site2.com/guide"}
	eng := newTestEngine(resolver, content)

	result := eng.AnalyzeTopic(context.Background(), "widgets", Options{})
	if !result.Success {
		t.Fatalf("run should succeed despite one failed competitor: %s", result.Error)
	}

	comps := result.Intelligence.Competitors
	if len(comps) != 2 {
		t.Fatalf("competitors = %d, want 2", len(comps))
	}
	// 保持解析器给出的相对顺序，失败者被剔除
	if comps[0].RankPosition != 1 || comps[1].RankPosition != 3 {
		t.Errorf("positions = [%d, %d], want [1, 3]", comps[0].RankPosition, comps[1].RankPosition)
	}
	if result.Intelligence.SERP.AnalyzedResults != 2 {
		t.Errorf("AnalyzedResults = %d, want 2", result.Intelligence.SERP.AnalyzedResults)
	}
}

func TestAnalyzeTopicEarlyExitOnNoUsableURLs(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{
		Mode:             serp.ModeFast,
		EstimatedDomains: []string{"site1.com", "site2.com"},
	}}
	eng := newTestEngine(resolver, &fakeContent{})

	result := eng.AnalyzeTopic(context.Background(), "widgets", Options{Mode: serp.ModeFast})
	if !result.Success {
		t.Fatalf("early exit must still succeed: %s", result.Error)
	}

	intelligence := result.Intelligence
	if len(intelligence.Competitors) != 0 {
		t.Errorf("competitors = %d, want 0", len(intelligence.Competitors))
	}
	if intelligence.Scores.OverallDifficulty != 50 {
		t.Errorf("OverallDifficulty = %d, want neutral 50", intelligence.Scores.OverallDifficulty)
	}
	if intelligence.Patterns.DominantContentType != "unknown" {
		t.Errorf("DominantContentType = %q, want unknown", intelligence.Patterns.DominantContentType)
	}
	if len(intelligence.SERP.EstimatedDomains) != 2 {
		t.Errorf("EstimatedDomains = %v", intelligence.SERP.EstimatedDomains)
	}
}

func TestAnalyzeTopicProgressCallbacks(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{Mode: serp.ModeDeep, Organic: organicResults(2)}}
	eng := newTestEngine(resolver, &fakeContent{})

	var stages []string
	var percents []int
	result := eng.AnalyzeTopic(context.Background(), "widgets", Options{
		OnProgress: func(stage string, percent int, detail string) {
			stages = append(stages, stage)
			percents = append(percents, percent)
		},
	})
	if !result.Success {
		t.Fatal(result.Error)
	}

	if stages[0] != "resolving" || percents[0] != 0 {
		t.Errorf("first callback = %s/%d, want resolving/0", stages[0], percents[0])
	}
	last := len(stages) - 1
	if stages[last] != "completed" || percents[last] != 100 {
		t.Errorf("last callback = %s/%d, want completed/100", stages[last], percents[last])
	}

	// 进度回调可以完全省略
	eng2 := newTestEngine(resolver, &fakeContent{})
	if r := eng2.AnalyzeTopic(context.Background(), "widgets", Options{}); !r.Success {
		t.Error("nil OnProgress must be safe")
	}
}

func TestAnalyzeTopicDeterministic(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{Mode: serp.ModeDeep, Organic: organicResults(3)}}

	run := func() []byte {
		eng := newTestEngine(resolver, &fakeContent{})
		result := eng.AnalyzeTopic(context.Background(), "widgets", Options{})
		if !result.Success {
			t.Fatal(result.Error)
		}
		// 时间戳来自时钟，对齐后其余字段必须逐字节一致
		result.Intelligence.GeneratedAt = time.Time{}
		data, err := json.Marshal(result.Intelligence)
		if err != nil {
			t.Fatal(err)
		}
		return data
	}

	first := run()
	second := run()
	if string(first) != string(second) {
		t.Errorf("intelligence not deterministic:\n%s\n%s", first, second)
	}
}

func TestAnalyzeTopicCacheHit(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{Mode: serp.ModeDeep, Organic: organicResults(1)}}
	content := &fakeContent{}
	eng := newTestEngine(resolver, content)

	if r := eng.AnalyzeTopic(context.Background(), "widgets", Options{}); !r.Success {
		t.Fatal(r.Error)
	}
	if r := eng.AnalyzeTopic(context.Background(), "widgets", Options{}); !r.Success {
		t.Fatal(r.Error)
	}
	if got := content.calls.Load(); got != 1 {
		t.Errorf("content analyzer calls = %d, want 1 (second run served from cache)", got)
	}

	// SkipCache 透传后强制重新分析
	if r := eng.AnalyzeTopic(context.Background(), "widgets", Options{SkipCache: true}); !r.Success {
		t.Fatal(r.Error)
	}
	if got := content.calls.Load(); got != 2 {
		t.Errorf("content analyzer calls = %d, want 2 after SkipCache", got)
	}
}

func TestAnalyzeTopicCompetitorLimit(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{Mode: serp.ModeDeep, Organic: organicResults(5)}}
	eng := newTestEngine(resolver, &fakeContent{})

	result := eng.AnalyzeTopic(context.Background(), "widgets", Options{CompetitorLimit: 2})
	if !result.Success {
		t.Fatal(result.Error)
	}
	if len(result.Intelligence.Competitors) != 2 {
		t.Errorf("competitors = %d, want 2", len(result.Intelligence.Competitors))
	}
	if result.Intelligence.SERP.TotalResults != 5 {
		t.Errorf("TotalResults = %d, want 5", result.Intelligence.SERP.TotalResults)
	}
}

func TestAnalyzeTopicsSequential(t *testing.T) {
	resolver := &fakeResolver{resp: &serp.Response{Mode: serp.ModeDeep, Organic: organicResults(1)}}
	eng := newTestEngine(resolver, &fakeContent{})

	var coarse []string
	results := eng.AnalyzeTopics(context.Background(), []string{"alpha", "beta"}, Options{
		OnProgress: func(stage string, percent int, detail string) {
			coarse = append(coarse, fmt.Sprintf("%s %d%% %s", stage, percent, detail))
		},
	})

	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for topic, r := range results {
		if !r.Success {
			t.Errorf("topic %q failed: %s", topic, r.Error)
		}
	}
	if len(coarse) == 0 {
		t.Error("expected coarse progress callbacks")
	}
}
