package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/go-shiori/go-readability"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	dm "github.com/iWorld-y/serp_intel/pkg/model"
)

const (
	// maxPageText 送入 LLM 的正文长度上限
	maxPageText = 8000
	// minPageText 正文短于该长度时认为抓取失败
	minPageText = 100
)

// LLMContentAnalyzer 基于 LLM 的内容层分析器
type LLMContentAnalyzer struct {
	chatModel model.ChatModel
	limiter   *rate.Limiter
	log       *logrus.Logger
}

// NewLLMContentAnalyzer 创建内容层分析器
func NewLLMContentAnalyzer(chatModel model.ChatModel, limiter *rate.Limiter, log *logrus.Logger) *LLMContentAnalyzer {
	return &LLMContentAnalyzer{
		chatModel: chatModel,
		limiter:   limiter,
		log:       log,
	}
}

// Ensure LLMContentAnalyzer implements ContentAnalyzer
var _ ContentAnalyzer = (*LLMContentAnalyzer)(nil)

// AnalyzeContent 抓取正文并让 LLM 输出内容层分析 JSON
func (a *LLMContentAnalyzer) AnalyzeContent(ctx context.Context, url string, _ Options) (*dm.ContentLayer, error) {
	text, err := fetchAndCleanContent(url)
	if err != nil {
		return nil, fmt.Errorf("fetch content failed: %w", err)
	}
	if len(text) < minPageText {
		return nil, fmt.Errorf("page text too short: %d chars", len(text))
	}
	if len(text) > maxPageText {
		text = text[:maxPageText]
	}

	prompt := `你是一个语义 SEO 分析师。请阅读页面正文，抽取"实体-属性-值"三元组并给内容打分。
请务必严格按照以下 JSON 格式返回，不要包含任何 markdown 标记：
{
	"content_score": 75,
	"attribute_triples": [{"subject": "中心实体", "relation": "属性名", "category": "属性类别", "value": "属性值"}],
	"central_entity_consistency": 80,
	"root_attribute_coverage": 60.0,
	"unique_attribute_count": 3
}
评分说明：content_score 与 central_entity_consistency 为 0-100 的整数，root_attribute_coverage 为 0-100 的百分比。`

	// 调用 LLM (带重试机制)
	maxRetries := 3
	baseDelay := 2 * time.Second
	var lastErr error

	for i := 0; i <= maxRetries; i++ {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: "你是一个 JSON 生成器。请只输出 JSON 字符串。"},
			{Role: schema.User, Content: "页面正文：\n" + text + "\n\n" + prompt},
		}

		resp, err := a.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < maxRetries {
					time.Sleep(baseDelay * time.Duration(1<<i))
					continue
				}
			}
			return nil, err
		}

		cleanContent := strings.TrimSpace(resp.Content)
		cleanContent = strings.TrimPrefix(cleanContent, "```json")
		cleanContent = strings.TrimPrefix(cleanContent, "```")
		cleanContent = strings.TrimSuffix(cleanContent, "```")

		var layer dm.ContentLayer
		if err := json.Unmarshal([]byte(cleanContent), &layer); err != nil {
			lastErr = err
			if i < maxRetries {
				continue
			}
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}

		a.log.Debugf("内容层分析完成 [%s]: score=%d, triples=%d", url, layer.ContentScore, len(layer.AttributeTriples))
		return &layer, nil
	}
	return nil, lastErr
}

// fetchAndCleanContent 抓取 URL 并提取核心文本
func fetchAndCleanContent(url string) (string, error) {
	article, err := readability.FromURL(url, 30*time.Second)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
