package intel

import (
	"math"
	"sort"
	"strings"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// 模式统计相关常量
const (
	// WordsPerTriple 估算内容字数的近似系数（三元组数 × 50）
	// 继承自内容层分析器尚未提供真实字数信号的近似值，勿单独调整
	WordsPerTriple = 50
	// SchemaCommonThreshold 认定 schema 类型为市场通用的覆盖率阈值（含边界）
	SchemaCommonThreshold = 0.5
	// TopAttributeLimit 高覆盖属性榜单长度
	TopAttributeLimit = 10
)

// contentTypeRule URL 关键词到内容类型的启发式规则，按声明顺序优先
type contentTypeRule struct {
	keywords []string
	label    string
}

var contentTypeRules = []contentTypeRule{
	{[]string{"guide", "tutorial"}, "guide"},
	{[]string{"how-to"}, "how-to"},
	{[]string{"review"}, "review"},
	{[]string{"comparison", "vs"}, "comparison"},
	{[]string{"best", "top"}, "listicle"},
}

// AggregatePatterns 汇总全市场的描述性统计
func AggregatePatterns(competitors []model.CompetitorAnalysis, classifications []model.AttributeClassification) model.MarketPatterns {
	top := classifications
	if len(top) > TopAttributeLimit {
		top = top[:TopAttributeLimit]
	}

	return model.MarketPatterns{
		DominantContentType: dominantContentType(competitors),
		AvgContentVolume:    avgContentVolume(competitors),
		CommonSchemaTypes:   CommonSchemaTypes(competitors),
		TopAttributes:       top,
	}
}

// dominantContentType 按 URL 关键词分类各竞品并取众数
// 平局时以规则声明顺序在前者获胜；零竞品时返回哨兵值 "unknown"
func dominantContentType(competitors []model.CompetitorAnalysis) string {
	if len(competitors) == 0 {
		return "unknown"
	}

	counts := make(map[string]int)
	for _, c := range competitors {
		counts[classifyURL(c.URL)]++
	}

	best := "article"
	bestCount := counts["article"]
	// 逆序遍历规则表，使用 >= 让先声明的规则在平局时胜出
	for i := len(contentTypeRules) - 1; i >= 0; i-- {
		label := contentTypeRules[i].label
		if counts[label] >= bestCount && counts[label] > 0 {
			best = label
			bestCount = counts[label]
		}
	}
	return best
}

// classifyURL 按有序关键词规则对单个 URL 分类，无命中时回退为 "article"
func classifyURL(raw string) string {
	lowered := strings.ToLower(raw)
	for _, rule := range contentTypeRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.label
			}
		}
	}
	return "article"
}

// avgContentVolume 估算平均内容字数：三元组数 × WordsPerTriple 再取均值
func avgContentVolume(competitors []model.CompetitorAnalysis) int {
	if len(competitors) == 0 {
		return 0
	}
	total := 0
	for _, c := range competitors {
		total += len(c.Content.AttributeTriples) * WordsPerTriple
	}
	return int(math.Round(float64(total) / float64(len(competitors))))
}

// CommonSchemaTypes 返回被至少一半竞品（含边界）使用的 schema 类型，按字典序
func CommonSchemaTypes(competitors []model.CompetitorAnalysis) []string {
	if len(competitors) == 0 {
		return []string{}
	}

	counts := make(map[string]int)
	for _, c := range competitors {
		seen := make(map[string]bool)
		for _, st := range c.Technical.SchemaTypes {
			if st == "" || seen[st] {
				continue
			}
			seen[st] = true
			counts[st]++
		}
	}

	threshold := SchemaCommonThreshold * float64(len(competitors))
	common := make([]string, 0, len(counts))
	for st, count := range counts {
		if float64(count) >= threshold {
			common = append(common, st)
		}
	}
	sort.Strings(common)
	return common
}
