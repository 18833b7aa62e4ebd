package intel

import (
	"sort"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// 稀有度分层阈值，边界值归入更高层级（0.70 属于 Root，0.20 属于 Rare）
const (
	RootTierThreshold = 0.70
	RareTierThreshold = 0.20
)

// AttributeSource 单个竞品的属性三元组来源
type AttributeSource struct {
	URL     string
	Triples []model.AttributeTriple
}

// ClassifyAttributes 按覆盖率给全市场出现过的每个属性分层
// 覆盖率 = 包含该属性的竞品数 / 已成功分析的竞品总数
// 输出按覆盖率降序、同覆盖率按属性名升序，保证结果确定性
func ClassifyAttributes(sources []AttributeSource) []model.AttributeClassification {
	total := len(sources)
	if total == 0 {
		return []model.AttributeClassification{}
	}

	// 统计每个属性覆盖的竞品集合和首个示例值
	counts := make(map[string]int)
	examples := make(map[string]string)
	for _, src := range sources {
		seen := make(map[string]bool)
		for _, t := range src.Triples {
			if t.Relation == "" {
				continue
			}
			if !seen[t.Relation] {
				seen[t.Relation] = true
				counts[t.Relation]++
			}
			if _, ok := examples[t.Relation]; !ok {
				examples[t.Relation] = t.Value
			}
		}
	}

	out := make([]model.AttributeClassification, 0, len(counts))
	for attr, count := range counts {
		coverage := float64(count) / float64(total)
		out = append(out, model.AttributeClassification{
			Attribute:       attr,
			Tier:            tierFor(coverage),
			Coverage:        coverage,
			CompetitorCount: count,
			ExampleValue:    examples[attr],
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Coverage != out[j].Coverage {
			return out[i].Coverage > out[j].Coverage
		}
		return out[i].Attribute < out[j].Attribute
	})

	return out
}

// tierFor 根据覆盖率确定稀有度层级
func tierFor(coverage float64) model.RarityTier {
	switch {
	case coverage >= RootTierThreshold:
		return model.TierRoot
	case coverage >= RareTierThreshold:
		return model.TierRare
	default:
		return model.TierUnique
	}
}
