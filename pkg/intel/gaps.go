package intel

import (
	"fmt"
	"sort"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// EntityLinkingThreshold 竞品实体消歧均分低于该值时，认定市场存在实体链接缺口
const EntityLinkingThreshold = 50

// AnalyzeGaps 交叉市场分层结果与各切面弱点，生成结构化缺口报告
// 运行于用户产出内容之前，缺口描述的是市场要求与竞品弱点，而非用户短板
func AnalyzeGaps(classifications []model.AttributeClassification, competitors []model.CompetitorAnalysis) model.GapReport {
	report := model.GapReport{
		AttributeGaps: model.AttributeGaps{
			MissingRoot:         []model.AttributeGap{},
			MissingRare:         []model.AttributeGap{},
			UniqueOpportunities: []model.AttributeGap{},
		},
		TechnicalGaps: model.TechnicalGaps{
			MissingSchemaTypes: CommonSchemaTypes(competitors),
			EntityLinkingGap:   entityLinkingGap(competitors),
			NavigationIssues:   navigationIssues(competitors),
		},
		LinkGaps: model.LinkGaps{
			FlowIssues:          flowIssues(competitors),
			AnchorQualityIssues: anchorQualityIssues(competitors),
			BridgeOpportunities: bridgeOpportunities(competitors),
		},
		PriorityActions: []model.PriorityAction{},
	}

	for _, cls := range classifications {
		switch cls.Tier {
		case model.TierRoot:
			report.AttributeGaps.MissingRoot = append(report.AttributeGaps.MissingRoot, model.AttributeGap{
				Attribute:       cls.Attribute,
				CompetitorCount: cls.CompetitorCount,
				Priority:        model.PriorityCritical,
			})
		case model.TierRare:
			report.AttributeGaps.MissingRare = append(report.AttributeGaps.MissingRare, model.AttributeGap{
				Attribute:       cls.Attribute,
				CompetitorCount: cls.CompetitorCount,
				Priority:        model.PriorityHigh,
			})
		case model.TierUnique:
			report.AttributeGaps.UniqueOpportunities = append(report.AttributeGaps.UniqueOpportunities, model.AttributeGap{
				Attribute:       cls.Attribute,
				CompetitorCount: cls.CompetitorCount,
				NoCompetitorHas: cls.CompetitorCount == 0,
				Priority:        model.PriorityMedium,
			})
		}
	}

	report.PriorityActions = priorityActions(report)
	return report
}

// entityLinkingGap 竞品整体实体消歧能力弱时视为机会
func entityLinkingGap(competitors []model.CompetitorAnalysis) bool {
	if len(competitors) == 0 {
		return false
	}
	total := 0
	for _, c := range competitors {
		total += c.Technical.EntityDisambiguationScore
	}
	mean := float64(total) / float64(len(competitors))
	return mean < EntityLinkingThreshold
}

// navigationIssues 去重合并所有竞品的导航问题描述
func navigationIssues(competitors []model.CompetitorAnalysis) []string {
	set := make(map[string]bool)
	for _, c := range competitors {
		for _, issue := range c.Technical.NavigationIssues {
			set[issue] = true
		}
	}
	return sortedKeys(set)
}

// flowIssues 去重合并所有竞品的 PageRank 流向问题
func flowIssues(competitors []model.CompetitorAnalysis) []string {
	set := make(map[string]bool)
	for _, c := range competitors {
		for _, issue := range c.Link.FlowIssues {
			set[issue] = true
		}
	}
	return sortedKeys(set)
}

// anchorQualityIssues 去重合并锚文本问题，并补充派生标记：
// 泛化锚文本超过阈值、存在锚文本重复问题
func anchorQualityIssues(competitors []model.CompetitorAnalysis) []string {
	set := make(map[string]bool)
	for _, c := range competitors {
		for _, issue := range c.Link.AnchorRepetitionIssues {
			set[issue] = true
		}
		if c.Link.GenericAnchorCount > genericAnchorWarning {
			set["excessive generic anchor text"] = true
		}
		if len(c.Link.AnchorRepetitionIssues) > 0 {
			set["anchor text repetition detected"] = true
		}
	}
	return sortedKeys(set)
}

// bridgeOpportunities 去重合并缺乏上下文支撑的桥接话题建议
func bridgeOpportunities(competitors []model.CompetitorAnalysis) []string {
	set := make(map[string]bool)
	for _, c := range competitors {
		for _, topic := range c.Link.BridgeTopics {
			set[topic] = true
		}
	}
	return sortedKeys(set)
}

// priorityActions 每个非空缺口类别产出一条行动建议
// 顺序跟随计算顺序：内容 -> 技术 -> 链接，类别之间不做全局重排
func priorityActions(report model.GapReport) []model.PriorityAction {
	actions := []model.PriorityAction{}

	if n := len(report.AttributeGaps.MissingRoot); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("cover all %d root attributes the market already expects", n),
			Category:       model.CategoryContent,
			Priority:       model.PriorityCritical,
			ExpectedImpact: "meet table-stakes topical coverage",
		})
	}
	if n := len(report.AttributeGaps.MissingRare); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("add %d rare attributes as authority signals", n),
			Category:       model.CategoryContent,
			Priority:       model.PriorityHigh,
			ExpectedImpact: "differentiate beyond baseline coverage",
		})
	}
	if n := len(report.AttributeGaps.UniqueOpportunities); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("exploit %d unique attribute opportunities", n),
			Category:       model.CategoryContent,
			Priority:       model.PriorityMedium,
			ExpectedImpact: "capture uncontested topical ground",
		})
	}
	if n := len(report.TechnicalGaps.MissingSchemaTypes); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("implement the %d schema types the market expects", n),
			Category:       model.CategoryTechnical,
			Priority:       model.PriorityCritical,
			ExpectedImpact: "match structured-data baseline",
		})
	}
	if report.TechnicalGaps.EntityLinkingGap {
		actions = append(actions, model.PriorityAction{
			Action:         "strengthen entity disambiguation markup where competitors are weak",
			Category:       model.CategoryTechnical,
			Priority:       model.PriorityHigh,
			ExpectedImpact: "win entity linking against a weak field",
		})
	}
	if n := len(report.TechnicalGaps.NavigationIssues); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("avoid the %d navigation issues observed across competitors", n),
			Category:       model.CategoryTechnical,
			Priority:       model.PriorityMedium,
			ExpectedImpact: "outperform competitor site structure",
		})
	}
	if n := len(report.LinkGaps.FlowIssues); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("design internal pagerank flow around %d observed issues", n),
			Category:       model.CategoryLinks,
			Priority:       model.PriorityHigh,
			ExpectedImpact: "concentrate link equity on target pages",
		})
	}
	if n := len(report.LinkGaps.AnchorQualityIssues); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("use descriptive anchors to beat %d anchor-quality issues", n),
			Category:       model.CategoryLinks,
			Priority:       model.PriorityMedium,
			ExpectedImpact: "improve anchor relevance signals",
		})
	}
	if n := len(report.LinkGaps.BridgeOpportunities); n > 0 {
		actions = append(actions, model.PriorityAction{
			Action:         fmt.Sprintf("build justified bridge content for %d topics", n),
			Category:       model.CategoryLinks,
			Priority:       model.PriorityMedium,
			ExpectedImpact: "own bridge topics competitors link without context",
		})
	}

	return actions
}

// sortedKeys 集合转有序切片，保证输出确定性
func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
