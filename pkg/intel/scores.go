package intel

import (
	"math"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// NeutralScore 零竞品时各均值的中性默认值，保证退化输入仍有良定义的评分
const NeutralScore = 50

// ScoreOpportunity 将缺口报告与竞品评分转换为四项 0-100 的机会评分
func ScoreOpportunity(gaps model.GapReport, competitors []model.CompetitorAnalysis) model.OpportunityScores {
	avgContent := meanScore(competitors, func(c model.CompetitorAnalysis) int { return c.Content.ContentScore })
	avgTechnical := meanScore(competitors, func(c model.CompetitorAnalysis) int { return c.Technical.TechnicalScore })
	avgLink := meanScore(competitors, func(c model.CompetitorAnalysis) int { return c.Link.LinkScore })
	avgOverall := meanScore(competitors, func(c model.CompetitorAnalysis) int { return c.OverallScore })

	contentOpp := float64(len(gaps.AttributeGaps.MissingRare))*8 +
		float64(len(gaps.AttributeGaps.UniqueOpportunities))*12 +
		math.Max(0, 100-avgContent)*0.3

	technicalOpp := float64(len(gaps.TechnicalGaps.NavigationIssues))*10 +
		math.Max(0, 100-avgTechnical)*0.4
	if gaps.TechnicalGaps.EntityLinkingGap {
		technicalOpp += 35
	}

	linkOpp := float64(len(gaps.LinkGaps.FlowIssues))*15 +
		float64(len(gaps.LinkGaps.AnchorQualityIssues))*12 +
		float64(len(gaps.LinkGaps.BridgeOpportunities))*8 +
		math.Max(0, 100-avgLink)*0.3

	return model.OpportunityScores{
		ContentOpportunity:   clampScore(contentOpp),
		TechnicalOpportunity: clampScore(technicalOpp),
		LinkOpportunity:      clampScore(linkOpp),
		OverallDifficulty:    clampScore(avgOverall),
	}
}

// meanScore 竞品评分均值，零竞品时返回中性默认值
func meanScore(competitors []model.CompetitorAnalysis, pick func(model.CompetitorAnalysis) int) float64 {
	if len(competitors) == 0 {
		return NeutralScore
	}
	total := 0
	for _, c := range competitors {
		total += pick(c)
	}
	return float64(total) / float64(len(competitors))
}

// clampScore 四舍五入并截断到 [0, 100]
func clampScore(v float64) int {
	rounded := int(math.Round(v))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}
