package intel

import (
	"math"
	"net/url"
	"strings"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// 综合评分权重：内容为主导信号，链接结构次之，技术标记最弱但不可忽略
const (
	WeightContent   = 0.4
	WeightTechnical = 0.25
	WeightLink      = 0.35
)

// 优劣势标签的阈值
const (
	strongFacetScore     = 80
	weakContentScore     = 40
	weakDisambiguation   = 40
	lowRootCoverage      = 50
	genericAnchorWarning = 3
	manyNavigationIssues = 2
)

// SynthesizeCompetitor 将三层分析合成单个竞品的综合分析
// 各条标签规则相互独立、可叠加，按内容 -> 技术 -> 链接的切面顺序产出
func SynthesizeCompetitor(pageURL string, rankPosition int, content model.ContentLayer, technical model.TechnicalLayer, link model.LinkLayer) model.CompetitorAnalysis {
	overall := int(math.Round(float64(content.ContentScore)*WeightContent +
		float64(technical.TechnicalScore)*WeightTechnical +
		float64(link.LinkScore)*WeightLink))

	var strengths, weaknesses []string

	// 内容切面
	if content.ContentScore >= strongFacetScore {
		strengths = append(strengths, "strong content organization")
	}
	if content.ContentScore < weakContentScore {
		weaknesses = append(weaknesses, "thin topical coverage")
	}
	if content.CentralEntityConsistency >= strongFacetScore {
		strengths = append(strengths, "consistent central entity")
	}
	if content.RootAttributeCoverage < lowRootCoverage {
		weaknesses = append(weaknesses, "low root attribute coverage")
	}

	// 技术切面
	if technical.TechnicalScore >= strongFacetScore {
		strengths = append(strengths, "solid structured markup")
	}
	if !technical.HasSchema {
		weaknesses = append(weaknesses, "no schema markup")
	}
	if technical.HasSchema && technical.EntityDisambiguationScore < weakDisambiguation {
		weaknesses = append(weaknesses, "weak entity linking")
	}
	if technical.NavigationScore >= strongFacetScore {
		strengths = append(strengths, "clear navigation structure")
	}
	if len(technical.NavigationIssues) > manyNavigationIssues {
		weaknesses = append(weaknesses, "multiple navigation issues")
	}

	// 链接切面
	if link.LinkScore >= strongFacetScore {
		strengths = append(strengths, "healthy internal linking")
	}
	if link.FlowDirection == "reversed" {
		weaknesses = append(weaknesses, "reversed internal pagerank flow")
	}
	if link.GenericAnchorCount > genericAnchorWarning {
		weaknesses = append(weaknesses, "excessive generic anchor text")
	}
	if link.AnchorQualityScore >= strongFacetScore {
		strengths = append(strengths, "descriptive anchor text")
	}

	return model.CompetitorAnalysis{
		URL:          pageURL,
		Domain:       domainOf(pageURL),
		RankPosition: rankPosition,
		Content:      content,
		Technical:    technical,
		Link:         link,
		OverallScore: overall,
		Strengths:    strengths,
		Weaknesses:   weaknesses,
	}
}

// domainOf 提取 URL 中的域名，去掉 www. 前缀
func domainOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}
