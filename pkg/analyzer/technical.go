package analyzer

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	dm "github.com/iWorld-y/serp_intel/pkg/model"
)

// HTMLTechnicalAnalyzer 基于 HTML 解析的技术层分析器
type HTMLTechnicalAnalyzer struct {
	client *http.Client
}

// NewHTMLTechnicalAnalyzer 创建技术层分析器
func NewHTMLTechnicalAnalyzer() *HTMLTechnicalAnalyzer {
	return &HTMLTechnicalAnalyzer{client: newHTTPClient()}
}

// Ensure HTMLTechnicalAnalyzer implements TechnicalAnalyzer
var _ TechnicalAnalyzer = (*HTMLTechnicalAnalyzer)(nil)

// AnalyzeTechnical 抓取页面并检查结构化标记与导航
func (a *HTMLTechnicalAnalyzer) AnalyzeTechnical(ctx context.Context, url string, _ Options) (*dm.TechnicalLayer, error) {
	doc, err := fetchDocument(ctx, a.client, url)
	if err != nil {
		return nil, err
	}
	return a.analyze(doc), nil
}

// schemaInfo JSON-LD 抽取结果
type schemaInfo struct {
	types     map[string]bool
	hasSameAs bool
	hasID     bool
	hasEntity bool
}

func (a *HTMLTechnicalAnalyzer) analyze(doc *goquery.Document) *dm.TechnicalLayer {
	info := schemaInfo{types: make(map[string]bool)}

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var payload interface{}
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		collectSchemaInfo(payload, &info)
	})

	// 兼容 microdata 标记
	doc.Find("[itemtype]").Each(func(_ int, s *goquery.Selection) {
		itemType, _ := s.Attr("itemtype")
		if idx := strings.LastIndex(itemType, "/"); idx >= 0 && idx+1 < len(itemType) {
			info.types[itemType[idx+1:]] = true
		}
	})

	schemaTypes := make([]string, 0, len(info.types))
	for t := range info.types {
		schemaTypes = append(schemaTypes, t)
	}
	sort.Strings(schemaTypes)

	hasSchema := len(schemaTypes) > 0

	// 实体消歧评分：sameAs 外链与 @id 是最强的消歧信号
	disambiguation := 20
	if info.hasSameAs {
		disambiguation += 35
	}
	if info.hasID {
		disambiguation += 25
	}
	if info.hasEntity {
		disambiguation += 20
	}

	navScore, navIssues := a.checkNavigation(doc, info)

	technicalScore := 0
	if hasSchema {
		technicalScore += 30
	}
	if n := len(schemaTypes) * 5; n > 20 {
		technicalScore += 20
	} else {
		technicalScore += n
	}
	technicalScore += disambiguation / 4
	technicalScore += navScore / 4

	return &dm.TechnicalLayer{
		TechnicalScore:            clamp100(technicalScore),
		HasSchema:                 hasSchema,
		SchemaTypes:               schemaTypes,
		EntityDisambiguationScore: clamp100(disambiguation),
		NavigationScore:           clamp100(navScore),
		NavigationIssues:          navIssues,
	}
}

// checkNavigation 检查导航结构并产出问题描述
func (a *HTMLTechnicalAnalyzer) checkNavigation(doc *goquery.Document, info schemaInfo) (int, []string) {
	score := 40
	issues := []string{}

	if doc.Find("nav").Length() == 0 {
		issues = append(issues, "no nav landmark element")
	} else {
		score += 25
	}

	hasBreadcrumb := info.types["BreadcrumbList"] || doc.Find(`[class*="breadcrumb"], [aria-label="breadcrumb"]`).Length() > 0
	if hasBreadcrumb {
		score += 25
	} else {
		issues = append(issues, "missing breadcrumb navigation")
	}

	if doc.Find("nav a").Length() > 50 {
		issues = append(issues, "excessive top-level navigation links")
		score -= 15
	}

	if doc.Find("footer a").Length() > 0 {
		score += 10
	}

	return score, issues
}

// collectSchemaInfo 递归遍历 JSON-LD 结构，收集类型与消歧信号
func collectSchemaInfo(v interface{}, info *schemaInfo) {
	switch val := v.(type) {
	case map[string]interface{}:
		if t, ok := val["@type"]; ok {
			switch tv := t.(type) {
			case string:
				info.types[tv] = true
			case []interface{}:
				for _, item := range tv {
					if s, ok := item.(string); ok {
						info.types[s] = true
					}
				}
			}
		}
		if _, ok := val["sameAs"]; ok {
			info.hasSameAs = true
		}
		if _, ok := val["@id"]; ok {
			info.hasID = true
		}
		if _, ok := val["mainEntity"]; ok {
			info.hasEntity = true
		}
		for _, child := range val {
			collectSchemaInfo(child, info)
		}
	case []interface{}:
		for _, item := range val {
			collectSchemaInfo(item, info)
		}
	}
}

// clamp100 截断到 [0, 100]
func clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
