package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	dm "github.com/iWorld-y/serp_intel/pkg/model"
)

// genericAnchors 泛化锚文本黑名单
var genericAnchors = map[string]bool{
	"click here": true,
	"here":       true,
	"read more":  true,
	"more":       true,
	"learn more": true,
	"this":       true,
	"link":       true,
}

// anchorRepetitionLimit 同一锚文本的重复上限，超出视为锚文本重复问题
const anchorRepetitionLimit = 3

// HTMLLinkAnalyzer 基于 HTML 解析的链接层分析器
type HTMLLinkAnalyzer struct {
	client *http.Client
}

// NewHTMLLinkAnalyzer 创建链接层分析器
func NewHTMLLinkAnalyzer() *HTMLLinkAnalyzer {
	return &HTMLLinkAnalyzer{client: newHTTPClient()}
}

// Ensure HTMLLinkAnalyzer implements LinkAnalyzer
var _ LinkAnalyzer = (*HTMLLinkAnalyzer)(nil)

// AnalyzeLink 抓取页面并评估站内链接质量与流向
func (a *HTMLLinkAnalyzer) AnalyzeLink(ctx context.Context, pageURL string, _ Options) (*dm.LinkLayer, error) {
	doc, err := fetchDocument(ctx, a.client, pageURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url: %w", err)
	}

	return a.analyze(doc, base), nil
}

func (a *HTMLLinkAnalyzer) analyze(doc *goquery.Document, base *url.URL) *dm.LinkLayer {
	var internal, homeLinks, deepLinks, genericCount int
	anchorCounts := make(map[string]int)
	bridgeSet := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target, err := base.Parse(href)
		if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
			return
		}
		if target.Host != base.Host {
			return
		}
		internal++

		if target.Path == "" || target.Path == "/" {
			homeLinks++
		} else {
			deepLinks++
		}

		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if text == "" {
			return
		}
		if genericAnchors[text] {
			genericCount++
			return
		}
		anchorCounts[text]++

		// 导航与页脚之外、且父节点只有锚文本本身的链接：
		// 指向了桥接话题却没有上下文支撑
		if s.ParentsFiltered("nav, footer, header").Length() > 0 {
			return
		}
		parentText := strings.TrimSpace(s.Parent().Text())
		if strings.EqualFold(parentText, strings.TrimSpace(s.Text())) && len(strings.Fields(text)) >= 2 {
			bridgeSet[text] = true
		}
	})

	var repetitionIssues []string
	repeated := make([]string, 0)
	for text, count := range anchorCounts {
		if count > anchorRepetitionLimit {
			repeated = append(repeated, fmt.Sprintf("anchor text %q repeated %d times", text, count))
		}
	}
	sort.Strings(repeated)
	repetitionIssues = repeated

	// PageRank 流向：首页回链多于深层链接时视为倒流
	flowDirection := "downward"
	flowIssues := []string{}
	if internal > 0 && homeLinks > deepLinks {
		flowDirection = "reversed"
		flowIssues = append(flowIssues, "most internal links point back to the homepage")
	}
	if internal < 5 {
		flowIssues = append(flowIssues, "very few internal links")
	}

	flowScore := 50
	if internal > 0 {
		flowScore = clamp100(int(float64(deepLinks) / float64(internal) * 100))
	}

	anchorQuality := clamp100(100 - genericCount*10 - len(repetitionIssues)*5)

	linkScore := clamp100((flowScore + anchorQuality) / 2)

	bridgeTopics := make([]string, 0, len(bridgeSet))
	for t := range bridgeSet {
		bridgeTopics = append(bridgeTopics, t)
	}
	sort.Strings(bridgeTopics)

	return &dm.LinkLayer{
		LinkScore:              linkScore,
		PageRankFlowScore:      flowScore,
		FlowDirection:          flowDirection,
		FlowIssues:             flowIssues,
		AnchorQualityScore:     anchorQuality,
		GenericAnchorCount:     genericCount,
		AnchorRepetitionIssues: repetitionIssues,
		BridgeTopics:           bridgeTopics,
	}
}
