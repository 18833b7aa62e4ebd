package model

import "time"

// RarityTier 属性稀有度分层
type RarityTier int

const (
	// TierRoot 市场基础属性（覆盖率 >= 70%，必须覆盖）
	TierRoot RarityTier = iota
	// TierRare 稀有属性（20% <= 覆盖率 < 70%，权威信号）
	TierRare
	// TierUnique 独特属性（覆盖率 < 20%，差异化机会）
	TierUnique
)

// String 实现 fmt.Stringer 接口
func (t RarityTier) String() string {
	switch t {
	case TierRoot:
		return "root"
	case TierRare:
		return "rare"
	case TierUnique:
		return "unique"
	default:
		return "unknown"
	}
}

// MarshalJSON 序列化为稳定的字符串形式
func (t RarityTier) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// Priority 行动优先级
type Priority int

const (
	// PriorityCritical 关键优先级（基础属性缺口）
	PriorityCritical Priority = iota
	// PriorityHigh 高优先级（稀有属性缺口）
	PriorityHigh
	// PriorityMedium 中优先级（差异化机会）
	PriorityMedium
)

// String 实现 fmt.Stringer 接口
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "unknown"
	}
}

// MarshalJSON 序列化为稳定的字符串形式
func (p Priority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// GapCategory 缺口类别
type GapCategory int

const (
	// CategoryContent 内容层缺口
	CategoryContent GapCategory = iota
	// CategoryTechnical 技术层缺口
	CategoryTechnical
	// CategoryLinks 链接层缺口
	CategoryLinks
)

// String 实现 fmt.Stringer 接口
func (c GapCategory) String() string {
	switch c {
	case CategoryContent:
		return "content"
	case CategoryTechnical:
		return "technical"
	case CategoryLinks:
		return "links"
	default:
		return "unknown"
	}
}

// MarshalJSON 序列化为稳定的字符串形式
func (c GapCategory) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// AttributeTriple 内容层抽取的实体-属性-值三元组
type AttributeTriple struct {
	Subject  string `json:"subject"`
	Relation string `json:"relation"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value"`
}

// ContentLayer 内容层分析结果（语义覆盖）
type ContentLayer struct {
	ContentScore             int               `json:"content_score"`
	AttributeTriples         []AttributeTriple `json:"attribute_triples"`
	CentralEntityConsistency int               `json:"central_entity_consistency"`
	RootAttributeCoverage    float64           `json:"root_attribute_coverage"`
	UniqueAttributeCount     int               `json:"unique_attribute_count"`
}

// TechnicalLayer 技术层分析结果（结构化标记）
type TechnicalLayer struct {
	TechnicalScore            int      `json:"technical_score"`
	HasSchema                 bool     `json:"has_schema"`
	SchemaTypes               []string `json:"schema_types"`
	EntityDisambiguationScore int      `json:"entity_disambiguation_score"`
	NavigationScore           int      `json:"navigation_score"`
	NavigationIssues          []string `json:"navigation_issues"`
}

// LinkLayer 链接层分析结果（站内链接质量）
type LinkLayer struct {
	LinkScore              int      `json:"link_score"`
	PageRankFlowScore      int      `json:"pagerank_flow_score"`
	FlowDirection          string   `json:"flow_direction"`
	FlowIssues             []string `json:"flow_issues"`
	AnchorQualityScore     int      `json:"anchor_quality_score"`
	GenericAnchorCount     int      `json:"generic_anchor_count"`
	AnchorRepetitionIssues []string `json:"anchor_repetition_issues"`
	BridgeTopics           []string `json:"bridge_topics"`
}

// CompetitorAnalysis 单个竞品 URL 的综合分析
type CompetitorAnalysis struct {
	URL          string         `json:"url"`
	Domain       string         `json:"domain"`
	RankPosition int            `json:"rank_position"`
	Content      ContentLayer   `json:"content_layer"`
	Technical    TechnicalLayer `json:"technical_layer"`
	Link         LinkLayer      `json:"link_layer"`
	OverallScore int            `json:"overall_score"`
	Strengths    []string       `json:"strengths"`
	Weaknesses   []string       `json:"weaknesses"`
}

// AttributeClassification 单个属性在市场中的稀有度分类
type AttributeClassification struct {
	Attribute       string     `json:"attribute"`
	Tier            RarityTier `json:"rarity_tier"`
	Coverage        float64    `json:"competitor_coverage_percentage"`
	CompetitorCount int        `json:"competitor_count"`
	ExampleValue    string     `json:"example_value"`
}

// MarketPatterns 市场整体模式统计
type MarketPatterns struct {
	DominantContentType string                    `json:"dominant_content_type"`
	AvgContentVolume    int                       `json:"avg_content_volume"`
	CommonSchemaTypes   []string                  `json:"common_schema_types"`
	TopAttributes       []AttributeClassification `json:"top_attributes"`
}

// AttributeGap 属性层面的单个缺口
type AttributeGap struct {
	Attribute       string   `json:"attribute"`
	CompetitorCount int      `json:"competitor_count"`
	NoCompetitorHas bool     `json:"no_competitor_has,omitempty"`
	Priority        Priority `json:"priority"`
}

// AttributeGaps 属性层缺口集合
type AttributeGaps struct {
	MissingRoot         []AttributeGap `json:"missing_root"`
	MissingRare         []AttributeGap `json:"missing_rare"`
	UniqueOpportunities []AttributeGap `json:"unique_opportunities"`
}

// TechnicalGaps 技术层缺口集合
type TechnicalGaps struct {
	MissingSchemaTypes []string `json:"missing_schema_types"`
	EntityLinkingGap   bool     `json:"entity_linking_gap"`
	NavigationIssues   []string `json:"navigation_issues"`
}

// LinkGaps 链接层缺口集合
type LinkGaps struct {
	FlowIssues          []string `json:"flow_issues"`
	AnchorQualityIssues []string `json:"anchor_quality_issues"`
	BridgeOpportunities []string `json:"bridge_opportunities"`
}

// PriorityAction 带优先级的行动建议
type PriorityAction struct {
	Action         string      `json:"action"`
	Category       GapCategory `json:"category"`
	Priority       Priority    `json:"priority"`
	ExpectedImpact string      `json:"expected_impact"`
}

// GapReport 结构化缺口报告
type GapReport struct {
	AttributeGaps   AttributeGaps    `json:"attribute_gaps"`
	TechnicalGaps   TechnicalGaps    `json:"technical_gaps"`
	LinkGaps        LinkGaps         `json:"link_gaps"`
	PriorityActions []PriorityAction `json:"priority_actions"`
}

// OpportunityScores 四项机会评分（0-100）
type OpportunityScores struct {
	ContentOpportunity   int `json:"content_opportunity"`
	TechnicalOpportunity int `json:"technical_opportunity"`
	LinkOpportunity      int `json:"link_opportunity"`
	OverallDifficulty    int `json:"overall_difficulty"`
}

// SERPSummary 搜索结果解析摘要
type SERPSummary struct {
	Mode             string   `json:"mode"`
	TotalResults     int      `json:"total_results"`
	AnalyzedResults  int      `json:"analyzed_results"`
	EstimatedDomains []string `json:"estimated_domains,omitempty"`
}

// TopicIntelligence 单个话题的最终情报聚合，编排器返回后不再修改
type TopicIntelligence struct {
	Topic       string                    `json:"topic"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Mode        string                    `json:"mode"`
	SERP        SERPSummary               `json:"serp"`
	Competitors []CompetitorAnalysis      `json:"competitors"`
	Market      []AttributeClassification `json:"market_classification"`
	Patterns    MarketPatterns            `json:"patterns"`
	Gaps        GapReport                 `json:"gaps"`
	Scores      OpportunityScores         `json:"scores"`
}

// TopicAnalysisResult 单次话题分析的外层结果
type TopicAnalysisResult struct {
	Intelligence   *TopicIntelligence `json:"intelligence"`
	Success        bool               `json:"success"`
	Error          string             `json:"error,omitempty"`
	AnalysisTimeMs int64              `json:"analysis_time_ms"`
}
