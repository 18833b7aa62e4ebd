package intel

import (
	"testing"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

func TestScoreOpportunityZeroCompetitors(t *testing.T) {
	scores := ScoreOpportunity(model.GapReport{}, nil)

	// 零竞品时所有均值取中性默认值 50，评分仍然良定义
	if scores.OverallDifficulty != 50 {
		t.Errorf("OverallDifficulty = %d, want 50", scores.OverallDifficulty)
	}
	// max(0, 100-50)*0.3 = 15
	if scores.ContentOpportunity != 15 {
		t.Errorf("ContentOpportunity = %d, want 15", scores.ContentOpportunity)
	}
	// max(0, 100-50)*0.4 = 20
	if scores.TechnicalOpportunity != 20 {
		t.Errorf("TechnicalOpportunity = %d, want 20", scores.TechnicalOpportunity)
	}
	// max(0, 100-50)*0.3 = 15
	if scores.LinkOpportunity != 15 {
		t.Errorf("LinkOpportunity = %d, want 15", scores.LinkOpportunity)
	}
}

func TestScoreOpportunityFormulas(t *testing.T) {
	gaps := model.GapReport{
		AttributeGaps: model.AttributeGaps{
			MissingRare:         make([]model.AttributeGap, 2),
			UniqueOpportunities: make([]model.AttributeGap, 1),
		},
		TechnicalGaps: model.TechnicalGaps{
			EntityLinkingGap: true,
			NavigationIssues: []string{"a", "b"},
		},
		LinkGaps: model.LinkGaps{
			FlowIssues:          []string{"f"},
			AnchorQualityIssues: []string{"x", "y"},
			BridgeOpportunities: []string{"t"},
		},
	}
	comps := []model.CompetitorAnalysis{
		{
			OverallScore: 80,
			Content:      model.ContentLayer{ContentScore: 80},
			Technical:    model.TechnicalLayer{TechnicalScore: 60},
			Link:         model.LinkLayer{LinkScore: 70},
		},
		{
			OverallScore: 60,
			Content:      model.ContentLayer{ContentScore: 60},
			Technical:    model.TechnicalLayer{TechnicalScore: 40},
			Link:         model.LinkLayer{LinkScore: 50},
		},
	}

	scores := ScoreOpportunity(gaps, comps)

	// content: 2*8 + 1*12 + (100-70)*0.3 = 37
	if scores.ContentOpportunity != 37 {
		t.Errorf("ContentOpportunity = %d, want 37", scores.ContentOpportunity)
	}
	// technical: 35 + 2*10 + (100-50)*0.4 = 75
	if scores.TechnicalOpportunity != 75 {
		t.Errorf("TechnicalOpportunity = %d, want 75", scores.TechnicalOpportunity)
	}
	// link: 1*15 + 2*12 + 1*8 + (100-60)*0.3 = 59
	if scores.LinkOpportunity != 59 {
		t.Errorf("LinkOpportunity = %d, want 59", scores.LinkOpportunity)
	}
	// difficulty: round((80+60)/2) = 70
	if scores.OverallDifficulty != 70 {
		t.Errorf("OverallDifficulty = %d, want 70", scores.OverallDifficulty)
	}
}

func TestScoreOpportunityClamping(t *testing.T) {
	gaps := model.GapReport{
		AttributeGaps: model.AttributeGaps{
			MissingRare:         make([]model.AttributeGap, 20),
			UniqueOpportunities: make([]model.AttributeGap, 20),
		},
	}

	scores := ScoreOpportunity(gaps, nil)
	if scores.ContentOpportunity != 100 {
		t.Errorf("ContentOpportunity = %d, want clamped to 100", scores.ContentOpportunity)
	}
}
