package intel

import (
	"testing"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

func compWithURL(url string) model.CompetitorAnalysis {
	return model.CompetitorAnalysis{URL: url}
}

func compWithSchema(types ...string) model.CompetitorAnalysis {
	return model.CompetitorAnalysis{
		Technical: model.TechnicalLayer{SchemaTypes: types},
	}
}

func TestDominantContentType(t *testing.T) {
	tests := []struct {
		name string
		urls []string
		want string
	}{
		{"plurality", []string{
			"https://a.com/guide-to-x",
			"https://b.com/x-tutorial",
			"https://c.com/x-review",
		}, "guide"},
		{"tie resolved by declaration order", []string{
			"https://a.com/x-review",
			"https://b.com/ultimate-guide",
		}, "guide"},
		{"fallback article", []string{
			"https://a.com/posts/12345",
		}, "article"},
		{"zero competitors", nil, "unknown"},
		{"listicle", []string{
			"https://a.com/best-widgets",
			"https://b.com/top-10-widgets",
			"https://c.com/widget",
		}, "listicle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var comps []model.CompetitorAnalysis
			for _, u := range tt.urls {
				comps = append(comps, compWithURL(u))
			}
			got := dominantContentType(comps)
			if got != tt.want {
				t.Errorf("dominantContentType = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvgContentVolume(t *testing.T) {
	comps := []model.CompetitorAnalysis{
		{Content: model.ContentLayer{AttributeTriples: make([]model.AttributeTriple, 10)}},
		{Content: model.ContentLayer{AttributeTriples: make([]model.AttributeTriple, 20)}},
	}

	// (10*50 + 20*50) / 2 = 750
	if got := avgContentVolume(comps); got != 750 {
		t.Errorf("avgContentVolume = %d, want 750", got)
	}
	if got := avgContentVolume(nil); got != 0 {
		t.Errorf("avgContentVolume(nil) = %d, want 0", got)
	}
}

func TestCommonSchemaTypesBoundary(t *testing.T) {
	comps := []model.CompetitorAnalysis{
		compWithSchema("Article", "FAQPage"),
		compWithSchema("Article"),
		compWithSchema("Product"),
		compWithSchema(),
	}

	// Article 2/4 = 50% 含边界应入选；FAQPage 与 Product 1/4 = 25% 应排除
	got := CommonSchemaTypes(comps)
	if len(got) != 1 || got[0] != "Article" {
		t.Errorf("CommonSchemaTypes = %v, want [Article]", got)
	}
}

func TestAggregatePatternsTopAttributes(t *testing.T) {
	classifications := make([]model.AttributeClassification, 15)
	for i := range classifications {
		classifications[i] = model.AttributeClassification{Attribute: string(rune('a' + i))}
	}

	patterns := AggregatePatterns(nil, classifications)
	if len(patterns.TopAttributes) != TopAttributeLimit {
		t.Errorf("TopAttributes len = %d, want %d", len(patterns.TopAttributes), TopAttributeLimit)
	}
	if patterns.DominantContentType != "unknown" {
		t.Errorf("DominantContentType = %q, want unknown", patterns.DominantContentType)
	}
}
