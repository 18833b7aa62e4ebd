package intel

import (
	"fmt"
	"testing"

	"github.com/iWorld-y/serp_intel/pkg/model"
)

// makeSources 构造 total 个竞品，其中前 covered 个包含指定属性
func makeSources(attr string, covered, total int) []AttributeSource {
	sources := make([]AttributeSource, total)
	for i := 0; i < total; i++ {
		sources[i] = AttributeSource{URL: fmt.Sprintf("https://site%d.com", i)}
		if i < covered {
			sources[i].Triples = []model.AttributeTriple{
				{Subject: "entity", Relation: attr, Value: fmt.Sprintf("v%d", i)},
			}
		}
	}
	return sources
}

func TestClassifyAttributesTierBoundaries(t *testing.T) {
	tests := []struct {
		covered int
		total   int
		want    model.RarityTier
	}{
		{7, 10, model.TierRoot},   // 0.70 边界值归入 Root
		{6, 10, model.TierRare},   // 0.60 < 0.70
		{2, 10, model.TierRare},   // 0.20 边界值归入 Rare
		{1, 10, model.TierUnique}, // 0.10 < 0.20
		{6999, 10000, model.TierRare},
		{1999, 10000, model.TierUnique},
	}

	for _, tt := range tests {
		out := ClassifyAttributes(makeSources("price", tt.covered, tt.total))
		if len(out) != 1 {
			t.Fatalf("(%d/%d) len = %d, want 1", tt.covered, tt.total, len(out))
		}
		if out[0].Tier != tt.want {
			t.Errorf("(%d/%d) tier = %v, want %v", tt.covered, tt.total, out[0].Tier, tt.want)
		}
		if out[0].CompetitorCount != tt.covered {
			t.Errorf("(%d/%d) count = %d, want %d", tt.covered, tt.total, out[0].CompetitorCount, tt.covered)
		}
	}
}

func TestClassifyAttributesCoverageAndExample(t *testing.T) {
	sources := []AttributeSource{
		{URL: "https://a.com", Triples: []model.AttributeTriple{
			{Subject: "e", Relation: "price", Value: "$10"},
			{Subject: "e", Relation: "price", Value: "$20"}, // 同一竞品重复出现只计一次
			{Subject: "e", Relation: "warranty", Value: "2y"},
		}},
		{URL: "https://b.com", Triples: []model.AttributeTriple{
			{Subject: "e", Relation: "price", Value: "$15"},
		}},
	}

	out := ClassifyAttributes(sources)
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}

	// 覆盖率降序：price (1.0) 在前
	if out[0].Attribute != "price" || out[0].Coverage != 1.0 {
		t.Errorf("out[0] = %+v, want price coverage 1.0", out[0])
	}
	if out[0].ExampleValue != "$10" {
		t.Errorf("ExampleValue = %q, want first observed value $10", out[0].ExampleValue)
	}
	if out[1].Attribute != "warranty" || out[1].Coverage != 0.5 {
		t.Errorf("out[1] = %+v, want warranty coverage 0.5", out[1])
	}
}

func TestClassifyAttributesDeterministicOrder(t *testing.T) {
	sources := []AttributeSource{
		{URL: "https://a.com", Triples: []model.AttributeTriple{
			{Relation: "zeta", Value: "1"},
			{Relation: "alpha", Value: "2"},
			{Relation: "mid", Value: "3"},
		}},
	}

	// 同覆盖率按属性名升序
	out := ClassifyAttributes(sources)
	want := []string{"alpha", "mid", "zeta"}
	for i, attr := range want {
		if out[i].Attribute != attr {
			t.Errorf("out[%d] = %q, want %q", i, out[i].Attribute, attr)
		}
	}
}

func TestClassifyAttributesEmptyInput(t *testing.T) {
	out := ClassifyAttributes(nil)
	if out == nil || len(out) != 0 {
		t.Errorf("want empty non-nil slice, got %v", out)
	}
}
