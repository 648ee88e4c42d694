package assembly

import (
	"math"
	"testing"
)

func scoredItem(id string, score float64, tokens int, tier Tier) ScoredItem {
	return ScoredItem{
		CandidateItem: CandidateItem{ID: id, Content: "x"},
		FinalScore:    score,
		TokenEstimate: tokens,
		Tier:          tier,
	}
}

func TestAllocatorCeiling(t *testing.T) {
	allocator := NewAllocator(1000, Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2})

	tests := []struct {
		tier     Tier
		expected int
	}{
		{TierHighSalience, 500},
		{TierRelevant, 300},
		{TierRecent, 200},
	}

	for _, tt := range tests {
		if got := allocator.Ceiling(tt.tier); got != tt.expected {
			t.Errorf("tier %s: expected ceiling %d, got %d", tt.tier, tt.expected, got)
		}
	}
}

func TestAllocatorCeilingFloors(t *testing.T) {
	// floor(333 × 0.5) = 166
	allocator := NewAllocator(333, Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2})
	if got := allocator.Ceiling(TierHighSalience); got != 166 {
		t.Errorf("expected floored ceiling 166, got %d", got)
	}
}

func TestAllocateGreedySkip(t *testing.T) {
	allocator := NewAllocator(100, Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2})

	// 上限 50：最高分 30 入选，次分 30 入选（计 60 超限被跳过），
	// 低分小条目仍可入选
	items := []ScoredItem{
		scoredItem("a", 0.9, 30, TierHighSalience),
		scoredItem("b", 0.8, 30, TierHighSalience),
		scoredItem("c", 0.7, 15, TierHighSalience),
	}

	selected := allocator.Allocate(items)

	ids := make(map[string]bool)
	for _, item := range selected {
		ids[item.ID] = true
	}
	if !ids["a"] || ids["b"] || !ids["c"] {
		t.Errorf("expected {a, c} selected, got %v", ids)
	}
}

func TestAllocateNoTierBorrowing(t *testing.T) {
	allocator := NewAllocator(100, Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2})

	// 高显著性层留有余量，但相关层的超限条目不得借用
	items := []ScoredItem{
		scoredItem("a", 0.9, 10, TierHighSalience),
		scoredItem("b", 0.8, 40, TierRelevant),
	}

	selected := allocator.Allocate(items)
	if len(selected) != 1 || selected[0].ID != "a" {
		t.Errorf("expected only a selected, got %d items", len(selected))
	}
}

func TestAllocatePresentationOrder(t *testing.T) {
	allocator := NewAllocator(1000, Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2})

	// 填充顺序按层级，展示顺序按综合得分降序
	items := []ScoredItem{
		scoredItem("low-high-tier", 0.3, 10, TierHighSalience),
		scoredItem("top-recent", 0.9, 10, TierRecent),
		scoredItem("mid-relevant", 0.6, 10, TierRelevant),
	}

	selected := allocator.Allocate(items)
	if len(selected) != 3 {
		t.Fatalf("expected 3 selected, got %d", len(selected))
	}
	wantOrder := []string{"top-recent", "mid-relevant", "low-high-tier"}
	for i, want := range wantOrder {
		if selected[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, selected[i].ID)
		}
	}
}

func TestAllocateBudgetLaw(t *testing.T) {
	maxTokens := 777
	caps := Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2}
	allocator := NewAllocator(maxTokens, caps)

	var items []ScoredItem
	tiers := []Tier{TierHighSalience, TierRelevant, TierRecent}
	for i := 0; i < 60; i++ {
		tier := tiers[i%3]
		items = append(items, scoredItem(
			string(rune('a'+i%26))+string(rune('0'+i/26)),
			float64(60-i)/60,
			17+i%23,
			tier,
		))
	}

	selected := allocator.Allocate(items)

	usedByTier := make(map[Tier]int)
	for _, item := range selected {
		usedByTier[item.Tier] += item.TokenEstimate
	}

	for _, tier := range tiers {
		ceiling := int(math.Floor(float64(maxTokens) * caps.For(tier)))
		if usedByTier[tier] > ceiling {
			t.Errorf("tier %s: used %d exceeds ceiling %d", tier, usedByTier[tier], ceiling)
		}
	}
}

func TestAllocateEmpty(t *testing.T) {
	allocator := NewAllocator(1000, Caps{HighSalience: 0.5, Relevant: 0.3, Recent: 0.2})
	selected := allocator.Allocate(nil)
	if len(selected) != 0 {
		t.Errorf("expected empty selection, got %d items", len(selected))
	}
}
