package assembly

import (
	"math"
	"sort"
)

// tierOrder 预算填充顺序
var tierOrder = []Tier{TierHighSalience, TierRelevant, TierRecent}

// Allocator 预算分配器
//
// 每层上限为 floor(MaxTokens × 比例)。层内按综合得分降序贪心
// 选取：超出上限的条目直接跳过，既不回看也不移入其他层级
// （层级之间不借用配额，这是刻意的简化）。
type Allocator struct {
	maxTokens int
	caps      Caps
}

// NewAllocator 创建预算分配器
func NewAllocator(maxTokens int, caps Caps) *Allocator {
	return &Allocator{
		maxTokens: maxTokens,
		caps:      caps,
	}
}

// Ceiling 返回指定层级的 Token 上限
func (a *Allocator) Ceiling(tier Tier) int {
	return int(math.Floor(float64(a.maxTokens) * a.caps.For(tier)))
}

// Allocate 在预算内选取条目
//
// 返回所有层级选中条目的并集，按综合得分降序重排供展示
// （展示顺序与填充顺序无关）。
func (a *Allocator) Allocate(items []ScoredItem) []ScoredItem {
	byTier := make(map[Tier][]ScoredItem, len(tierOrder))
	for _, item := range items {
		byTier[item.Tier] = append(byTier[item.Tier], item)
	}

	selected := make([]ScoredItem, 0, len(items))
	for _, tier := range tierOrder {
		candidates := byTier[tier]
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].FinalScore > candidates[j].FinalScore
		})

		ceiling := a.Ceiling(tier)
		used := 0
		for _, item := range candidates {
			if used+item.TokenEstimate > ceiling {
				continue
			}
			used += item.TokenEstimate
			selected = append(selected, item)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].FinalScore > selected[j].FinalScore
	})

	return selected
}
