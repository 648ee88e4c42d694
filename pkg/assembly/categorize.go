package assembly

// tierRule 分层规则：谓词 + 层级
type tierRule struct {
	name    string
	matches func(item CandidateItem) bool
	tier    Tier
}

// Categorizer 分层器
//
// 按序评估规则列表，首个匹配生效。规则顺序而非得分大小决定归属，
// 持久重要性与瞬时话题匹配由此解耦：身份级事实不会被别处一次
// 强匹配挤出。阈值边界是冻结契约，调整前须与使用方确认。
type Categorizer struct {
	rules []tierRule
}

// NewCategorizer 创建分层器
func NewCategorizer() *Categorizer {
	return &Categorizer{
		rules: []tierRule{
			{
				name: "salience>=8",
				matches: func(item CandidateItem) bool {
					return item.Salience >= 8.0
				},
				tier: TierHighSalience,
			},
			{
				name: "salience>=6 and similarity absent or >=0.15",
				matches: func(item CandidateItem) bool {
					return item.Salience >= 6.0 &&
						(item.Similarity == nil || *item.Similarity >= 0.15)
				},
				tier: TierHighSalience,
			},
			{
				name: "similarity>=0.4",
				matches: func(item CandidateItem) bool {
					return item.Similarity != nil && *item.Similarity >= 0.4
				},
				tier: TierRelevant,
			},
			{
				name: "similarity>=0.35",
				matches: func(item CandidateItem) bool {
					return item.Similarity != nil && *item.Similarity >= 0.35
				},
				tier: TierRelevant,
			},
		},
	}
}

// Categorize 确定条目的披露层级
//
// 层级是条目自身属性的纯函数。
func (c *Categorizer) Categorize(item CandidateItem) Tier {
	for _, rule := range c.rules {
		if rule.matches(item) {
			return rule.tier
		}
	}
	return TierRecent
}
