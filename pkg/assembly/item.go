package assembly

import "time"

// Tier 披露层级
//
// 用于预算分区：每个层级占用最大 Token 预算的固定比例，层级之间
// 不互相借用配额。
type Tier string

const (
	// TierHighSalience 高显著性层：持久重要的条目
	TierHighSalience Tier = "high_salience"
	// TierRelevant 相关层：与当前查询强匹配的条目
	TierRelevant Tier = "relevant"
	// TierRecent 新近层：兜底层级
	TierRecent Tier = "recent"
)

// CandidateItem 候选记忆条目
//
// 由外部检索器按请求构建，仅在单次调用内存活。
type CandidateItem struct {
	// ID 条目标识
	ID string
	// Content 条目内容
	Content string
	// CreatedAt 创建时间
	CreatedAt time.Time
	// Salience 显著性，外部计算，范围 [0, 10]
	Salience float64
	// Strength 保持强度，外部计算，范围 [0, 1]
	Strength float64
	// Similarity 与查询的相似度，范围 [0, 1]；无查询时为 nil
	Similarity *float64
}

// ScoredItem 已评分条目
//
// 候选条目加上评分流水线产出的派生字段。未被选中的条目在分配
// 之后即被丢弃。
type ScoredItem struct {
	CandidateItem

	// RecencyScore 新近度得分，范围 [0, 1]
	RecencyScore float64
	// FinalScore 综合得分，范围 [0, 1]
	FinalScore float64
	// TokenEstimate Token 估算值
	TokenEstimate int
	// Tier 披露层级
	Tier Tier
}

// Similarity 辅助函数：构造相似度指针
func Similarity(v float64) *float64 {
	return &v
}
