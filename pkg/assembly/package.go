package assembly

// ContextPackage 组装结果包
//
// 单次调用的最终产出：选中条目、辅助证据、Token 总量、披露记录
// 标识以及两种渲染。由调用方按需序列化，引擎不持久化。
type ContextPackage struct {
	// Items 选中条目，按综合得分降序
	Items []ScoredItem `json:"items"`
	// Evidence 辅助证据集合
	Evidence *EvidenceSet `json:"evidence"`
	// TokenCount 选中条目的 Token 总量
	TokenCount int `json:"token_count"`
	// DisclosureID 披露记录标识
	DisclosureID string `json:"disclosure_id"`
	// Profile 使用的画像名称
	Profile string `json:"profile"`
	// Narrative 叙事渲染（不含 ID 与得分）
	Narrative string `json:"narrative"`
	// Structured 结构化渲染（含得分，仅供检视调试）
	Structured *StructuredView `json:"structured,omitempty"`
}

// StructuredView 结构化视图
//
// 完整镜像结果包，包含数值得分，面向检视与调试。
type StructuredView struct {
	// Profile 画像名称
	Profile string `json:"profile"`
	// Query 查询文本
	Query string `json:"query,omitempty"`
	// Items 选中条目
	Items []StructuredItem `json:"items"`
	// Evidence 辅助证据
	Evidence *EvidenceSet `json:"evidence"`
	// TokenCount Token 总量
	TokenCount int `json:"token_count"`
	// DisclosureID 披露记录标识
	DisclosureID string `json:"disclosure_id"`
}

// StructuredItem 结构化视图中的条目
type StructuredItem struct {
	// ID 条目标识
	ID string `json:"id"`
	// Content 条目内容
	Content string `json:"content"`
	// Salience 显著性
	Salience float64 `json:"salience"`
	// Strength 保持强度
	Strength float64 `json:"strength"`
	// Similarity 相似度
	Similarity *float64 `json:"similarity,omitempty"`
	// RecencyScore 新近度得分
	RecencyScore float64 `json:"recency_score"`
	// FinalScore 综合得分
	FinalScore float64 `json:"final_score"`
	// TokenEstimate Token 估算值
	TokenEstimate int `json:"token_estimate"`
	// Tier 披露层级
	Tier Tier `json:"tier"`
}
