package assembly

// EvidenceKind 证据类型判别标签
type EvidenceKind string

const (
	// KindEntity 实体提及
	KindEntity EvidenceKind = "entity"
	// KindSummary 在养摘要
	KindSummary EvidenceKind = "summary"
	// KindNote 笔记
	KindNote EvidenceKind = "note"
	// KindList 清单
	KindList EvidenceKind = "list"
	// KindDocument 文档摘录
	KindDocument EvidenceKind = "document"
)

// Evidence 辅助证据
//
// 五种来源归一化为带判别标签的联合类型：公共字段 ID/Label/Content/
// Similarity，类型特有字段按 Kind 取用。渲染逻辑按标签分派。
type Evidence struct {
	// Kind 判别标签
	Kind EvidenceKind `json:"kind"`
	// ID 证据标识
	ID string `json:"id"`
	// Label 显示名称
	Label string `json:"label"`
	// Content 证据内容
	Content string `json:"content"`
	// Similarity 与查询的相似度（可选）
	Similarity *float64 `json:"similarity,omitempty"`

	// EntityType 实体类型（person/project/organization/place/concept）
	EntityType string `json:"entity_type,omitempty"`
	// MentionCount 实体提及次数
	MentionCount int `json:"mention_count,omitempty"`

	// Category 摘要类别
	Category string `json:"category,omitempty"`
	// Version 摘要版本
	Version int `json:"version,omitempty"`
	// MemoryCount 摘要覆盖的记忆条目数
	MemoryCount int `json:"memory_count,omitempty"`

	// Pinned 笔记是否置顶
	Pinned bool `json:"pinned,omitempty"`

	// Location 文档摘录位置（页码、章节等）
	Location string `json:"location,omitempty"`
}

// EvidenceSet 按类型分组的证据集合
type EvidenceSet struct {
	// Summaries 在养摘要
	Summaries []Evidence `json:"summaries"`
	// Notes 笔记（置顶在前，按 ID 去重）
	Notes []Evidence `json:"notes"`
	// Lists 清单
	Lists []Evidence `json:"lists"`
	// Documents 文档摘录
	Documents []Evidence `json:"documents"`
	// Entities 实体提及
	Entities []Evidence `json:"entities"`
}

// Count 返回证据总数
func (s *EvidenceSet) Count() int {
	return len(s.Summaries) + len(s.Notes) + len(s.Lists) +
		len(s.Documents) + len(s.Entities)
}

// EntityMention 实体提及查询的原始结果
type EntityMention struct {
	// ID 实体标识
	ID string
	// Name 实体名称
	Name string
	// Type 实体类型
	Type string
	// MentionCount 在选中条目中的提及次数
	MentionCount int
}

// Summary 在养摘要的原始结果
type Summary struct {
	// Category 摘要类别
	Category string
	// Content 摘要内容
	Content string
	// Version 摘要版本
	Version int
	// MemoryCount 覆盖的记忆条目数
	MemoryCount int
}

// NoteMatch 笔记检索的原始结果
type NoteMatch struct {
	// ID 笔记标识
	ID string
	// Title 笔记标题
	Title string
	// Content 笔记内容
	Content string
	// Similarity 与查询的相似度
	Similarity float64
	// Pinned 是否置顶
	Pinned bool
}

// ListMatch 清单检索的原始结果
type ListMatch struct {
	// ID 清单标识
	ID string
	// Name 清单名称
	Name string
	// Content 清单内容（条目的文本串接）
	Content string
	// Similarity 与查询的相似度
	Similarity float64
}

// DocumentMatch 文档摘录检索的原始结果
type DocumentMatch struct {
	// ID 摘录标识
	ID string
	// Name 文档名称
	Name string
	// Content 摘录内容
	Content string
	// Location 摘录位置
	Location string
	// Similarity 与查询的相似度
	Similarity float64
}
