package assembly

import (
	"context"
	"time"
)

// ProfileStore 定义画像存储接口
//
// 画像由外部服务持有（外部缓存、编辑时显式失效），引擎每次调用
// 只读取。
type ProfileStore interface {
	// Get 按名称获取画像，不存在时返回 nil 且无错误
	Get(ctx context.Context, name string) (*Profile, error)
	// GetDefault 获取默认画像，未配置时返回 ErrNoDefaultProfile
	GetDefault(ctx context.Context) (*Profile, error)
	// List 列出全部画像
	List(ctx context.Context) ([]*Profile, error)
}

// Embedder 定义查询嵌入接口
type Embedder interface {
	// Embed 生成文本的嵌入向量
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RetrievalQuery 候选检索条件
type RetrievalQuery struct {
	// Embedding 查询嵌入向量，无查询时为 nil
	Embedding []float32
	// MinSimilarity 相似度下限
	MinSimilarity float64
	// MinSalience 显著性下限
	MinSalience float64
	// MinStrength 保持强度下限
	MinStrength float64
	// Since 回溯起点
	Since time.Time
	// ExcludeTag 排除的会话模式标签
	ExcludeTag string
	// Limit 返回上限
	Limit int
}

// CandidateRetriever 定义候选检索接口
//
// 实现方负责向量/关系检索与超时控制；Similarity 仅在提供嵌入时
// 填充。
type CandidateRetriever interface {
	// Retrieve 按条件检索候选条目
	Retrieve(ctx context.Context, query RetrievalQuery) ([]CandidateItem, error)
}

// EntitySource 定义实体提及查询接口
//
// 按选中条目的 ID 集合返回提及最多的前 20 个实体，排除已合并
// 实体。
type EntitySource interface {
	// EntitiesForItems 查询条目关联的实体提及
	EntitiesForItems(ctx context.Context, itemIDs []string) ([]EntityMention, error)
}

// SummarySource 定义摘要提供接口
type SummarySource interface {
	// NonEmpty 返回全部非空摘要
	NonEmpty(ctx context.Context) ([]Summary, error)
}

// NoteSource 定义笔记检索接口
type NoteSource interface {
	// Search 按查询检索笔记
	Search(ctx context.Context, query string, limit int, threshold float64) ([]NoteMatch, error)
	// Pinned 返回置顶笔记
	Pinned(ctx context.Context) ([]NoteMatch, error)
}

// ListSource 定义清单检索接口
type ListSource interface {
	// Search 按查询检索清单
	Search(ctx context.Context, query string, limit int, threshold float64) ([]ListMatch, error)
}

// DocumentSource 定义文档摘录检索接口
type DocumentSource interface {
	// Search 按查询检索文档摘录
	Search(ctx context.Context, query string, limit int, threshold float64) ([]DocumentMatch, error)
}

// DisclosureStore 定义披露记录存储接口
//
// 仅追加：记录写入后不可修改。
type DisclosureStore interface {
	// Append 追加披露记录，返回记录标识
	Append(ctx context.Context, record *DisclosureRecord) (string, error)
	// List 按时间倒序列出披露记录，conversationID 为空时不过滤
	List(ctx context.Context, limit int, conversationID string) ([]*DisclosureRecord, error)
}
