package assembly

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
)

// DisclosureRecord 披露审计记录
//
// 仅追加的审计行，记录单次调用实际披露了什么。辅助证据的 ID
// 不计入记录，只记选中的记忆条目。
type DisclosureRecord struct {
	// ID 记录标识
	ID string `json:"id"`
	// Profile 使用的画像名称
	Profile string `json:"profile"`
	// Query 查询文本，无查询时为空
	Query string `json:"query,omitempty"`
	// ItemIDs 披露的条目标识
	ItemIDs []string `json:"item_ids"`
	// ItemCount 披露条目数（含零）
	ItemCount int `json:"item_count"`
	// Weights 使用的评分权重
	Weights Weights `json:"weights"`
	// TokenCount 披露的 Token 总量
	TokenCount int `json:"token_count"`
	// Format 输出格式
	Format Format `json:"format"`
	// ConversationID 关联的会话标识（可选）
	ConversationID string `json:"conversation_id,omitempty"`
	// CreatedAt 记录时间
	CreatedAt time.Time `json:"created_at"`
}

// DisclosureLogger 披露记录器
//
// 选取定案后同步写入审计记录。写入失败对整次调用是致命的：
// 审计是合规要求而非尽力而为，没有持久记录就不返回结果。
type DisclosureLogger struct {
	store DisclosureStore
}

// NewDisclosureLogger 创建披露记录器
func NewDisclosureLogger(store DisclosureStore) *DisclosureLogger {
	return &DisclosureLogger{store: store}
}

// Log 写入披露记录并返回记录标识
func (l *DisclosureLogger) Log(ctx context.Context, profile *Profile, query string,
	selected []ScoredItem, tokenCount int, conversationID string, now time.Time) (string, error) {

	itemIDs := make([]string, 0, len(selected))
	for _, item := range selected {
		itemIDs = append(itemIDs, item.ID)
	}

	record := &DisclosureRecord{
		ID:             uuid.NewString(),
		Profile:        profile.Name,
		Query:          query,
		ItemIDs:        itemIDs,
		ItemCount:      len(itemIDs),
		Weights:        profile.Weights,
		TokenCount:     tokenCount,
		Format:         profile.Format,
		ConversationID: conversationID,
		CreatedAt:      now,
	}

	id, err := l.store.Append(ctx, record)
	if err != nil {
		return "", errors.WrapError(errors.ErrAuditFailed, err.Error())
	}
	return id, nil
}
