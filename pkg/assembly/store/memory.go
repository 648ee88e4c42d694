package store

import (
	"context"
	"sync"

	"github.com/RidgetopAi/squire-sub002/pkg/assembly"
	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
)

// MemoryStore 内存存储
//
// 画像与披露日志的内存实现，用于测试与示例。并发安全。
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*assembly.Profile
	records  []*assembly.DisclosureRecord
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*assembly.Profile),
	}
}

// SaveProfile 保存画像
//
// 设为默认时清除其他画像的默认标记。
func (s *MemoryStore) SaveProfile(ctx context.Context, profile *assembly.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if profile.Default {
		for _, p := range s.profiles {
			p.Default = false
		}
	}

	clone := *profile
	s.profiles[profile.Name] = &clone
	return nil
}

// Get 按名称获取画像，不存在时返回 nil
func (s *MemoryStore) Get(ctx context.Context, name string) (*assembly.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[name]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

// GetDefault 获取默认画像
func (s *MemoryStore) GetDefault(ctx context.Context) (*assembly.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profiles {
		if p.Default {
			clone := *p
			return &clone, nil
		}
	}
	return nil, errors.ErrNoDefaultProfile
}

// List 列出全部画像
func (s *MemoryStore) List(ctx context.Context) ([]*assembly.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*assembly.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

// DeleteProfile 删除画像
func (s *MemoryStore) DeleteProfile(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[name]; !ok {
		return errors.ErrProfileNotFound
	}
	delete(s.profiles, name)
	return nil
}

// Append 追加披露记录
func (s *MemoryStore) Append(ctx context.Context, record *assembly.DisclosureRecord) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *record
	s.records = append(s.records, &clone)
	return record.ID, nil
}

// ListDisclosures 按时间倒序列出披露记录
func (s *MemoryStore) ListDisclosures(ctx context.Context, limit int, conversationID string) ([]*assembly.DisclosureRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*assembly.DisclosureRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := s.records[i]
		if conversationID != "" && r.ConversationID != conversationID {
			continue
		}
		clone := *r
		out = append(out, &clone)
	}
	return out, nil
}

// DisclosureLog 返回披露日志视图
//
// MemoryStore 的 List 已被画像列表占用，通过视图类型暴露
// DisclosureStore 接口。
func (s *MemoryStore) DisclosureLog() *MemoryDisclosureLog {
	return &MemoryDisclosureLog{store: s}
}

// MemoryDisclosureLog 披露日志的内存实现
type MemoryDisclosureLog struct {
	store *MemoryStore
}

// Append 追加披露记录
func (l *MemoryDisclosureLog) Append(ctx context.Context, record *assembly.DisclosureRecord) (string, error) {
	return l.store.Append(ctx, record)
}

// List 按时间倒序列出披露记录
func (l *MemoryDisclosureLog) List(ctx context.Context, limit int, conversationID string) ([]*assembly.DisclosureRecord, error) {
	return l.store.ListDisclosures(ctx, limit, conversationID)
}

// 编译时接口检查
var _ assembly.ProfileStore = (*MemoryStore)(nil)
var _ assembly.DisclosureStore = (*MemoryDisclosureLog)(nil)
