// Package store 提供组装引擎的参考存储实现。
//
// SQLite 承载画像与仅追加的披露日志，Neo4j 承载实体提及查询，
// 内存实现用于测试与示例。画像在生产部署中通常由外部服务持有，
// 这里的实现作为默认后端与集成样例。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/RidgetopAi/squire-sub002/pkg/assembly"
	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
)

// SQLiteStore SQLite 存储
//
// 同时实现画像存储与披露记录存储。披露表仅追加，没有更新与
// 删除语句。
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore 创建 SQLite 存储
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initSchema 初始化数据库表结构
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		name TEXT PRIMARY KEY,
		weight_salience REAL NOT NULL,
		weight_relevance REAL NOT NULL,
		weight_recency REAL NOT NULL,
		weight_strength REAL NOT NULL,
		cap_high_salience REAL NOT NULL,
		cap_relevant REAL NOT NULL,
		cap_recent REAL NOT NULL,
		min_salience REAL NOT NULL,
		min_strength REAL NOT NULL,
		lookback_days INTEGER NOT NULL,
		max_tokens INTEGER NOT NULL,
		format TEXT NOT NULL,
		is_default INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS disclosures (
		id TEXT PRIMARY KEY,
		profile TEXT NOT NULL,
		query TEXT,
		item_ids TEXT NOT NULL,
		item_count INTEGER NOT NULL,
		weights TEXT NOT NULL,
		token_count INTEGER NOT NULL,
		format TEXT NOT NULL,
		conversation_id TEXT,
		created_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_disclosures_created_at ON disclosures(created_at);
	CREATE INDEX IF NOT EXISTS idx_disclosures_conversation ON disclosures(conversation_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveProfile 保存画像
//
// 设为默认时清除其他画像的默认标记。
func (s *SQLiteStore) SaveProfile(ctx context.Context, profile *assembly.Profile) error {
	if err := profile.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if profile.Default {
		if _, err := tx.ExecContext(ctx, `UPDATE profiles SET is_default = 0`); err != nil {
			return fmt.Errorf("failed to clear default flags: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO profiles (
			name, weight_salience, weight_relevance, weight_recency, weight_strength,
			cap_high_salience, cap_relevant, cap_recent,
			min_salience, min_strength, lookback_days, max_tokens, format, is_default
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.Name,
		profile.Weights.Salience, profile.Weights.Relevance,
		profile.Weights.Recency, profile.Weights.Strength,
		profile.Caps.HighSalience, profile.Caps.Relevant, profile.Caps.Recent,
		profile.MinSalience, profile.MinStrength,
		profile.LookbackDays, profile.MaxTokens,
		string(profile.Format), boolToInt(profile.Default),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return tx.Commit()
}

// Get 按名称获取画像
//
// 不存在时返回 nil 且无错误，由调用方决定是否回落默认画像。
func (s *SQLiteStore) Get(ctx context.Context, name string) (*assembly.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, weight_salience, weight_relevance, weight_recency, weight_strength,
			cap_high_salience, cap_relevant, cap_recent,
			min_salience, min_strength, lookback_days, max_tokens, format, is_default
		FROM profiles WHERE name = ?`, name)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// GetDefault 获取默认画像
func (s *SQLiteStore) GetDefault(ctx context.Context) (*assembly.Profile, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT name, weight_salience, weight_relevance, weight_recency, weight_strength,
			cap_high_salience, cap_relevant, cap_recent,
			min_salience, min_strength, lookback_days, max_tokens, format, is_default
		FROM profiles WHERE is_default = 1 LIMIT 1`)

	profile, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNoDefaultProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default profile: %w", err)
	}
	return profile, nil
}

// List 列出全部画像
func (s *SQLiteStore) List(ctx context.Context) ([]*assembly.Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, weight_salience, weight_relevance, weight_recency, weight_strength,
			cap_high_salience, cap_relevant, cap_recent,
			min_salience, min_strength, lookback_days, max_tokens, format, is_default
		FROM profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*assembly.Profile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

// DeleteProfile 删除画像
func (s *SQLiteStore) DeleteProfile(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrProfileNotFound
	}
	return nil
}

// DisclosureLog 返回共享同一数据库连接的披露日志视图
func (s *SQLiteStore) DisclosureLog() *SQLiteDisclosureLog {
	return &SQLiteDisclosureLog{db: s.db}
}

// SQLiteDisclosureLog 披露日志的 SQLite 实现
//
// 与画像存储共用一个数据库，仅追加。
type SQLiteDisclosureLog struct {
	db *sql.DB
}

// Append 追加披露记录
func (l *SQLiteDisclosureLog) Append(ctx context.Context, record *assembly.DisclosureRecord) (string, error) {
	itemIDs, err := json.Marshal(record.ItemIDs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal item ids: %w", err)
	}
	weights, err := json.Marshal(record.Weights)
	if err != nil {
		return "", fmt.Errorf("failed to marshal weights: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO disclosures (
			id, profile, query, item_ids, item_count, weights,
			token_count, format, conversation_id, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Profile, record.Query,
		string(itemIDs), record.ItemCount, string(weights),
		record.TokenCount, string(record.Format),
		record.ConversationID, record.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("failed to append disclosure: %w", err)
	}
	return record.ID, nil
}

// List 按时间倒序列出披露记录
func (l *SQLiteDisclosureLog) List(ctx context.Context, limit int, conversationID string) ([]*assembly.DisclosureRecord, error) {
	query := `
		SELECT id, profile, query, item_ids, item_count, weights,
			token_count, format, conversation_id, created_at
		FROM disclosures`
	args := []interface{}{}
	if conversationID != "" {
		query += ` WHERE conversation_id = ?`
		args = append(args, conversationID)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list disclosures: %w", err)
	}
	defer rows.Close()

	var records []*assembly.DisclosureRecord
	for rows.Next() {
		var (
			record       assembly.DisclosureRecord
			queryText    sql.NullString
			itemIDs      string
			weights      string
			format       string
			conversation sql.NullString
			createdAt    time.Time
		)
		if err := rows.Scan(&record.ID, &record.Profile, &queryText,
			&itemIDs, &record.ItemCount, &weights,
			&record.TokenCount, &format, &conversation, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan disclosure: %w", err)
		}

		record.Query = queryText.String
		record.ConversationID = conversation.String
		record.Format = assembly.Format(format)
		record.CreatedAt = createdAt
		if err := json.Unmarshal([]byte(itemIDs), &record.ItemIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal item ids: %w", err)
		}
		if err := json.Unmarshal([]byte(weights), &record.Weights); err != nil {
			return nil, fmt.Errorf("failed to unmarshal weights: %w", err)
		}

		records = append(records, &record)
	}
	return records, rows.Err()
}

// Close 关闭数据库连接
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// rowScanner 兼容 sql.Row 和 sql.Rows 的扫描接口
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProfile 从查询结果扫描画像
func scanProfile(row rowScanner) (*assembly.Profile, error) {
	var (
		p         assembly.Profile
		format    string
		isDefault int
	)
	err := row.Scan(&p.Name,
		&p.Weights.Salience, &p.Weights.Relevance,
		&p.Weights.Recency, &p.Weights.Strength,
		&p.Caps.HighSalience, &p.Caps.Relevant, &p.Caps.Recent,
		&p.MinSalience, &p.MinStrength,
		&p.LookbackDays, &p.MaxTokens, &format, &isDefault,
	)
	if err != nil {
		return nil, err
	}
	p.Format = assembly.Format(format)
	p.Default = isDefault != 0
	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// 编译时接口检查
var _ assembly.ProfileStore = (*SQLiteStore)(nil)
var _ assembly.DisclosureStore = (*SQLiteDisclosureLog)(nil)
