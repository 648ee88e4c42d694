// Package config 提供引擎配置的加载和管理功能
package config

import (
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/RidgetopAi/squire-sub002/pkg/otel"
)

// Config 全局配置结构
type Config struct {
	// Store 存储配置
	Store StoreConfig `koanf:"store"`
	// Embedder 嵌入提供者配置
	Embedder EmbedderConfig `koanf:"embedder"`
	// Engine 组装引擎配置
	Engine EngineConfig `koanf:"engine"`
	// Observability 可观测性配置
	Observability otel.Config `koanf:"observability"`
}

// StoreConfig 存储配置
type StoreConfig struct {
	// SQLitePath 画像与披露日志的 SQLite 数据库路径
	SQLitePath string `koanf:"sqlite_path"`
	// Neo4jURI 实体提及查询的 Neo4j 连接 URI
	Neo4jURI string `koanf:"neo4j_uri"`
	// Neo4jUsername Neo4j 用户名
	Neo4jUsername string `koanf:"neo4j_username"`
	// Neo4jPassword Neo4j 密码
	Neo4jPassword string `koanf:"neo4j_password"`
}

// EmbedderConfig 嵌入提供者配置
type EmbedderConfig struct {
	// APIKey API 密钥
	APIKey string `koanf:"api_key"`
	// Model 嵌入模型名称
	Model string `koanf:"model"`
	// BaseURL 自定义服务地址（可选）
	BaseURL string `koanf:"base_url"`
	// MaxRetries 最大重试次数
	MaxRetries int `koanf:"max_retries"`
	// RetryDelay 重试间隔
	RetryDelay time.Duration `koanf:"retry_delay"`
}

// EngineConfig 组装引擎配置
type EngineConfig struct {
	// RetrievalLimit 候选检索上限
	RetrievalLimit int `koanf:"retrieval_limit"`
	// EvidenceLimit 单个证据来源的返回上限
	EvidenceLimit int `koanf:"evidence_limit"`
	// EvidenceThreshold 证据检索的相似度阈值
	EvidenceThreshold float64 `koanf:"evidence_threshold"`
}

// Loader 配置加载器
type Loader struct {
	k *koanf.Koanf
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		k: koanf.New("."),
	}
}

// LoadEnv 从环境变量加载配置
func (l *Loader) LoadEnv(prefix string) error {
	return l.k.Load(env.Provider(prefix, ".", func(s string) string {
		// 转换环境变量名: SQUIRE_STORE__SQLITE_PATH -> store.sqlite_path
		s = strings.TrimPrefix(s, prefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", ".")
		return s
	}), nil)
}

// Unmarshal 解析配置到结构体
func (l *Loader) Unmarshal(cfg *Config) error {
	return l.k.Unmarshal("", cfg)
}

// GetString 获取字符串配置值
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt 获取整数配置值
func (l *Loader) GetInt(key string) int {
	return l.k.Int(key)
}

// GetBool 获取布尔配置值
func (l *Loader) GetBool(key string) bool {
	return l.k.Bool(key)
}

// GetDuration 获取时间间隔配置值
func (l *Loader) GetDuration(key string) time.Duration {
	return l.k.Duration(key)
}

// Load 加载完整配置（环境变量 + 默认值）
func Load() (*Config, error) {
	loader := NewLoader()

	if err := loader.LoadEnv("SQUIRE_"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := loader.Unmarshal(cfg); err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults 应用默认配置值
func applyDefaults(cfg *Config) {
	if cfg.Store.SQLitePath == "" {
		cfg.Store.SQLitePath = "./squire_data/assembly.db"
	}
	if cfg.Store.Neo4jURI == "" {
		cfg.Store.Neo4jURI = "bolt://localhost:7687"
	}

	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "text-embedding-3-small"
	}
	if cfg.Embedder.MaxRetries == 0 {
		cfg.Embedder.MaxRetries = 3
	}
	if cfg.Embedder.RetryDelay == 0 {
		cfg.Embedder.RetryDelay = time.Second
	}

	if cfg.Engine.RetrievalLimit == 0 {
		cfg.Engine.RetrievalLimit = 100
	}
	if cfg.Engine.EvidenceLimit == 0 {
		cfg.Engine.EvidenceLimit = 5
	}
	if cfg.Engine.EvidenceThreshold == 0 {
		cfg.Engine.EvidenceThreshold = 0.3
	}
}
