package assembly

import (
	"fmt"

	"github.com/RidgetopAi/squire-sub002/pkg/core/errors"
)

// Format 输出格式
type Format string

const (
	// FormatNarrative 叙事格式：面向下游对话模型的自然语言视图
	FormatNarrative Format = "narrative"
	// FormatStructured 结构化格式：含数值得分的调试视图
	FormatStructured Format = "structured"
)

// Weights 评分权重
//
// 引擎不对权重做归一化，仅对综合得分做 [0, 1] 截断。
type Weights struct {
	// Salience 显著性权重
	Salience float64 `json:"salience"`
	// Relevance 相关性权重
	Relevance float64 `json:"relevance"`
	// Recency 新近度权重
	Recency float64 `json:"recency"`
	// Strength 保持强度权重
	Strength float64 `json:"strength"`
}

// Caps 各层级预算比例
//
// 每层的 Token 上限为 floor(MaxTokens × 比例)。
type Caps struct {
	// HighSalience 高显著性层比例
	HighSalience float64 `json:"high_salience"`
	// Relevant 相关层比例
	Relevant float64 `json:"relevant"`
	// Recent 新近层比例
	Recent float64 `json:"recent"`
}

// For 返回指定层级的预算比例
func (c Caps) For(tier Tier) float64 {
	switch tier {
	case TierHighSalience:
		return c.HighSalience
	case TierRelevant:
		return c.Relevant
	case TierRecent:
		return c.Recent
	default:
		return 0
	}
}

// Profile 组装画像
//
// 命名配置集，控制一种组装风格的权重、阈值与输出形式。
// 画像由外部存储持有，引擎每次调用只读取不修改。
type Profile struct {
	// Name 画像名称
	Name string `json:"name"`
	// Weights 评分权重
	Weights Weights `json:"weights"`
	// Caps 各层级预算比例
	Caps Caps `json:"caps"`
	// MinSalience 候选检索的显著性下限
	MinSalience float64 `json:"min_salience"`
	// MinStrength 候选检索的保持强度下限
	MinStrength float64 `json:"min_strength"`
	// LookbackDays 回溯窗口（天）
	LookbackDays int `json:"lookback_days"`
	// MaxTokens 最大 Token 预算
	MaxTokens int `json:"max_tokens"`
	// Format 输出格式
	Format Format `json:"format"`
	// Default 是否为默认画像
	Default bool `json:"default"`
}

// ProfileOption 画像配置选项
type ProfileOption func(*Profile)

// WithWeights 设置评分权重
func WithWeights(w Weights) ProfileOption {
	return func(p *Profile) {
		p.Weights = w
	}
}

// WithCaps 设置层级预算比例
func WithCaps(c Caps) ProfileOption {
	return func(p *Profile) {
		p.Caps = c
	}
}

// WithMinSalience 设置显著性下限
func WithMinSalience(v float64) ProfileOption {
	return func(p *Profile) {
		p.MinSalience = v
	}
}

// WithMinStrength 设置保持强度下限
func WithMinStrength(v float64) ProfileOption {
	return func(p *Profile) {
		p.MinStrength = v
	}
}

// WithLookbackDays 设置回溯窗口
func WithLookbackDays(days int) ProfileOption {
	return func(p *Profile) {
		p.LookbackDays = days
	}
}

// WithMaxTokens 设置 Token 预算
func WithMaxTokens(n int) ProfileOption {
	return func(p *Profile) {
		p.MaxTokens = n
	}
}

// WithFormat 设置输出格式
func WithFormat(f Format) ProfileOption {
	return func(p *Profile) {
		p.Format = f
	}
}

// AsDefault 标记为默认画像
func AsDefault() ProfileOption {
	return func(p *Profile) {
		p.Default = true
	}
}

// NewProfile 创建画像
func NewProfile(name string, opts ...ProfileOption) *Profile {
	p := &Profile{
		Name: name,
		Weights: Weights{
			Salience:  0.4,
			Relevance: 0.3,
			Recency:   0.2,
			Strength:  0.1,
		},
		Caps: Caps{
			HighSalience: 0.5,
			Relevant:     0.3,
			Recent:       0.2,
		},
		MinSalience:  0,
		MinStrength:  0,
		LookbackDays: 30,
		MaxTokens:    2000,
		Format:       FormatNarrative,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Validate 验证画像配置
func (p *Profile) Validate() error {
	if p.Name == "" {
		return errors.WrapError(errors.ErrInvalidProfile, "profile name is empty")
	}
	if p.LookbackDays <= 0 {
		return errors.WrapError(errors.ErrInvalidProfile,
			fmt.Sprintf("lookback days must be positive, got %d", p.LookbackDays))
	}
	if p.MaxTokens <= 0 {
		return errors.WrapError(errors.ErrInvalidProfile,
			fmt.Sprintf("max tokens must be positive, got %d", p.MaxTokens))
	}
	for _, c := range []float64{p.Caps.HighSalience, p.Caps.Relevant, p.Caps.Recent} {
		if c < 0 || c > 1 {
			return errors.WrapError(errors.ErrInvalidProfile,
				fmt.Sprintf("budget cap out of range [0, 1]: %v", c))
		}
	}
	if p.MinSalience < 0 || p.MinSalience > 10 {
		return errors.WrapError(errors.ErrInvalidProfile,
			fmt.Sprintf("min salience out of range [0, 10]: %v", p.MinSalience))
	}
	if p.MinStrength < 0 || p.MinStrength > 1 {
		return errors.WrapError(errors.ErrInvalidProfile,
			fmt.Sprintf("min strength out of range [0, 1]: %v", p.MinStrength))
	}
	if p.Format != FormatNarrative && p.Format != FormatStructured {
		return errors.WrapError(errors.ErrInvalidProfile,
			fmt.Sprintf("unknown format: %s", p.Format))
	}
	return nil
}
