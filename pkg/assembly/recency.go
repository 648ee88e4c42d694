package assembly

import (
	"math"
	"time"
)

// RecencyModel 新近度模型
//
// 指数衰减：half_life = lookback_days / 2，
// score = clamp(exp(-days_since / half_life), 0, 1)。
// 半衰期取回溯窗口的一半，使恰好处于回溯边界的条目位于衰减中段
// 而非被硬性截断。
type RecencyModel struct {
	// LookbackDays 回溯窗口（天）
	LookbackDays int
}

// NewRecencyModel 创建新近度模型
func NewRecencyModel(lookbackDays int) *RecencyModel {
	return &RecencyModel{LookbackDays: lookbackDays}
}

// Score 计算条目的新近度得分
//
// now 为评分时刻，由调用方注入以保证可复现。
func (m *RecencyModel) Score(createdAt, now time.Time) float64 {
	halfLife := float64(m.LookbackDays) / 2
	if halfLife <= 0 {
		return 0
	}

	days := now.Sub(createdAt).Hours() / 24
	if days < 0 {
		days = 0
	}

	return clamp01(math.Exp(-days / halfLife))
}

// clamp01 将值截断到 [0, 1]
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
