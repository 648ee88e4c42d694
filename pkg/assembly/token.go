package assembly

import (
	"github.com/pkoukk/tiktoken-go"
)

// TokenEstimator 定义 Token 估算接口
//
// 估算值同时用于预算分配和结果报告，两处必须使用同一个估算器。
type TokenEstimator interface {
	// Estimate 估算文本的 Token 数量
	Estimate(text string) int
}

// CharEstimator 字符估算器
//
// tokens = ceil(字符数 / 4)。确定性计算，无外部调用，是引擎的
// 默认估算器。
type CharEstimator struct{}

// NewCharEstimator 创建字符估算器
func NewCharEstimator() *CharEstimator {
	return &CharEstimator{}
}

// Estimate 估算文本的 Token 数量
func (e *CharEstimator) Estimate(text string) int {
	n := len([]rune(text))
	return (n + 3) / 4
}

// TiktokenEstimator 基于 tiktoken 的估算器
//
// 按模型编码精确计数，可选替代方案。预算语义以 CharEstimator
// 的公式为准，仅在调用方显式要求模型编码时使用。
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

// NewTiktokenEstimator 创建 tiktoken 估算器
//
// encodingName 如 "cl100k_base"。
func NewTiktokenEstimator(encodingName string) (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	return &TiktokenEstimator{encoding: enc}, nil
}

// Estimate 估算文本的 Token 数量
func (e *TiktokenEstimator) Estimate(text string) int {
	return len(e.encoding.Encode(text, nil, nil))
}

// 编译时接口检查
var _ TokenEstimator = (*CharEstimator)(nil)
var _ TokenEstimator = (*TiktokenEstimator)(nil)
