// Package errors 定义上下文组装引擎的错误分类
//
// 四类错误对应不同的处理策略：
//   - 配置错误：画像缺失且无默认画像，致命且不可重试
//   - 检索错误：嵌入或候选检索失败，致命（无候选则无可组装）
//   - 证据来源错误：仅限笔记/清单/文档检索，在聚合器内部吸收
//   - 审计错误：披露记录写入失败，致命（无审计记录则不返回结果）
package errors

import (
	"errors"
	"fmt"
)

// 配置相关错误
var (
	// ErrProfileNotFound 指定名称的画像不存在
	ErrProfileNotFound = errors.New("profile not found")
	// ErrNoDefaultProfile 未配置默认画像
	ErrNoDefaultProfile = errors.New("no default profile configured")
	// ErrInvalidProfile 画像配置无效
	ErrInvalidProfile = errors.New("invalid profile")
)

// 检索相关错误
var (
	// ErrEmbeddingFailed 查询嵌入生成失败
	ErrEmbeddingFailed = errors.New("query embedding failed")
	// ErrRetrievalFailed 候选检索失败
	ErrRetrievalFailed = errors.New("candidate retrieval failed")
)

// 证据与审计相关错误
var (
	// ErrEvidenceSource 证据来源失败（仅在聚合器内部使用，不会逸出）
	ErrEvidenceSource = errors.New("evidence source failed")
	// ErrAuditFailed 披露记录持久化失败
	ErrAuditFailed = errors.New("disclosure audit write failed")
)

// 通用错误
var (
	// ErrInvalidInput 输入无效
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound 记录未找到
	ErrNotFound = errors.New("record not found")
)

// WrapError 包装错误并添加上下文信息
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// IsConfiguration 判断是否为配置错误（致命，不可重试）
func IsConfiguration(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrNoDefaultProfile) ||
		errors.Is(err, ErrInvalidProfile)
}

// IsRetrieval 判断是否为检索错误（致命）
func IsRetrieval(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrEmbeddingFailed) ||
		errors.Is(err, ErrRetrievalFailed)
}

// IsAudit 判断是否为审计错误（致命）
func IsAudit(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrAuditFailed)
}

// IsFatal 判断错误是否会导致整次组装失败
//
// 证据来源错误在聚合器内部已被吸收，调用方看到的任何错误均为致命。
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrEvidenceSource)
}
