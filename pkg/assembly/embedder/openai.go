// Package embedder 提供查询嵌入的 OpenAI 实现。
package embedder

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/RidgetopAi/squire-sub002/pkg/assembly"
)

// OpenAIEmbedder 基于 OpenAI API 的嵌入提供者
//
// 失败时按固定间隔重试，用尽后返回最后一次错误。引擎将嵌入失败
// 视为检索类致命错误。
type OpenAIEmbedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	maxRetries int
	retryDelay time.Duration
}

// Option 嵌入提供者配置选项
type Option func(*OpenAIEmbedder)

// WithModel 设置嵌入模型
func WithModel(model string) Option {
	return func(e *OpenAIEmbedder) {
		e.model = openai.EmbeddingModel(model)
	}
}

// WithMaxRetries 设置最大重试次数
func WithMaxRetries(n int) Option {
	return func(e *OpenAIEmbedder) {
		e.maxRetries = n
	}
}

// WithRetryDelay 设置重试间隔
func WithRetryDelay(d time.Duration) Option {
	return func(e *OpenAIEmbedder) {
		e.retryDelay = d
	}
}

// WithBaseURL 设置自定义服务地址（兼容 OpenAI 协议的本地服务）
func WithBaseURL(apiKey, baseURL string) Option {
	return func(e *OpenAIEmbedder) {
		cfg := openai.DefaultConfig(apiKey)
		cfg.BaseURL = baseURL
		e.client = openai.NewClientWithConfig(cfg)
	}
}

// NewOpenAIEmbedder 创建 OpenAI 嵌入提供者
func NewOpenAIEmbedder(apiKey string, opts ...Option) *OpenAIEmbedder {
	e := &OpenAIEmbedder{
		client:     openai.NewClient(apiKey),
		model:      openai.SmallEmbedding3,
		maxRetries: 3,
		retryDelay: time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Embed 生成文本的嵌入向量
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.retryDelay):
			}
		}

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: e.model,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("empty embedding response")
			continue
		}
		return resp.Data[0].Embedding, nil
	}

	return nil, fmt.Errorf("embedding failed after %d retries: %w", e.maxRetries, lastErr)
}

// 编译时接口检查
var _ assembly.Embedder = (*OpenAIEmbedder)(nil)
