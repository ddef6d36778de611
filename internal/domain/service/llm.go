package service

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
)

// LLMClient 一个已配置好端点的补全客户端
type LLMClient interface {
	// Generate 发送完整的历史消息, 返回一次非流式回复
	Generate(ctx context.Context, req *LLMRequest) (*LLMResponse, error)
}

// LLMClientResolver 根据模型配置取得(或构建)对应的客户端
type LLMClientResolver interface {
	Resolve(cfg valueobject.ModelConfig) (LLMClient, error)
}

// LLMRequest 补全请求
type LLMRequest struct {
	Messages    []LLMMessage `json:"messages"`
	Model       string       `json:"model"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature float64      `json:"temperature"`
	TopP        float64      `json:"top_p"`
}

// LLMMessage represents a single message in the conversation
type LLMMessage struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// LLMResponse 补全结果
type LLMResponse struct {
	Content    string `json:"content"`
	ModelUsed  string `json:"model_used"`
	TokensUsed int    `json:"tokens_used"`
}

// RequestFromConfig 用模型配置的生成参数构造请求
func RequestFromConfig(cfg valueobject.ModelConfig, messages []LLMMessage) *LLMRequest {
	return &LLMRequest{
		Messages:    messages,
		Model:       cfg.Model(),
		MaxTokens:   cfg.MaxTokens(),
		Temperature: cfg.Temperature(),
		TopP:        cfg.TopP(),
	}
}
