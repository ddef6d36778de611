package handlers

import (
	"time"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
)

// AgentResponse 代理 JSON 表示
type AgentResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ModelID     *uint     `json:"model_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toAgentResponse(a *entity.Agent) AgentResponse {
	return AgentResponse{
		ID:          a.ID(),
		Name:        a.Name(),
		Description: a.Description(),
		Status:      string(a.Status()),
		ModelID:     a.ModelID(),
		CreatedAt:   a.CreatedAt(),
		UpdatedAt:   a.UpdatedAt(),
	}
}

// ModelResponse 模型 JSON 表示, 不输出 api_key 明文
type ModelResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	BaseURL     string    `json:"base_url"`
	HasAPIKey   bool      `json:"has_api_key"`
	ModelName   string    `json:"model_name"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toModelResponse(m *entity.Model) ModelResponse {
	return ModelResponse{
		ID:          m.ID(),
		Name:        m.Name(),
		Provider:    string(m.Provider()),
		BaseURL:     m.BaseURL(),
		HasAPIKey:   m.HasAPIKey(),
		ModelName:   m.ModelName(),
		MaxTokens:   m.MaxTokens(),
		Temperature: m.Temperature(),
		TopP:        m.TopP(),
		CreatedAt:   m.CreatedAt(),
		UpdatedAt:   m.UpdatedAt(),
	}
}

// LogResponse 日志 JSON 表示
type LogResponse struct {
	ID        uint      `json:"id"`
	AgentID   uint      `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func toLogResponse(l *entity.AgentLog) LogResponse {
	return LogResponse{
		ID:        l.ID(),
		AgentID:   l.AgentID(),
		AgentName: l.AgentName(),
		Level:     string(l.Level()),
		Message:   l.Message(),
		Timestamp: l.Timestamp(),
	}
}

// ConversationResponse 会话 JSON 表示
type ConversationResponse struct {
	ID        uint      `json:"id"`
	AgentID   uint      `json:"agent_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toConversationResponse(c *entity.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID(),
		AgentID:   c.AgentID(),
		UserID:    c.UserID(),
		Title:     c.Title(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

// MessageResponse 消息 JSON 表示
type MessageResponse struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

func toMessageResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID(),
		ConversationID: m.ConversationID(),
		Role:           string(m.Role()),
		Content:        m.Content(),
		Timestamp:      m.Timestamp(),
	}
}

// ChatRequest POST /agents/:id/chat 请求体
type ChatRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID *uint  `json:"conversation_id"`
}

// ChatResponse 聊天结果
type ChatResponse struct {
	ConversationID uint      `json:"conversation_id"`
	Reply          string    `json:"reply"`
	Timestamp      time.Time `json:"timestamp"`
}
