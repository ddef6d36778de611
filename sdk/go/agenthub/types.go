package agenthub

import "time"

// Agent status values
const (
	StatusInactive = "inactive"
	StatusRunning  = "running"
	StatusPaused   = "paused"
	StatusStopped  = "stopped"
)

// Agent is a managed agent record
type Agent struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	ModelID     *uint     `json:"model_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AgentInput is the body for creating an agent
type AgentInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	ModelID     *uint  `json:"model_id,omitempty"`
}

// AgentUpdate is a partial update; nil fields are left unchanged.
// Set ClearModel to detach the agent from its model.
type AgentUpdate struct {
	Name        *string
	Description *string
	Status      *string
	ModelID     *uint
	ClearModel  bool
}

func (u AgentUpdate) body() map[string]any {
	out := map[string]any{}
	if u.Name != nil {
		out["name"] = *u.Name
	}
	if u.Description != nil {
		out["description"] = *u.Description
	}
	if u.Status != nil {
		out["status"] = *u.Status
	}
	switch {
	case u.ClearModel:
		out["model_id"] = nil
	case u.ModelID != nil:
		out["model_id"] = *u.ModelID
	}
	return out
}

// AgentLog is one audit entry
type AgentLog struct {
	ID        uint      `json:"id"`
	AgentID   uint      `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Model is an LLM endpoint configuration. The API key is never returned.
type Model struct {
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

// ModelInput creates or partially updates a model; nil fields are omitted
type ModelInput struct {
	Name        *string  `json:"name,omitempty"`
	Provider    *string  `json:"provider,omitempty"`
	BaseURL     *string  `json:"base_url,omitempty"`
	APIKey      *string  `json:"api_key,omitempty"`
	ModelName   *string  `json:"model_name,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
}

// Conversation groups messages between a user and an agent
type Conversation struct {
	ID        uint      `json:"id"`
	AgentID   uint      `json:"agent_id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is one chat turn
type Message struct {
	ID             uint      `json:"id"`
	ConversationID uint      `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// ChatRequest sends a message to an agent. Leave ConversationID nil to start a new conversation.
type ChatRequest struct {
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
	ConversationID *uint  `json:"conversation_id,omitempty"`
}

// ChatResponse is the agent's reply
type ChatResponse struct {
	ConversationID uint      `json:"conversation_id"`
	Reply          string    `json:"reply"`
	Timestamp      time.Time `json:"timestamp"`
}

// Pagination describes one page of a list result
type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// Page selects a page; zero values use the server defaults
type Page struct {
	Page    int
	PerPage int
}

// ConversationFilter narrows ListConversations
type ConversationFilter struct {
	AgentID uint
	UserID  string
}
