package entity

import "errors"

var (
	// Agent errors
	ErrInvalidAgentName   = errors.New("name is required")
	ErrInvalidAgentStatus = errors.New("invalid agent status")

	// Model errors
	ErrInvalidModelName     = errors.New("name is required")
	ErrInvalidModelProvider = errors.New("invalid model provider")
	ErrInvalidModelBaseURL  = errors.New("base_url is required")
	ErrInvalidModelID       = errors.New("model_name is required")

	// Log errors
	ErrInvalidLogLevel = errors.New("invalid log level")

	// Conversation errors
	ErrInvalidUserID            = errors.New("user_id is required")
	ErrInvalidConversationTitle = errors.New("title is required")

	// Message errors
	ErrInvalidMessageRole    = errors.New("invalid message role")
	ErrInvalidMessageContent = errors.New("message is required")
)
