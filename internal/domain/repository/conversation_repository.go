package repository

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
)

// ConversationFilter 会话列表过滤条件, 零值表示不过滤
type ConversationFilter struct {
	AgentID uint
	UserID  string
}

// ConversationRepository 会话仓储接口
type ConversationRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Conversation, error)

	// List 按 updated_at 倒序列出会话
	List(ctx context.Context, filter ConversationFilter, limit, offset int) ([]*entity.Conversation, int64, error)

	Create(ctx context.Context, conversation *entity.Conversation) error
	Update(ctx context.Context, conversation *entity.Conversation) error
	Delete(ctx context.Context, id uint) error

	// DeleteByAgent 删除某代理的全部会话（不含消息）
	DeleteByAgent(ctx context.Context, agentID uint) error
}
