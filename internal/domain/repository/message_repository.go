package repository

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
)

// MessageRepository 消息仓储接口
type MessageRepository interface {
	// Append 追加消息
	Append(ctx context.Context, message *entity.Message) error

	// ListByConversation 按时间正序分页列出会话消息
	ListByConversation(ctx context.Context, conversationID uint, limit, offset int) ([]*entity.Message, int64, error)

	// Recent 返回会话最近 limit 条消息, 按时间正序
	Recent(ctx context.Context, conversationID uint, limit int) ([]*entity.Message, error)

	// DeleteByConversation 删除会话的全部消息
	DeleteByConversation(ctx context.Context, conversationID uint) error

	// DeleteByAgent 删除某代理所有会话下的消息
	DeleteByAgent(ctx context.Context, agentID uint) error
}
