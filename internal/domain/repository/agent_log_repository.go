package repository

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
)

// AgentLogRepository 代理日志仓储接口, 只追加
type AgentLogRepository interface {
	// Append 追加日志
	Append(ctx context.Context, log *entity.AgentLog) error

	// ListByAgent 按时间倒序列出某代理的日志
	ListByAgent(ctx context.Context, agentID uint, limit, offset int) ([]*entity.AgentLog, int64, error)

	// ListAll 按时间倒序列出全部日志
	ListAll(ctx context.Context, limit, offset int) ([]*entity.AgentLog, int64, error)

	// DeleteByAgent 删除某代理的全部日志
	DeleteByAgent(ctx context.Context, agentID uint) error
}
