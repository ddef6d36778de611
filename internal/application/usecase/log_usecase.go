package usecase

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// LogUseCase 代理日志只读视图
type LogUseCase struct {
	agents repository.AgentRepository
	logs   repository.AgentLogRepository
}

// NewLogUseCase creates the log query use-case.
func NewLogUseCase(agents repository.AgentRepository, logs repository.AgentLogRepository) *LogUseCase {
	return &LogUseCase{agents: agents, logs: logs}
}

// ListByAgent 某代理的日志, 最新在前; 代理不存在时返回 404
func (uc *LogUseCase) ListByAgent(ctx context.Context, agentID uint, req pagination.Request) (pagination.Page[*entity.AgentLog], error) {
	if _, err := uc.agents.FindByID(ctx, agentID); err != nil {
		return pagination.Page[*entity.AgentLog]{}, err
	}

	logs, total, err := uc.logs.ListByAgent(ctx, agentID, req.Limit(), req.Offset())
	if err != nil {
		return pagination.Page[*entity.AgentLog]{}, err
	}
	return pagination.NewPage(logs, total, req), nil
}

// ListAll 全部日志, 最新在前
func (uc *LogUseCase) ListAll(ctx context.Context, req pagination.Request) (pagination.Page[*entity.AgentLog], error) {
	logs, total, err := uc.logs.ListAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return pagination.Page[*entity.AgentLog]{}, err
	}
	return pagination.NewPage(logs, total, req), nil
}
