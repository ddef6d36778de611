package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// CreateAgentCommand 创建代理参数
type CreateAgentCommand struct {
	Name        string
	Description string
	Status      string // 为空时为 inactive
	ModelID     *uint
}

// UpdateAgentCommand 部分更新: 只有非 nil 的字段会被写入
// ModelIDSet 为 true 且 ModelID 为 nil 表示解除模型关联
type UpdateAgentCommand struct {
	Name        *string
	Description *string
	Status      *string
	ModelIDSet  bool
	ModelID     *uint
}

// AgentUseCase 代理管理
type AgentUseCase struct {
	agents   repository.AgentRepository
	models   repository.ModelRepository
	logs     repository.AgentLogRepository
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	tx       repository.Transactor
	logger   *zap.Logger
}

// NewAgentUseCase creates the agent management use-case.
func NewAgentUseCase(
	agents repository.AgentRepository,
	models repository.ModelRepository,
	logs repository.AgentLogRepository,
	convs repository.ConversationRepository,
	messages repository.MessageRepository,
	tx repository.Transactor,
	logger *zap.Logger,
) *AgentUseCase {
	return &AgentUseCase{
		agents:   agents,
		models:   models,
		logs:     logs,
		convs:    convs,
		messages: messages,
		tx:       tx,
		logger:   logger.With(zap.String("usecase", "agent")),
	}
}

// Create 注册代理并写入注册日志
func (uc *AgentUseCase) Create(ctx context.Context, cmd CreateAgentCommand) (*entity.Agent, error) {
	agent, err := entity.NewAgent(cmd.Name, cmd.Description, entity.AgentStatus(cmd.Status), cmd.ModelID)
	if err != nil {
		return nil, invalidInput(err)
	}

	if err := uc.ensureNameFree(ctx, agent.Name(), 0); err != nil {
		return nil, err
	}
	if err := uc.ensureModel(ctx, cmd.ModelID); err != nil {
		return nil, err
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.agents.Create(ctx, agent); err != nil {
			return err
		}
		return uc.logs.Append(ctx, entity.RegisteredLog(agent))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Agent registered",
		zap.Uint("agent_id", agent.ID()),
		zap.String("name", agent.Name()),
	)
	return agent, nil
}

// List 分页列出代理
func (uc *AgentUseCase) List(ctx context.Context, req pagination.Request) (pagination.Page[*entity.Agent], error) {
	agents, total, err := uc.agents.List(ctx, req.Limit(), req.Offset())
	if err != nil {
		return pagination.Page[*entity.Agent]{}, err
	}
	return pagination.NewPage(agents, total, req), nil
}

// Get 查询单个代理
func (uc *AgentUseCase) Get(ctx context.Context, id uint) (*entity.Agent, error) {
	return uc.agents.FindByID(ctx, id)
}

// Update 部分更新代理; 提交了 status 时追加状态日志
func (uc *AgentUseCase) Update(ctx context.Context, id uint, cmd UpdateAgentCommand) (*entity.Agent, error) {
	agent, err := uc.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		if err := agent.Rename(*cmd.Name); err != nil {
			return nil, invalidInput(err)
		}
		if err := uc.ensureNameFree(ctx, agent.Name(), agent.ID()); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		agent.Describe(*cmd.Description)
	}
	statusSubmitted := false
	if cmd.Status != nil {
		status, err := entity.ParseAgentStatus(*cmd.Status)
		if err != nil {
			return nil, invalidInput(err)
		}
		if _, err := agent.SetStatus(status); err != nil {
			return nil, invalidInput(err)
		}
		statusSubmitted = true
	}
	if cmd.ModelIDSet {
		if err := uc.ensureModel(ctx, cmd.ModelID); err != nil {
			return nil, err
		}
		agent.AssignModel(cmd.ModelID)
	}

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.agents.Update(ctx, agent); err != nil {
			return err
		}
		if statusSubmitted {
			return uc.logs.Append(ctx, entity.StatusChangedLog(agent))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Agent updated", zap.Uint("agent_id", agent.ID()))
	return agent, nil
}

// Delete 删除代理及其会话、消息与日志
func (uc *AgentUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.agents.FindByID(ctx, id); err != nil {
		return err
	}

	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.messages.DeleteByAgent(ctx, id); err != nil {
			return err
		}
		if err := uc.convs.DeleteByAgent(ctx, id); err != nil {
			return err
		}
		if err := uc.logs.DeleteByAgent(ctx, id); err != nil {
			return err
		}
		return uc.agents.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("Agent deleted", zap.Uint("agent_id", id))
	return nil
}

// Start 启动代理, 不校验当前状态
func (uc *AgentUseCase) Start(ctx context.Context, id uint) (*entity.Agent, error) {
	return uc.transition(ctx, id, (*entity.Agent).Start, "started")
}

// Pause 暂停代理
func (uc *AgentUseCase) Pause(ctx context.Context, id uint) (*entity.Agent, error) {
	return uc.transition(ctx, id, (*entity.Agent).Pause, "paused")
}

// Stop 停止代理
func (uc *AgentUseCase) Stop(ctx context.Context, id uint) (*entity.Agent, error) {
	return uc.transition(ctx, id, (*entity.Agent).Stop, "stopped")
}

func (uc *AgentUseCase) transition(ctx context.Context, id uint, apply func(*entity.Agent), verb string) (*entity.Agent, error) {
	agent, err := uc.agents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(agent)

	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.agents.Update(ctx, agent); err != nil {
			return err
		}
		return uc.logs.Append(ctx, entity.LifecycleLog(agent, verb))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Agent "+verb,
		zap.Uint("agent_id", agent.ID()),
		zap.String("status", string(agent.Status())),
	)
	return agent, nil
}

// ensureNameFree 名称被其他代理占用时返回 409
func (uc *AgentUseCase) ensureNameFree(ctx context.Context, name string, self uint) error {
	existing, err := uc.agents.FindByName(ctx, name)
	switch {
	case apperrors.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID() != self:
		return apperrors.NewAlreadyExistsError("Agent already exists")
	}
	return nil
}

// ensureModel model_id 指向不存在的模型时返回 404
func (uc *AgentUseCase) ensureModel(ctx context.Context, modelID *uint) error {
	if modelID == nil {
		return nil
	}
	_, err := uc.models.FindByID(ctx, *modelID)
	return err
}
