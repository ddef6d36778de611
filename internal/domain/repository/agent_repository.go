package repository

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
)

// AgentRepository 代理仓储接口（遵循依赖倒置原则）
// 定义在领域层，实现在基础设施层
type AgentRepository interface {
	// FindByID 根据ID查找代理, 不存在时返回 NOT_FOUND
	FindByID(ctx context.Context, id uint) (*entity.Agent, error)

	// FindByName 根据名称查找代理
	FindByName(ctx context.Context, name string) (*entity.Agent, error)

	// List 按 id 升序分页列出代理, 同时返回总数
	List(ctx context.Context, limit, offset int) ([]*entity.Agent, int64, error)

	// Create 插入新代理, 名称重复时返回 ALREADY_EXISTS
	Create(ctx context.Context, agent *entity.Agent) error

	// Update 保存已有代理的全部字段
	Update(ctx context.Context, agent *entity.Agent) error

	// Delete 删除代理
	Delete(ctx context.Context, id uint) error

	// CountByModel 统计引用某模型的代理数量
	CountByModel(ctx context.Context, modelID uint) (int64, error)
}
