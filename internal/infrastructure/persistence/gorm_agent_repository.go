package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/models"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

// GormAgentRepository GORM 实现的代理仓储
type GormAgentRepository struct {
	db *gorm.DB
}

// NewGormAgentRepository 创建 GORM 代理仓储
func NewGormAgentRepository(db *gorm.DB) repository.AgentRepository {
	return &GormAgentRepository{
		db: db,
	}
}

// FindByID 根据ID查找代理
func (r *GormAgentRepository) FindByID(ctx context.Context, id uint) (*entity.Agent, error) {
	var model models.AgentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Agent", "find agent")
	}
	return toAgentEntity(&model), nil
}

// FindByName 根据名称查找代理
func (r *GormAgentRepository) FindByName(ctx context.Context, name string) (*entity.Agent, error) {
	var model models.AgentModel
	if err := conn(ctx, r.db).First(&model, "name = ?", name).Error; err != nil {
		return nil, translateError(err, "Agent", "find agent")
	}
	return toAgentEntity(&model), nil
}

// List 分页列出代理
func (r *GormAgentRepository) List(ctx context.Context, limit, offset int) ([]*entity.Agent, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.AgentModel{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Agent", "count agents")
	}

	var rows []models.AgentModel
	if err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "Agent", "list agents")
	}

	agents := make([]*entity.Agent, 0, len(rows))
	for i := range rows {
		agents = append(agents, toAgentEntity(&rows[i]))
	}
	return agents, total, nil
}

// Create 插入代理
func (r *GormAgentRepository) Create(ctx context.Context, agent *entity.Agent) error {
	model := toAgentModel(agent)
	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err, "Agent", "create agent")
	}
	agent.MarkPersisted(model.ID, model.CreatedAt, model.UpdatedAt)
	return nil
}

// Update 保存代理
func (r *GormAgentRepository) Update(ctx context.Context, agent *entity.Agent) error {
	model := toAgentModel(agent)
	result := conn(ctx, r.db).Model(model).Select("*").Omit("created_at").Updates(model)
	if result.Error != nil {
		return translateError(result.Error, "Agent", "update agent")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Agent not found")
	}
	agent.MarkPersisted(model.ID, agent.CreatedAt(), model.UpdatedAt)
	return nil
}

// Delete 删除代理
func (r *GormAgentRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.AgentModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "Agent", "delete agent")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Agent not found")
	}
	return nil
}

// CountByModel 统计引用某模型的代理数量
func (r *GormAgentRepository) CountByModel(ctx context.Context, modelID uint) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(&models.AgentModel{}).Where("model_id = ?", modelID).Count(&count).Error; err != nil {
		return 0, translateError(err, "Agent", "count agents")
	}
	return count, nil
}

// 转换方法

func toAgentModel(agent *entity.Agent) *models.AgentModel {
	return &models.AgentModel{
		ID:          agent.ID(),
		Name:        agent.Name(),
		Description: agent.Description(),
		Status:      string(agent.Status()),
		ModelID:     agent.ModelID(),
		CreatedAt:   agent.CreatedAt(),
		UpdatedAt:   agent.UpdatedAt(),
	}
}

func toAgentEntity(model *models.AgentModel) *entity.Agent {
	return entity.ReconstructAgent(
		model.ID,
		model.Name,
		model.Description,
		entity.AgentStatus(model.Status),
		model.ModelID,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
