package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/models"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

// GormModelRepository GORM 实现的模型配置仓储
type GormModelRepository struct {
	db *gorm.DB
}

// NewGormModelRepository 创建 GORM 模型配置仓储
func NewGormModelRepository(db *gorm.DB) repository.ModelRepository {
	return &GormModelRepository{db: db}
}

func (r *GormModelRepository) FindByID(ctx context.Context, id uint) (*entity.Model, error) {
	var row models.LLMModel
	if err := conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Model", "find model")
	}
	return toModelEntity(&row), nil
}

func (r *GormModelRepository) FindByName(ctx context.Context, name string) (*entity.Model, error) {
	var row models.LLMModel
	if err := conn(ctx, r.db).First(&row, "name = ?", name).Error; err != nil {
		return nil, translateError(err, "Model", "find model")
	}
	return toModelEntity(&row), nil
}

func (r *GormModelRepository) List(ctx context.Context, limit, offset int) ([]*entity.Model, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.LLMModel{}).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Model", "count models")
	}

	var rows []models.LLMModel
	if err := db.Order("id ASC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, translateError(err, "Model", "list models")
	}

	out := make([]*entity.Model, 0, len(rows))
	for i := range rows {
		out = append(out, toModelEntity(&rows[i]))
	}
	return out, total, nil
}

func (r *GormModelRepository) Create(ctx context.Context, model *entity.Model) error {
	row := toLLMModel(model)
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return translateError(err, "Model", "create model")
	}
	model.MarkPersisted(row.ID, row.CreatedAt, row.UpdatedAt)
	return nil
}

func (r *GormModelRepository) Update(ctx context.Context, model *entity.Model) error {
	row := toLLMModel(model)
	result := conn(ctx, r.db).Model(row).Select("*").Omit("created_at").Updates(row)
	if result.Error != nil {
		return translateError(result.Error, "Model", "update model")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Model not found")
	}
	model.MarkPersisted(row.ID, model.CreatedAt(), row.UpdatedAt)
	return nil
}

func (r *GormModelRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.LLMModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "Model", "delete model")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Model not found")
	}
	return nil
}

func toLLMModel(m *entity.Model) *models.LLMModel {
	spec := m.Spec()
	return &models.LLMModel{
		ID:          m.ID(),
		Name:        spec.Name,
		Provider:    string(spec.Provider),
		BaseURL:     spec.BaseURL,
		APIKey:      spec.APIKey,
		ModelName:   spec.ModelName,
		MaxTokens:   spec.MaxTokens,
		Temperature: spec.Temperature,
		TopP:        spec.TopP,
		CreatedAt:   m.CreatedAt(),
		UpdatedAt:   m.UpdatedAt(),
	}
}

func toModelEntity(row *models.LLMModel) *entity.Model {
	return entity.ReconstructModel(row.ID, entity.ModelSpec{
		Name:        row.Name,
		Provider:    entity.ModelProvider(row.Provider),
		BaseURL:     row.BaseURL,
		APIKey:      row.APIKey,
		ModelName:   row.ModelName,
		MaxTokens:   row.MaxTokens,
		Temperature: row.Temperature,
		TopP:        row.TopP,
	}, row.CreatedAt, row.UpdatedAt)
}
