package repository

import (
	"context"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
)

// ModelRepository 模型配置仓储接口
type ModelRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Model, error)
	FindByName(ctx context.Context, name string) (*entity.Model, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Model, int64, error)
	Create(ctx context.Context, model *entity.Model) error
	Update(ctx context.Context, model *entity.Model) error
	Delete(ctx context.Context, id uint) error
}
