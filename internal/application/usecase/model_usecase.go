package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// ModelFields 模型字段; nil 表示未提交
type ModelFields struct {
	Name        *string
	Provider    *string
	BaseURL     *string
	APIKey      *string
	ModelName   *string
	MaxTokens   *int
	Temperature *float64
	TopP        *float64
}

// apply 把已提交的字段写入 spec
func (f ModelFields) apply(spec entity.ModelSpec) entity.ModelSpec {
	if f.Name != nil {
		spec.Name = *f.Name
	}
	if f.Provider != nil {
		spec.Provider = entity.ModelProvider(*f.Provider)
	}
	if f.BaseURL != nil {
		spec.BaseURL = *f.BaseURL
	}
	if f.APIKey != nil {
		spec.APIKey = *f.APIKey
	}
	if f.ModelName != nil {
		spec.ModelName = *f.ModelName
	}
	if f.MaxTokens != nil {
		spec.MaxTokens = *f.MaxTokens
	}
	if f.Temperature != nil {
		spec.Temperature = *f.Temperature
	}
	if f.TopP != nil {
		spec.TopP = *f.TopP
	}
	return spec
}

// ModelUseCase LLM 模型配置管理
type ModelUseCase struct {
	models repository.ModelRepository
	agents repository.AgentRepository
	tx     repository.Transactor
	logger *zap.Logger
}

// NewModelUseCase creates the model catalog use-case.
func NewModelUseCase(models repository.ModelRepository, agents repository.AgentRepository, tx repository.Transactor, logger *zap.Logger) *ModelUseCase {
	return &ModelUseCase{
		models: models,
		agents: agents,
		tx:     tx,
		logger: logger.With(zap.String("usecase", "model")),
	}
}

// Create 新增模型配置, 未提交的生成参数取默认值
func (uc *ModelUseCase) Create(ctx context.Context, fields ModelFields) (*entity.Model, error) {
	spec := fields.apply(entity.ModelSpec{
		Provider:    entity.ProviderOpenAI,
		MaxTokens:   entity.DefaultMaxTokens,
		Temperature: entity.DefaultTemperature,
		TopP:        entity.DefaultTopP,
	})
	model, err := entity.NewModel(spec)
	if err != nil {
		return nil, invalidInput(err)
	}

	if _, err := uc.models.FindByName(ctx, model.Name()); err == nil {
		return nil, apperrors.NewAlreadyExistsError("Model already exists")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	if err := uc.models.Create(ctx, model); err != nil {
		return nil, err
	}

	uc.logger.Info("Model created",
		zap.Uint("model_id", model.ID()),
		zap.String("name", model.Name()),
		zap.String("provider", string(model.Provider())),
	)
	return model, nil
}

// List 分页列出模型
func (uc *ModelUseCase) List(ctx context.Context, req pagination.Request) (pagination.Page[*entity.Model], error) {
	models, total, err := uc.models.List(ctx, req.Limit(), req.Offset())
	if err != nil {
		return pagination.Page[*entity.Model]{}, err
	}
	return pagination.NewPage(models, total, req), nil
}

// Get 查询单个模型
func (uc *ModelUseCase) Get(ctx context.Context, id uint) (*entity.Model, error) {
	return uc.models.FindByID(ctx, id)
}

// Update 部分更新模型
func (uc *ModelUseCase) Update(ctx context.Context, id uint, fields ModelFields) (*entity.Model, error) {
	model, err := uc.models.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := model.Update(fields.apply(model.Spec())); err != nil {
		return nil, invalidInput(err)
	}

	if fields.Name != nil {
		existing, err := uc.models.FindByName(ctx, model.Name())
		switch {
		case err == nil && existing.ID() != model.ID():
			return nil, apperrors.NewAlreadyExistsError("Model already exists")
		case err != nil && !apperrors.IsNotFound(err):
			return nil, err
		}
	}

	if err := uc.models.Update(ctx, model); err != nil {
		return nil, err
	}

	uc.logger.Info("Model updated", zap.Uint("model_id", model.ID()))
	return model, nil
}

// Delete 删除模型; 仍被代理引用时拒绝
func (uc *ModelUseCase) Delete(ctx context.Context, id uint) error {
	if _, err := uc.models.FindByID(ctx, id); err != nil {
		return err
	}

	// 引用检查与删除在同一事务内, 避免期间有代理绑定该模型
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		refs, err := uc.agents.CountByModel(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return apperrors.NewInUseError("Model is in use by agents and cannot be deleted")
		}
		return uc.models.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("Model deleted", zap.Uint("model_id", id))
	return nil
}
