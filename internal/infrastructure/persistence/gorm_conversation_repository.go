package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/models"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

// GormConversationRepository GORM 实现的会话仓储
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository 创建 GORM 会话仓储
func NewGormConversationRepository(db *gorm.DB) repository.ConversationRepository {
	return &GormConversationRepository{db: db}
}

func (r *GormConversationRepository) FindByID(ctx context.Context, id uint) (*entity.Conversation, error) {
	var row models.ConversationModel
	if err := conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "Conversation", "find conversation")
	}
	return toConversationEntity(&row), nil
}

// List 按 updated_at 倒序列出会话
func (r *GormConversationRepository) List(ctx context.Context, filter repository.ConversationFilter, limit, offset int) ([]*entity.Conversation, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if filter.AgentID != 0 {
			db = db.Where("agent_id = ?", filter.AgentID)
		}
		if filter.UserID != "" {
			db = db.Where("user_id = ?", filter.UserID)
		}
		return db
	}
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.ConversationModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Conversation", "count conversations")
	}

	var rows []models.ConversationModel
	err := db.Scopes(scope).
		Order("updated_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, "Conversation", "list conversations")
	}

	out := make([]*entity.Conversation, 0, len(rows))
	for i := range rows {
		out = append(out, toConversationEntity(&rows[i]))
	}
	return out, total, nil
}

func (r *GormConversationRepository) Create(ctx context.Context, c *entity.Conversation) error {
	row := toConversationModel(c)
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return translateError(err, "Conversation", "create conversation")
	}
	c.MarkPersisted(row.ID, row.CreatedAt, row.UpdatedAt)
	return nil
}

func (r *GormConversationRepository) Update(ctx context.Context, c *entity.Conversation) error {
	row := toConversationModel(c)
	result := conn(ctx, r.db).Model(row).Select("*").Omit("created_at").Updates(row)
	if result.Error != nil {
		return translateError(result.Error, "Conversation", "update conversation")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Conversation not found")
	}
	c.MarkPersisted(row.ID, c.CreatedAt(), row.UpdatedAt)
	return nil
}

func (r *GormConversationRepository) Delete(ctx context.Context, id uint) error {
	result := conn(ctx, r.db).Delete(&models.ConversationModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error, "Conversation", "delete conversation")
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("Conversation not found")
	}
	return nil
}

func (r *GormConversationRepository) DeleteByAgent(ctx context.Context, agentID uint) error {
	if err := conn(ctx, r.db).Where("agent_id = ?", agentID).Delete(&models.ConversationModel{}).Error; err != nil {
		return translateError(err, "Conversation", "delete conversations")
	}
	return nil
}

func toConversationModel(c *entity.Conversation) *models.ConversationModel {
	return &models.ConversationModel{
		ID:        c.ID(),
		AgentID:   c.AgentID(),
		UserID:    c.UserID(),
		Title:     c.Title(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toConversationEntity(row *models.ConversationModel) *entity.Conversation {
	return entity.ReconstructConversation(row.ID, row.AgentID, row.UserID, row.Title, row.CreatedAt, row.UpdatedAt)
}
