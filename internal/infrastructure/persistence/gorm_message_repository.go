package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/models"
)

// GormMessageRepository GORM 实现的消息仓储
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository 创建 GORM 消息仓储
func NewGormMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &GormMessageRepository{
		db: db,
	}
}

// Append 追加消息
func (r *GormMessageRepository) Append(ctx context.Context, message *entity.Message) error {
	row := &models.MessageModel{
		ConversationID: message.ConversationID(),
		Role:           string(message.Role()),
		Content:        message.Content(),
		Timestamp:      message.Timestamp(),
	}
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return translateError(err, "Message", "save message")
	}
	message.MarkPersisted(row.ID)
	return nil
}

// ListByConversation 按时间正序分页列出会话消息
func (r *GormMessageRepository) ListByConversation(ctx context.Context, conversationID uint, limit, offset int) ([]*entity.Message, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.MessageModel{}).Where("conversation_id = ?", conversationID).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Message", "count messages")
	}

	var rows []models.MessageModel
	err := db.Where("conversation_id = ?", conversationID).
		Order("timestamp ASC, id ASC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, "Message", "list messages")
	}
	return toMessageEntities(rows), total, nil
}

// Recent 返回最近 limit 条消息, 按时间正序
func (r *GormMessageRepository) Recent(ctx context.Context, conversationID uint, limit int) ([]*entity.Message, error) {
	if limit <= 0 {
		return []*entity.Message{}, nil
	}

	var rows []models.MessageModel
	err := conn(ctx, r.db).
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, translateError(err, "Message", "load history")
	}

	// 反转为时间正序
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return toMessageEntities(rows), nil
}

// DeleteByConversation 删除会话的全部消息
func (r *GormMessageRepository) DeleteByConversation(ctx context.Context, conversationID uint) error {
	if err := conn(ctx, r.db).Where("conversation_id = ?", conversationID).Delete(&models.MessageModel{}).Error; err != nil {
		return translateError(err, "Message", "delete messages")
	}
	return nil
}

// DeleteByAgent 删除某代理所有会话下的消息
func (r *GormMessageRepository) DeleteByAgent(ctx context.Context, agentID uint) error {
	db := conn(ctx, r.db)
	conversations := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.ConversationModel{}).
		Select("id").
		Where("agent_id = ?", agentID)

	if err := db.Where("conversation_id IN (?)", conversations).Delete(&models.MessageModel{}).Error; err != nil {
		return translateError(err, "Message", "delete messages")
	}
	return nil
}

func toMessageEntities(rows []models.MessageModel) []*entity.Message {
	out := make([]*entity.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.ReconstructMessage(
			row.ID,
			row.ConversationID,
			entity.MessageRole(row.Role),
			row.Content,
			row.Timestamp,
		))
	}
	return out
}
