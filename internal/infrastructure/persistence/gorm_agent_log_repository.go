package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/models"
)

// GormAgentLogRepository GORM 实现的代理日志仓储
type GormAgentLogRepository struct {
	db *gorm.DB
}

// NewGormAgentLogRepository 创建 GORM 代理日志仓储
func NewGormAgentLogRepository(db *gorm.DB) repository.AgentLogRepository {
	return &GormAgentLogRepository{db: db}
}

// Append 追加日志
func (r *GormAgentLogRepository) Append(ctx context.Context, log *entity.AgentLog) error {
	row := &models.AgentLogModel{
		AgentID:   log.AgentID(),
		Level:     string(log.Level()),
		Message:   log.Message(),
		Timestamp: log.Timestamp(),
	}
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return translateError(err, "Log", "append log")
	}
	log.MarkPersisted(row.ID)
	return nil
}

// ListByAgent 按时间倒序列出某代理的日志
func (r *GormAgentLogRepository) ListByAgent(ctx context.Context, agentID uint, limit, offset int) ([]*entity.AgentLog, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("agent_logs.agent_id = ?", agentID)
	}, limit, offset)
}

// ListAll 按时间倒序列出全部日志
func (r *GormAgentLogRepository) ListAll(ctx context.Context, limit, offset int) ([]*entity.AgentLog, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB { return db }, limit, offset)
}

func (r *GormAgentLogRepository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, limit, offset int) ([]*entity.AgentLog, int64, error) {
	db := conn(ctx, r.db)

	var total int64
	if err := db.Model(&models.AgentLogModel{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, translateError(err, "Log", "count logs")
	}

	var rows []models.AgentLogModel
	err := db.Model(&models.AgentLogModel{}).
		Scopes(scope).
		Select("agent_logs.*, agents.name AS agent_name").
		Joins("LEFT JOIN agents ON agents.id = agent_logs.agent_id").
		Order("agent_logs.timestamp DESC, agent_logs.id DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateError(err, "Log", "list logs")
	}

	logs := make([]*entity.AgentLog, 0, len(rows))
	for _, row := range rows {
		logs = append(logs, entity.ReconstructAgentLog(
			row.ID,
			row.AgentID,
			row.AgentName,
			entity.LogLevel(row.Level),
			row.Message,
			row.Timestamp,
		))
	}
	return logs, total, nil
}

// DeleteByAgent 删除某代理的全部日志
func (r *GormAgentLogRepository) DeleteByAgent(ctx context.Context, agentID uint) error {
	if err := conn(ctx, r.db).Where("agent_id = ?", agentID).Delete(&models.AgentLogModel{}).Error; err != nil {
		return translateError(err, "Log", "delete logs")
	}
	return nil
}
