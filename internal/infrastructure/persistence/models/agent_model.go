package models

import "time"

// AgentModel 数据库代理模型
type AgentModel struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:20;not null;default:inactive;index"`
	ModelID     *uint  `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定表名
func (AgentModel) TableName() string {
	return "agents"
}

// AgentLogModel 数据库代理日志模型
type AgentLogModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	AgentID   uint      `gorm:"not null;index"`
	Level     string    `gorm:"size:20;not null;default:info"`
	Message   string    `gorm:"type:text;not null"`
	Timestamp time.Time `gorm:"not null;index"`

	// 查询时由 agents 表联出, 不落库
	AgentName string `gorm:"->;-:migration"`
}

// TableName 指定表名
func (AgentLogModel) TableName() string {
	return "agent_logs"
}
