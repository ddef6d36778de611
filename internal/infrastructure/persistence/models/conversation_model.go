package models

import "time"

// ConversationModel 数据库会话模型
type ConversationModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	AgentID   uint   `gorm:"not null;index"`
	UserID    string `gorm:"size:100;not null;index"`
	Title     string `gorm:"size:200"`
	CreatedAt time.Time
	UpdatedAt time.Time `gorm:"index"`
}

// TableName 指定表名
func (ConversationModel) TableName() string {
	return "conversations"
}

// MessageModel 数据库消息模型
type MessageModel struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	ConversationID uint      `gorm:"not null;index:idx_messages_conversation_ts,priority:1"`
	Role           string    `gorm:"size:20;not null"`
	Content        string    `gorm:"type:text;not null"`
	Timestamp      time.Time `gorm:"not null;index:idx_messages_conversation_ts,priority:2"`
}

// TableName 指定表名
func (MessageModel) TableName() string {
	return "messages"
}
