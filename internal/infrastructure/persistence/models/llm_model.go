package models

import "time"

// LLMModel 数据库模型配置
type LLMModel struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"`
	Name        string  `gorm:"uniqueIndex;size:100;not null"`
	Provider    string  `gorm:"size:20;not null;default:openai"`
	BaseURL     string  `gorm:"size:255;not null"`
	APIKey      string  `gorm:"size:255"`
	ModelName   string  `gorm:"size:100;not null"`
	MaxTokens   int     `gorm:"not null;default:2048"`
	Temperature float64 `gorm:"not null"`
	TopP        float64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName 指定表名
func (LLMModel) TableName() string {
	return "models"
}
