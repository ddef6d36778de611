package entity

import (
	"strings"
	"time"
)

// MessageRole 消息角色
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Valid 判断角色是否合法
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Message 消息实体, 只追加, 按时间戳排序
type Message struct {
	id             uint
	conversationID uint
	role           MessageRole
	content        string
	timestamp      time.Time
}

// NewMessage 创建新消息（工厂方法）
func NewMessage(conversationID uint, role MessageRole, content string) (*Message, error) {
	if !role.Valid() {
		return nil, ErrInvalidMessageRole
	}
	if role == RoleUser && strings.TrimSpace(content) == "" {
		return nil, ErrInvalidMessageContent
	}

	return &Message{
		conversationID: conversationID,
		role:           role,
		content:        content,
		timestamp:      time.Now().UTC(),
	}, nil
}

// ReconstructMessage 重建消息（用于从持久化层恢复）
func ReconstructMessage(id, conversationID uint, role MessageRole, content string, timestamp time.Time) *Message {
	return &Message{
		id:             id,
		conversationID: conversationID,
		role:           role,
		content:        content,
		timestamp:      timestamp,
	}
}

func (m *Message) ID() uint             { return m.id }
func (m *Message) ConversationID() uint { return m.conversationID }
func (m *Message) Role() MessageRole    { return m.role }
func (m *Message) Content() string      { return m.content }
func (m *Message) Timestamp() time.Time { return m.timestamp }

// AttachTo 绑定所属会话, 仅在持久化之前调用
func (m *Message) AttachTo(conversationID uint) {
	m.conversationID = conversationID
}

// MarkPersisted 写入持久化层生成的标识
func (m *Message) MarkPersisted(id uint) {
	m.id = id
}

// IsFromUser 判断是否来自用户（业务规则）
func (m *Message) IsFromUser() bool {
	return m.role == RoleUser
}
