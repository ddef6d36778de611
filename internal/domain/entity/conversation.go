package entity

import (
	"strings"
	"time"
)

// DefaultTitleLength 新会话标题截取的字符数
const DefaultTitleLength = 50

// Conversation 会话实体: 用户与代理之间的一组消息
type Conversation struct {
	id        uint
	agentID   uint
	userID    string
	title     string
	createdAt time.Time
	updatedAt time.Time
}

// NewConversation 创建会话, 标题取首条消息的前 titleLength 个字符
func NewConversation(agentID uint, userID, firstMessage string, titleLength int) (*Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUserID
	}
	if titleLength <= 0 {
		titleLength = DefaultTitleLength
	}

	now := time.Now().UTC()
	return &Conversation{
		agentID:   agentID,
		userID:    userID,
		title:     truncateRunes(firstMessage, titleLength),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructConversation 重建会话（用于从持久化层恢复）
func ReconstructConversation(id, agentID uint, userID, title string, createdAt, updatedAt time.Time) *Conversation {
	return &Conversation{
		id:        id,
		agentID:   agentID,
		userID:    userID,
		title:     title,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (c *Conversation) ID() uint             { return c.id }
func (c *Conversation) AgentID() uint        { return c.agentID }
func (c *Conversation) UserID() string       { return c.userID }
func (c *Conversation) Title() string        { return c.title }
func (c *Conversation) CreatedAt() time.Time { return c.createdAt }
func (c *Conversation) UpdatedAt() time.Time { return c.updatedAt }

// BelongsTo 判断会话是否属于指定代理
func (c *Conversation) BelongsTo(agentID uint) bool {
	return c.agentID == agentID
}

// MarkPersisted 写入持久化层生成的标识与时间戳
func (c *Conversation) MarkPersisted(id uint, createdAt, updatedAt time.Time) {
	c.id = id
	c.createdAt = createdAt
	c.updatedAt = updatedAt
}

// Retitle 修改标题
func (c *Conversation) Retitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidConversationTitle
	}
	c.title = title
	c.Touch()
	return nil
}

// Touch 刷新更新时间 (新消息到达时调用)
func (c *Conversation) Touch() {
	c.updatedAt = time.Now().UTC()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
