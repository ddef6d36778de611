package entity

import (
	"strings"
	"time"
)

// AgentStatus 代理运行状态
type AgentStatus string

const (
	AgentStatusInactive AgentStatus = "inactive"
	AgentStatusRunning  AgentStatus = "running"
	AgentStatusPaused   AgentStatus = "paused"
	AgentStatusStopped  AgentStatus = "stopped"
)

// AgentStatuses 返回全部合法状态
func AgentStatuses() []AgentStatus {
	return []AgentStatus{AgentStatusInactive, AgentStatusRunning, AgentStatusPaused, AgentStatusStopped}
}

// ParseAgentStatus 解析状态字符串
func ParseAgentStatus(s string) (AgentStatus, error) {
	status := AgentStatus(s)
	if !status.Valid() {
		return "", ErrInvalidAgentStatus
	}
	return status, nil
}

// Valid 判断状态是否合法
func (s AgentStatus) Valid() bool {
	switch s {
	case AgentStatusInactive, AgentStatusRunning, AgentStatusPaused, AgentStatusStopped:
		return true
	}
	return false
}

// Agent 代理聚合根
// 状态迁移不做限制: 任意状态都可以切换到任意状态
type Agent struct {
	id          uint
	name        string
	description string
	status      AgentStatus
	modelID     *uint
	createdAt   time.Time
	updatedAt   time.Time
}

// NewAgent 创建新的代理（工厂方法）
// status 为空时默认为 inactive
func NewAgent(name, description string, status AgentStatus, modelID *uint) (*Agent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidAgentName
	}
	if status == "" {
		status = AgentStatusInactive
	}
	if !status.Valid() {
		return nil, ErrInvalidAgentStatus
	}

	now := time.Now().UTC()
	return &Agent{
		name:        name,
		description: description,
		status:      status,
		modelID:     copyID(modelID),
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructAgent 重建代理（用于从持久化层恢复）
func ReconstructAgent(
	id uint,
	name, description string,
	status AgentStatus,
	modelID *uint,
	createdAt, updatedAt time.Time,
) *Agent {
	return &Agent{
		id:          id,
		name:        name,
		description: description,
		status:      status,
		modelID:     copyID(modelID),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

func (a *Agent) ID() uint             { return a.id }
func (a *Agent) Name() string         { return a.name }
func (a *Agent) Description() string  { return a.description }
func (a *Agent) Status() AgentStatus  { return a.status }
func (a *Agent) CreatedAt() time.Time { return a.createdAt }
func (a *Agent) UpdatedAt() time.Time { return a.updatedAt }

// ModelID 返回关联模型ID副本, 未关联时为 nil
func (a *Agent) ModelID() *uint {
	return copyID(a.modelID)
}

// HasModel 判断是否已关联模型
func (a *Agent) HasModel() bool {
	return a.modelID != nil
}

// MarkPersisted 写入持久化层生成的标识与时间戳
func (a *Agent) MarkPersisted(id uint, createdAt, updatedAt time.Time) {
	a.id = id
	a.createdAt = createdAt
	a.updatedAt = updatedAt
}

// Rename 修改名称（领域行为）
func (a *Agent) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidAgentName
	}
	a.name = name
	a.touch()
	return nil
}

// Describe 修改描述
func (a *Agent) Describe(description string) {
	a.description = description
	a.touch()
}

// AssignModel 关联或解除模型 (nil 解除)
func (a *Agent) AssignModel(modelID *uint) {
	a.modelID = copyID(modelID)
	a.touch()
}

// SetStatus 设置状态, 返回状态是否发生变化
func (a *Agent) SetStatus(status AgentStatus) (bool, error) {
	if !status.Valid() {
		return false, ErrInvalidAgentStatus
	}
	changed := a.status != status
	a.status = status
	a.touch()
	return changed, nil
}

// Start 启动代理
func (a *Agent) Start() { a.forceStatus(AgentStatusRunning) }

// Pause 暂停代理
func (a *Agent) Pause() { a.forceStatus(AgentStatusPaused) }

// Stop 停止代理
func (a *Agent) Stop() { a.forceStatus(AgentStatusStopped) }

func (a *Agent) forceStatus(status AgentStatus) {
	a.status = status
	a.touch()
}

func (a *Agent) touch() {
	a.updatedAt = time.Now().UTC()
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
