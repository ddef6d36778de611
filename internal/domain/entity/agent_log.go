package entity

import (
	"strings"
	"time"
)

// LogLevel 日志级别
type LogLevel string

const (
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
	LogLevelDebug   LogLevel = "debug"
)

// Valid 判断级别是否合法
func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarning, LogLevelError, LogLevelDebug:
		return true
	}
	return false
}

// AgentLog 代理审计日志, 只追加不修改
type AgentLog struct {
	id        uint
	agentID   uint
	agentName string
	level     LogLevel
	message   string
	timestamp time.Time
}

// NewAgentLog 创建日志条目
func NewAgentLog(agentID uint, level LogLevel, message string) (*AgentLog, error) {
	if !level.Valid() {
		return nil, ErrInvalidLogLevel
	}
	return &AgentLog{
		agentID:   agentID,
		level:     level,
		message:   message,
		timestamp: time.Now().UTC(),
	}, nil
}

// ReconstructAgentLog 重建日志（用于从持久化层恢复）
func ReconstructAgentLog(id, agentID uint, agentName string, level LogLevel, message string, timestamp time.Time) *AgentLog {
	return &AgentLog{
		id:        id,
		agentID:   agentID,
		agentName: agentName,
		level:     level,
		message:   message,
		timestamp: timestamp,
	}
}

func (l *AgentLog) ID() uint             { return l.id }
func (l *AgentLog) AgentID() uint        { return l.agentID }
func (l *AgentLog) AgentName() string    { return l.agentName }
func (l *AgentLog) Level() LogLevel      { return l.level }
func (l *AgentLog) Message() string      { return l.message }
func (l *AgentLog) Timestamp() time.Time { return l.timestamp }

// MarkPersisted 写入持久化层生成的标识
func (l *AgentLog) MarkPersisted(id uint) {
	l.id = id
}

// 标准日志消息
const (
	logRegistered    = "Agent registered: "
	logStatusChanged = "Agent status changed to: "
)

// RegisteredLog 代理注册日志
func RegisteredLog(agent *Agent) *AgentLog {
	return mustInfo(agent.ID(), logRegistered+agent.Name())
}

// StatusChangedLog 状态变更日志
func StatusChangedLog(agent *Agent) *AgentLog {
	return mustInfo(agent.ID(), logStatusChanged+string(agent.Status()))
}

// LifecycleLog start/pause/stop 动作日志: "Agent started" 等
func LifecycleLog(agent *Agent, verb string) *AgentLog {
	return mustInfo(agent.ID(), "Agent "+strings.TrimSpace(verb))
}

func mustInfo(agentID uint, message string) *AgentLog {
	log, _ := NewAgentLog(agentID, LogLevelInfo, message)
	return log
}
