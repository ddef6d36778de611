package entity

import (
	"strings"
	"time"

	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
)

// ModelProvider 模型提供商
type ModelProvider string

const (
	ProviderOllama ModelProvider = "ollama"
	ProviderOpenAI ModelProvider = "openai"
)

// Valid 判断提供商是否受支持
func (p ModelProvider) Valid() bool {
	return p == ProviderOllama || p == ProviderOpenAI
}

// Model 默认生成参数
const (
	DefaultMaxTokens   = 2048
	DefaultTemperature = 0.7
	DefaultTopP        = 1.0
)

// ModelSpec 创建或更新模型所需的字段
type ModelSpec struct {
	Name        string
	Provider    ModelProvider
	BaseURL     string
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Model LLM 模型配置, 指向一个 OpenAI 兼容的补全端点
type Model struct {
	id        uint
	spec      ModelSpec
	createdAt time.Time
	updatedAt time.Time
}

// NewModel 创建模型配置（工厂方法）
func NewModel(spec ModelSpec) (*Model, error) {
	spec.Name = strings.TrimSpace(spec.Name)
	spec.BaseURL = strings.TrimSpace(spec.BaseURL)
	spec.ModelName = strings.TrimSpace(spec.ModelName)
	if spec.Provider == "" {
		spec.Provider = ProviderOpenAI
	}
	if spec.MaxTokens <= 0 {
		spec.MaxTokens = DefaultMaxTokens
	}
	if err := validateModelSpec(spec); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Model{spec: spec, createdAt: now, updatedAt: now}, nil
}

// ReconstructModel 重建模型（用于从持久化层恢复）
func ReconstructModel(id uint, spec ModelSpec, createdAt, updatedAt time.Time) *Model {
	return &Model{id: id, spec: spec, createdAt: createdAt, updatedAt: updatedAt}
}

func validateModelSpec(spec ModelSpec) error {
	if spec.Name == "" {
		return ErrInvalidModelName
	}
	if !spec.Provider.Valid() {
		return ErrInvalidModelProvider
	}
	if spec.BaseURL == "" {
		return ErrInvalidModelBaseURL
	}
	if spec.ModelName == "" {
		return ErrInvalidModelID
	}
	return nil
}

func (m *Model) ID() uint                { return m.id }
func (m *Model) Name() string            { return m.spec.Name }
func (m *Model) Provider() ModelProvider { return m.spec.Provider }
func (m *Model) BaseURL() string         { return m.spec.BaseURL }
func (m *Model) APIKey() string          { return m.spec.APIKey }
func (m *Model) ModelName() string       { return m.spec.ModelName }
func (m *Model) MaxTokens() int          { return m.spec.MaxTokens }
func (m *Model) Temperature() float64    { return m.spec.Temperature }
func (m *Model) TopP() float64           { return m.spec.TopP }
func (m *Model) CreatedAt() time.Time    { return m.createdAt }
func (m *Model) UpdatedAt() time.Time    { return m.updatedAt }

// Spec 返回当前字段快照
func (m *Model) Spec() ModelSpec { return m.spec }

// HasAPIKey 判断是否配置了 API Key
func (m *Model) HasAPIKey() bool { return m.spec.APIKey != "" }

// MarkPersisted 写入持久化层生成的标识与时间戳
func (m *Model) MarkPersisted(id uint, createdAt, updatedAt time.Time) {
	m.id = id
	m.createdAt = createdAt
	m.updatedAt = updatedAt
}

// Update 以新字段替换配置, 校验失败时保持原值
func (m *Model) Update(spec ModelSpec) error {
	spec.Name = strings.TrimSpace(spec.Name)
	spec.BaseURL = strings.TrimSpace(spec.BaseURL)
	spec.ModelName = strings.TrimSpace(spec.ModelName)
	if spec.MaxTokens <= 0 {
		spec.MaxTokens = DefaultMaxTokens
	}
	if err := validateModelSpec(spec); err != nil {
		return err
	}
	m.spec = spec
	m.updatedAt = time.Now().UTC()
	return nil
}

// Config 转换为补全调用使用的模型配置值对象
func (m *Model) Config() valueobject.ModelConfig {
	return valueobject.NewModelConfig(
		m.id,
		string(m.spec.Provider),
		m.spec.BaseURL,
		m.spec.APIKey,
		m.spec.ModelName,
		m.spec.MaxTokens,
		m.spec.Temperature,
		m.spec.TopP,
		m.updatedAt,
	)
}
