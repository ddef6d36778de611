package valueobject

import (
	"fmt"
	"time"
)

// ModelConfig 模型配置值对象（不可变）
// 描述一次补全调用需要的全部端点与生成参数
type ModelConfig struct {
	modelID     uint
	provider    string
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	topP        float64
	revision    time.Time
}

// NewModelConfig 创建模型配置
func NewModelConfig(
	modelID uint,
	provider, baseURL, apiKey, model string,
	maxTokens int,
	temperature, topP float64,
	revision time.Time,
) ModelConfig {
	return ModelConfig{
		modelID:     modelID,
		provider:    provider,
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		revision:    revision,
	}
}

// ModelID 返回来源模型记录ID
func (mc ModelConfig) ModelID() uint { return mc.modelID }

// Provider 返回提供商
func (mc ModelConfig) Provider() string { return mc.provider }

// BaseURL 返回端点地址
func (mc ModelConfig) BaseURL() string { return mc.baseURL }

// APIKey 返回 API Key, 可能为空
func (mc ModelConfig) APIKey() string { return mc.apiKey }

// Model 返回模型名称
func (mc ModelConfig) Model() string { return mc.model }

// MaxTokens 返回最大令牌数
func (mc ModelConfig) MaxTokens() int { return mc.maxTokens }

// Temperature 返回温度参数
func (mc ModelConfig) Temperature() float64 { return mc.temperature }

// TopP 返回 Top-P 参数
func (mc ModelConfig) TopP() float64 { return mc.topP }

// FullModelName 返回完整模型名称
func (mc ModelConfig) FullModelName() string {
	return mc.provider + "/" + mc.model
}

// CacheKey 标识一个具体版本的模型配置; 模型更新后键随之变化
func (mc ModelConfig) CacheKey() string {
	return fmt.Sprintf("model:%d:%d", mc.modelID, mc.revision.UnixNano())
}

// WithAPIKey 创建新的配置（替换 API Key）
func (mc ModelConfig) WithAPIKey(key string) ModelConfig {
	out := mc
	out.apiKey = key
	return out
}

// Equals 值对象相等性比较
func (mc ModelConfig) Equals(other ModelConfig) bool {
	return mc.modelID == other.modelID &&
		mc.provider == other.provider &&
		mc.baseURL == other.baseURL &&
		mc.apiKey == other.apiKey &&
		mc.model == other.model &&
		mc.maxTokens == other.maxTokens &&
		mc.temperature == other.temperature &&
		mc.topP == other.topP &&
		mc.revision.Equal(other.revision)
}
