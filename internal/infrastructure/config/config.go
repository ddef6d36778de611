package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// EnvPrefix 环境变量前缀, 例如 AGENTHUB_SERVER_PORT
const EnvPrefix = "AGENTHUB"

// Config 应用配置
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Database   DatabaseConfig    `mapstructure:"database"`
	Log        LogConfig         `mapstructure:"log"`
	Pagination pagination.Config `mapstructure:"pagination"`
	LLM        LLMConfig         `mapstructure:"llm"`
	Cache      CacheConfig       `mapstructure:"cache"`
	Telemetry  TelemetryConfig   `mapstructure:"telemetry"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug, release, test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"` // silent, error, warn, info
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// LLMConfig 补全调用配置
type LLMConfig struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	PlaceholderAPIKey string        `mapstructure:"placeholder_api_key"` // 模型未配置 api_key 时使用
	HistoryLimit      int           `mapstructure:"history_limit"`       // 发送给模型的最近消息数
	TitleLength       int           `mapstructure:"title_length"`
}

// CacheConfig LLM 客户端缓存配置
type CacheConfig struct {
	MaxCost int64         `mapstructure:"max_cost"` // 最多缓存的客户端数量
	TTL     time.Duration `mapstructure:"ttl"`
}

// TelemetryConfig OpenTelemetry 配置
type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
}

// Load 加载配置
// 优先级 (低 → 高): 默认值 → 配置文件 → 环境变量
// path 为空时依次查找 ./config/config.yaml 和 ./config.yaml
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		for _, dir := range []string{"./config", "."} {
			candidate := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	// 环境变量覆盖
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Pagination.MaxPerPage <= 0 {
		return fmt.Errorf("pagination.max_per_page must be positive")
	}
	if c.LLM.HistoryLimit <= 0 {
		return fmt.Errorf("llm.history_limit must be positive")
	}
	return nil
}

// setDefaults 设置默认配置
func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "180s")

	// Database
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.dsn", "agenthub.db")
	v.SetDefault("database.log_level", "warn")

	// Log
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("pagination.max_per_page", pagination.DefaultConfig().MaxPerPage)

	// LLM
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("llm.placeholder_api_key", "sk-no-key-required")
	v.SetDefault("llm.history_limit", 20)
	v.SetDefault("llm.title_length", 50)

	// Cache
	v.SetDefault("cache.max_cost", 64)
	v.SetDefault("cache.ttl", "10m")

	v.SetDefault("telemetry.service_name", AppName)
}
