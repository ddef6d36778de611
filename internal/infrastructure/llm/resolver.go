package llm

import (
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
	"github.com/ngoclaw/agenthub/internal/infrastructure/cache"
)

// Resolver 按模型配置构建客户端并缓存
// 缓存键包含模型的 updated_at, 模型更新后旧客户端不会再被命中
type Resolver struct {
	cache          *cache.Cache[service.LLMClient]
	opts           Options
	placeholderKey string
	logger         *zap.Logger
}

// NewResolver 创建客户端解析器
func NewResolver(c *cache.Cache[service.LLMClient], opts Options, placeholderKey string, logger *zap.Logger) *Resolver {
	return &Resolver{
		cache:          c,
		opts:           opts,
		placeholderKey: placeholderKey,
		logger:         logger,
	}
}

var _ service.LLMClientResolver = (*Resolver)(nil)

// Resolve 返回 cfg 对应的客户端
func (r *Resolver) Resolve(cfg valueobject.ModelConfig) (service.LLMClient, error) {
	key := cfg.CacheKey()
	if client, ok := r.cache.Get(key); ok {
		return client, nil
	}

	if cfg.APIKey() == "" {
		cfg = cfg.WithAPIKey(r.placeholderKey)
	}
	client, err := CreateProvider(cfg, r.opts, r.logger)
	if err != nil {
		return nil, err
	}

	r.cache.Set(key, client)
	r.logger.Debug("LLM client created",
		zap.Uint("model_id", cfg.ModelID()),
		zap.String("model", cfg.FullModelName()),
	)
	return client, nil
}
