package llm

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
)

// Options 构造客户端时的公共选项
type Options struct {
	Timeout    time.Duration // 单次补全调用的上限
	HTTPClient *http.Client  // 为空时由 provider 自行创建
}

// --- Provider Factory Registry ---
// Providers register themselves via init() in their own package.
// Adding a new provider type = implement service.LLMClient + RegisterFactory("type", New).

// ProviderFactory creates a client for one model configuration.
type ProviderFactory func(cfg valueobject.ModelConfig, opts Options, logger *zap.Logger) (service.LLMClient, error)

var (
	factoryMu sync.RWMutex
	factories = map[string]ProviderFactory{}
)

// RegisterFactory registers a provider factory for the given type name.
// Called from init() in each provider sub-package (e.g. llm/openai).
func RegisterFactory(typeName string, factory ProviderFactory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[typeName] = factory
}

// CreateProvider creates a client using the factory registered for cfg.Provider().
func CreateProvider(cfg valueobject.ModelConfig, opts Options, logger *zap.Logger) (service.LLMClient, error) {
	factoryMu.RLock()
	factory, ok := factories[cfg.Provider()]
	factoryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown provider type %q (available: %v)", cfg.Provider(), RegisteredProviders())
	}
	return factory(cfg, opts, logger)
}

// RegisteredProviders 返回已注册的 provider 类型, 按名称排序
func RegisteredProviders() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for k := range factories {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
