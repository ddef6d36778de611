package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
	llm "github.com/ngoclaw/agenthub/internal/infrastructure/llm"
)

const tracerName = "agenthub/llm"

func init() {
	// ollama 暴露 OpenAI 兼容的 /v1 接口, 两者共用同一实现
	for _, typeName := range []string{"openai", "ollama"} {
		llm.RegisterFactory(typeName, func(cfg valueobject.ModelConfig, opts llm.Options, logger *zap.Logger) (service.LLMClient, error) {
			return New(cfg, opts, logger)
		})
	}
}

// Provider is an OpenAI-compatible chat completion client.
// Compatible with: OpenAI, Ollama, vLLM, DeepSeek, etc.
type Provider struct {
	provider string
	model    string
	client   *goopenai.Client
	logger   *zap.Logger
}

// New creates a client bound to one model configuration.
func New(cfg valueobject.ModelConfig, opts llm.Options, logger *zap.Logger) (*Provider, error) {
	baseURL := strings.TrimRight(cfg.BaseURL(), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base_url is required for provider %s", cfg.Provider())
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   opts.Timeout,
		}
	}

	clientConfig := goopenai.DefaultConfig(cfg.APIKey())
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = httpClient

	return &Provider{
		provider: cfg.Provider(),
		model:    cfg.Model(),
		client:   goopenai.NewClientWithConfig(clientConfig),
		logger: logger.With(
			zap.String("provider", cfg.Provider()),
			zap.String("model", cfg.Model()),
		),
	}, nil
}

// Compile-time interface check
var _ service.LLMClient = (*Provider)(nil)

// Generate 发送一次非流式补全请求
func (p *Provider) Generate(ctx context.Context, req *service.LLMRequest) (*service.LLMResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "chat.completion",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.provider", p.provider),
			attribute.String("llm.model", model),
			attribute.Int("llm.messages", len(req.Messages)),
		),
	)
	defer span.End()

	messages := make([]goopenai.ChatCompletionMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: explicitZero(req.Temperature),
		TopP:        explicitZero(req.TopP),
	})
	if err != nil {
		llmErr := service.ClassifyError(err, statusOf(err), p.provider, model)
		span.RecordError(llmErr)
		span.SetStatus(codes.Error, llmErr.Kind.String())
		p.logger.Warn("Chat completion failed",
			zap.String("kind", llmErr.Kind.String()),
			zap.Int("status", llmErr.StatusCode),
			zap.Error(err),
		)
		return nil, llmErr
	}
	if len(resp.Choices) == 0 {
		err := service.ClassifyError(errors.New("empty chat response"), 0, p.provider, model)
		span.SetStatus(codes.Error, "empty response")
		return nil, err
	}

	span.SetAttributes(attribute.Int("llm.tokens", resp.Usage.TotalTokens))
	return &service.LLMResponse{
		Content:    resp.Choices[0].Message.Content,
		ModelUsed:  resp.Model,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// explicitZero go-openai 对 0 使用 omitempty, 上游会退回默认值;
// 用最小正数代替 0 才能真正发送 0
func explicitZero(v float64) float32 {
	if v == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(v)
}

// statusOf 从 go-openai 错误中取出 HTTP 状态码
func statusOf(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
