package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/sqlitetest"
	"github.com/ngoclaw/agenthub/pkg/pagination"
)

// fakeLLM 记录收到的请求并返回预设回复
type fakeLLM struct {
	mu       sync.Mutex
	requests []*service.LLMRequest
	configs  []valueobject.ModelConfig
	reply    string
	err      error
}

func (f *fakeLLM) Resolve(cfg valueobject.ModelConfig) (service.LLMClient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs = append(f.configs, cfg)
	return f, nil
}

func (f *fakeLLM) Generate(ctx context.Context, req *service.LLMRequest) (*service.LLMResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &service.LLMResponse{Content: f.reply, ModelUsed: req.Model}, nil
}

func (f *fakeLLM) lastRequest() *service.LLMRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

type harness struct {
	agents   repository.AgentRepository
	models   repository.ModelRepository
	logs     repository.AgentLogRepository
	convs    repository.ConversationRepository
	messages repository.MessageRepository
	tx       repository.Transactor

	agentUC *usecase.AgentUseCase
	modelUC *usecase.ModelUseCase
	convUC  *usecase.ConversationUseCase
	logUC   *usecase.LogUseCase
	chatUC  *usecase.ChatUseCase
	llm     *fakeLLM
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := sqlitetest.New(t)
	log := zap.NewNop()

	h := &harness{
		agents:   persistence.NewGormAgentRepository(db),
		models:   persistence.NewGormModelRepository(db),
		logs:     persistence.NewGormAgentLogRepository(db),
		convs:    persistence.NewGormConversationRepository(db),
		messages: persistence.NewGormMessageRepository(db),
		llm:      &fakeLLM{reply: "pong"},
	}
	tx := persistence.NewGormTransactor(db)
	h.tx = tx

	h.agentUC = usecase.NewAgentUseCase(h.agents, h.models, h.logs, h.convs, h.messages, tx, log)
	h.modelUC = usecase.NewModelUseCase(h.models, h.agents, tx, log)
	h.convUC = usecase.NewConversationUseCase(h.convs, h.messages, tx, log)
	h.logUC = usecase.NewLogUseCase(h.agents, h.logs)
	h.chatUC = usecase.NewChatUseCase(h.agents, h.models, h.convs, h.messages, h.logs, tx, h.llm,
		usecase.ChatOptions{Timeout: time.Second, HistoryLimit: 20, TitleLength: 50}, log)
	return h
}

func ptr[T any](v T) *T { return &v }

func page(n, per int) pagination.Request {
	return pagination.Request{Page: n, PerPage: per}
}

func (h *harness) createModel(t *testing.T, name string) *entity.Model {
	t.Helper()
	m, err := h.modelUC.Create(context.Background(), usecase.ModelFields{
		Name:      ptr(name),
		Provider:  ptr("ollama"),
		BaseURL:   ptr("http://localhost:11434/v1"),
		ModelName: ptr("llama3"),
	})
	require.NoError(t, err)
	return m
}

func (h *harness) createAgent(t *testing.T, name string, modelID *uint) *entity.Agent {
	t.Helper()
	a, err := h.agentUC.Create(context.Background(), usecase.CreateAgentCommand{Name: name, ModelID: modelID})
	require.NoError(t, err)
	return a
}

func (h *harness) logMessages(t *testing.T, agentID uint) []string {
	t.Helper()
	p, err := h.logUC.ListByAgent(context.Background(), agentID, page(1, 100))
	require.NoError(t, err)
	out := make([]string, 0, len(p.Items))
	for _, l := range p.Items {
		out = append(out, l.Message())
	}
	return out
}

var errUpstream = errors.New("connection refused")
