package monitoring

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/domain/service"
	"github.com/ngoclaw/agenthub/internal/domain/valueobject"
)

type stubClient struct {
	err    error
	tokens int
}

func (s *stubClient) Generate(ctx context.Context, req *service.LLMRequest) (*service.LLMResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &service.LLMResponse{Content: "ok", TokensUsed: s.tokens}, nil
}

type stubResolver struct {
	client service.LLMClient
	err    error
}

func (s *stubResolver) Resolve(cfg valueobject.ModelConfig) (service.LLMClient, error) {
	return s.client, s.err
}

func TestMonitor_ObserveRequest(t *testing.T) {
	m := NewMonitor(zap.NewNop())
	m.ObserveRequest(200, 2*time.Millisecond)
	m.ObserveRequest(404, time.Millisecond)
	m.ObserveRequest(500, time.Millisecond)

	stats := m.Stats()
	assert.Equal(t, uint64(3), stats["requests_total"])
	assert.Equal(t, uint64(1), stats["requests_client_error"])
	assert.Equal(t, uint64(1), stats["requests_server_error"])
	assert.Greater(t, stats["avg_latency_ms"].(float64), 0.0)
}

func TestInstrumentResolver(t *testing.T) {
	m := NewMonitor(zap.NewNop())
	cfg := valueobject.NewModelConfig(1, "openai", "http://x", "", "m", 10, 0.7, 1, time.Now())

	ok := InstrumentResolver(&stubResolver{client: &stubClient{tokens: 42}}, m)
	client, err := ok.Resolve(cfg)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), &service.LLMRequest{})
	require.NoError(t, err)

	boom := errors.New("boom")
	failing := InstrumentResolver(&stubResolver{client: &stubClient{err: boom}}, m)
	client, err = failing.Resolve(cfg)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), &service.LLMRequest{})
	assert.ErrorIs(t, err, boom)

	_, err = InstrumentResolver(&stubResolver{err: boom}, m).Resolve(cfg)
	assert.ErrorIs(t, err, boom)

	stats := m.Stats()
	assert.Equal(t, uint64(2), stats["model_calls_total"])
	assert.Equal(t, uint64(1), stats["model_calls_failed"])
	assert.Equal(t, uint64(42), stats["model_tokens_used"])
}

func TestPrometheusHandler(t *testing.T) {
	m := NewMonitor(zap.NewNop())
	m.ObserveRequest(201, time.Millisecond)
	m.IncModelCall()

	rec := httptest.NewRecorder()
	m.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, text, "# TYPE agenthub_http_requests_total counter")
	assert.Contains(t, text, "agenthub_http_requests_total 1\n")
	assert.Contains(t, text, "agenthub_model_calls_total 1\n")
	assert.Contains(t, text, "agenthub_http_request_latency_avg_ms")
	assert.NotContains(t, text, "agenthub_model_latency_avg_ms")
}
