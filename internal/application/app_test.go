package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ngoclaw/agenthub/internal/application"
	"github.com/ngoclaw/agenthub/internal/infrastructure/config"
	"github.com/ngoclaw/agenthub/internal/infrastructure/persistence/sqlitetest"
	"github.com/ngoclaw/agenthub/internal/infrastructure/seed"
)

type apiClient struct {
	t   *testing.T
	srv *httptest.Server
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	chdir(t, t.TempDir())

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Mode = "test"

	app, err := application.NewApp(cfg, zap.NewNop(), application.WithDB(sqlitetest.New(t)))
	require.NoError(t, err)

	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv}
}

// do 发送请求, 返回状态码与解码后的 JSON
func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(data)
	}
	return c.send(method, path, r)
}

// raw 发送原样请求体, 用于非法 JSON
func (c *apiClient) raw(method, path, body string) (int, map[string]any) {
	c.t.Helper()
	return c.send(method, path, strings.NewReader(body))
}

func (c *apiClient) send(method, path string, r io.Reader) (int, map[string]any) {
	c.t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, r)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.srv.Client().Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

func (c *apiClient) mustCreate(path string, body any) map[string]any {
	c.t.Helper()
	status, out := c.do(http.MethodPost, path, body)
	require.Equal(c.t, http.StatusCreated, status, "body: %v", out)
	return out
}

func id(v map[string]any) int {
	return int(v["id"].(float64))
}

func items(v map[string]any, key string) []any {
	list, _ := v[key].([]any)
	return list
}

func meta(v map[string]any) map[string]any {
	m, _ := v["pagination"].(map[string]any)
	return m
}

func TestAPI_AgentLifecycle(t *testing.T) {
	api := newAPI(t)

	agent := api.mustCreate("/agents", map[string]any{"name": "A1", "description": "first"})
	assert.Equal(t, "inactive", agent["status"])
	assert.Nil(t, agent["model_id"])

	status, body := api.do(http.MethodPost, "/agents", map[string]any{"name": "A1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Agent already exists", body["error"])

	path := fmt.Sprintf("/agents/%d", id(agent))
	status, body = api.do(http.MethodPost, path+"/start", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "running", body["status"])

	status, body = api.do(http.MethodGet, path+"/logs", nil)
	require.Equal(t, http.StatusOK, status)
	logs := items(body, "logs")
	require.Len(t, logs, 2)
	latest := logs[0].(map[string]any)
	assert.Equal(t, "Agent started", latest["message"])
	assert.Equal(t, "A1", latest["agent_name"])
	assert.Equal(t, "Agent registered: A1", logs[1].(map[string]any)["message"])

	status, body = api.do(http.MethodPut, path, map[string]any{"status": "paused", "description": "changed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "paused", body["status"])
	assert.Equal(t, "changed", body["description"])

	status, _ = api.do(http.MethodPut, path, map[string]any{"status": "sleeping"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Agent deleted successfully", body["message"])

	status, body = api.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Agent not found", body["error"])
}

func TestAPI_Routing(t *testing.T) {
	api := newAPI(t)
	api.mustCreate("/agents/", map[string]any{"name": "slash"})

	status, body := api.do(http.MethodGet, "/agents/", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, items(body, "agents"), 1)

	for _, path := range []string{"/agents/abc", "/agents/-1", "/models/1.5", "/conversations/x/messages", "/nope"} {
		status, body := api.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.NotEmpty(t, body["error"], path)
	}

	status, _ = api.do(http.MethodPost, "/agents", map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/agents", map[string]any{"name": 42})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(http.MethodGet, "/conversations?agent_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "agent_id must be an integer", body["error"])
}

func TestAPI_Pagination(t *testing.T) {
	api := newAPI(t)
	for i := 1; i <= 3; i++ {
		api.mustCreate("/agents", map[string]any{"name": fmt.Sprintf("agent-%d", i)})
	}

	_, body := api.do(http.MethodGet, "/agents?page=2&per_page=2", nil)
	require.Len(t, items(body, "agents"), 1)
	m := meta(body)
	assert.EqualValues(t, 3, m["total"])
	assert.EqualValues(t, 2, m["pages"])
	assert.EqualValues(t, 2, m["current_page"])
	assert.Equal(t, true, m["has_prev"])
	assert.Equal(t, false, m["has_next"])

	_, body = api.do(http.MethodGet, "/agents?page=9", nil)
	list, ok := body["agents"].([]any)
	require.True(t, ok, "beyond the end is an empty list, not null")
	assert.Empty(t, list)
	assert.Equal(t, false, meta(body)["has_next"])

	status, body := api.do(http.MethodGet, "/agents?page=922337203685477581&per_page=100", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, items(body, "agents"), "offset must not wrap around to the first page")

	_, body = api.do(http.MethodGet, "/agents?page=0&per_page=0", nil)
	assert.EqualValues(t, 1, meta(body)["current_page"])
	assert.EqualValues(t, 1, meta(body)["pages"], "per_page falls back to 10")

	_, body = api.do(http.MethodGet, "/agents?per_page=1000", nil)
	assert.Len(t, items(body, "agents"), 3)

	_, body = api.do(http.MethodGet, "/agents", nil)
	first := items(body, "agents")[0].(map[string]any)
	assert.Equal(t, "agent-1", first["name"], "ordered by id")
}

func TestAPI_Models(t *testing.T) {
	api := newAPI(t)

	model := api.mustCreate("/models", map[string]any{
		"name":       "gpt",
		"base_url":   "https://api.openai.com/v1",
		"api_key":    "sk-secret",
		"model_name": "gpt-4o-mini",
	})
	assert.Equal(t, true, model["has_api_key"])
	assert.NotContains(t, model, "api_key")
	assert.Equal(t, "openai", model["provider"])
	assert.EqualValues(t, 2048, model["max_tokens"])
	assert.InDelta(t, 0.7, model["temperature"], 1e-9)
	assert.InDelta(t, 1.0, model["top_p"], 1e-9)

	status, _ := api.do(http.MethodPost, "/models", map[string]any{"name": "x", "model_name": "m"})
	assert.Equal(t, http.StatusBadRequest, status, "base_url is required")
	status, _ = api.do(http.MethodPost, "/models", map[string]any{
		"name": "x", "base_url": "http://h", "model_name": "m", "provider": "anthropic",
	})
	assert.Equal(t, http.StatusBadRequest, status, "unknown provider")
	status, _ = api.do(http.MethodPost, "/models", map[string]any{
		"name": "gpt", "base_url": "http://h", "model_name": "m",
	})
	assert.Equal(t, http.StatusConflict, status)

	path := fmt.Sprintf("/models/%d", id(model))
	status, body := api.do(http.MethodPut, path, map[string]any{"temperature": 0})
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 0, body["temperature"], 1e-9)
	assert.Equal(t, "gpt-4o-mini", body["model_name"])

	api.mustCreate("/agents", map[string]any{"name": "uses-gpt", "model_id": id(model)})
	status, body = api.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "in use")

	status, _ = api.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, status, "row intact after refused delete")

	status, _ = api.do(http.MethodPost, "/agents", map[string]any{"name": "ghost", "model_id": 999})
	assert.Equal(t, http.StatusNotFound, status)
}

// fakeUpstream OpenAI 兼容端点, 记录收到的请求
type fakeUpstream struct {
	mu       sync.Mutex
	auth     []string
	messages [][]map[string]string
	fail     bool
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model    string              `json:"model"`
		Messages []map[string]string `json:"messages"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.messages = append(f.messages, req.Messages)
	fail := f.fail
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error": {"message": "model overloaded", "type": "server_error"}}`))
		return
	}
	last := req.Messages[len(req.Messages)-1]["content"]
	_, _ = fmt.Fprintf(w, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": %q,
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "echo: %s"}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
	}`, req.Model, last)
}

func TestAPI_ChatFlow(t *testing.T) {
	upstream := &fakeUpstream{}
	llmSrv := httptest.NewServer(upstream)
	defer llmSrv.Close()

	api := newAPI(t)
	model := api.mustCreate("/models", map[string]any{
		"name":       "local",
		"provider":   "ollama",
		"base_url":   llmSrv.URL + "/v1",
		"model_name": "llama3",
	})
	agent := api.mustCreate("/agents", map[string]any{"name": "A1", "model_id": id(model)})
	chatPath := fmt.Sprintf("/agents/%d/chat", id(agent))

	status, body := api.do(http.MethodPost, chatPath, map[string]any{"user_id": "u1", "message": "hello"})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.Equal(t, "echo: hello", body["reply"])
	assert.NotEmpty(t, body["timestamp"])
	convID := int(body["conversation_id"].(float64))

	status, body = api.do(http.MethodPost, chatPath, map[string]any{
		"user_id": "u1", "message": "again", "conversation_id": convID,
	})
	require.Equal(t, http.StatusOK, status, "body: %v", body)
	assert.EqualValues(t, convID, body["conversation_id"])

	upstream.mu.Lock()
	assert.Equal(t, "Bearer sk-no-key-required", upstream.auth[0])
	require.Len(t, upstream.messages, 2)
	second := upstream.messages[1]
	upstream.mu.Unlock()
	require.Len(t, second, 3)
	assert.Equal(t, "hello", second[0]["content"])
	assert.Equal(t, "assistant", second[1]["role"])
	assert.Equal(t, "again", second[2]["content"])

	_, body = api.do(http.MethodGet, fmt.Sprintf("/conversations/%d/messages", convID), nil)
	msgs := items(body, "messages")
	require.Len(t, msgs, 4)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "echo: again", msgs[3].(map[string]any)["content"])

	_, body = api.do(http.MethodGet, fmt.Sprintf("/conversations?agent_id=%d&user_id=u1", id(agent)), nil)
	convs := items(body, "conversations")
	require.Len(t, convs, 1)
	assert.Equal(t, "hello", convs[0].(map[string]any)["title"])

	status, body = api.do(http.MethodPut, fmt.Sprintf("/conversations/%d", convID), map[string]any{"title": "Greeting"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Greeting", body["title"])
	status, _ = api.do(http.MethodPut, fmt.Sprintf("/conversations/%d", convID), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, status)

	// 上游失败: 500, 不落库, 记录错误日志
	upstream.mu.Lock()
	upstream.fail = true
	upstream.mu.Unlock()
	status, body = api.do(http.MethodPost, chatPath, map[string]any{"user_id": "u2", "message": "boom"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body["error"], "model overloaded")

	_, body = api.do(http.MethodGet, "/conversations?user_id=u2", nil)
	assert.Empty(t, items(body, "conversations"))
	_, body = api.do(http.MethodGet, fmt.Sprintf("/agents/%d/logs?per_page=1", id(agent)), nil)
	failure := items(body, "logs")[0].(map[string]any)
	assert.Equal(t, "error", failure["level"])
	assert.True(t, strings.HasPrefix(failure["message"].(string), "Chat failed: "))

	// 解除模型后无法聊天
	status, body = api.do(http.MethodPut, fmt.Sprintf("/agents/%d", id(agent)), map[string]any{"model_id": nil})
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, body["model_id"])
	status, body = api.do(http.MethodPost, chatPath, map[string]any{"user_id": "u1", "message": "hi"})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Agent has no model configured", body["error"])
	status, body = api.do(http.MethodPost, chatPath, map[string]any{"user_id": "u1", "message": "hi", "conversation_id": 999999})
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "Agent has no model configured", body["error"])

	status, _ = api.do(http.MethodPost, chatPath, map[string]any{"user_id": "u1"})
	assert.Equal(t, http.StatusBadRequest, status)

	// 空请求体按空对象处理, 由必填检查拒绝; 非法 JSON 直接 400
	status, body = api.raw(http.MethodPost, chatPath, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
	status, body = api.raw(http.MethodPost, chatPath, `{"user_id": 7, "message": "hi"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, strings.HasPrefix(body["error"].(string), "Invalid JSON body: "), body["error"])
	status, body = api.raw(http.MethodPost, chatPath, `{"user_id":`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, strings.HasPrefix(body["error"].(string), "Invalid JSON body: "), body["error"])

	// 删除代理级联删除会话、消息与日志
	status, _ = api.do(http.MethodDelete, fmt.Sprintf("/agents/%d", id(agent)), nil)
	require.Equal(t, http.StatusOK, status)
	_, body = api.do(http.MethodGet, "/conversations", nil)
	assert.EqualValues(t, 0, meta(body)["total"])
	_, body = api.do(http.MethodGet, "/logs", nil)
	assert.EqualValues(t, 0, meta(body)["total"])
	status, _ = api.do(http.MethodGet, fmt.Sprintf("/conversations/%d/messages", convID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAPI_SystemEndpoints(t *testing.T) {
	api := newAPI(t)

	status, body := api.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, body = api.do(http.MethodGet, "/openapi.json", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "3.1.0", body["openapi"])
	paths, _ := body["paths"].(map[string]any)
	assert.Contains(t, paths, "/agents/{id}/chat")
	assert.Contains(t, paths, "/conversations/{id}/messages")

	resp, err := api.srv.Client().Get(api.srv.URL + "/docs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	status, body = api.do(http.MethodGet, "/debug/runtime", nil)
	require.Equal(t, http.StatusOK, status)
	stats, _ := body["metrics"].(map[string]any)
	assert.NotNil(t, stats["requests_total"])

	metrics, err := api.srv.Client().Get(api.srv.URL + "/metrics")
	require.NoError(t, err)
	defer metrics.Body.Close()
	text, _ := io.ReadAll(metrics.Body)
	assert.Equal(t, http.StatusOK, metrics.StatusCode)
	assert.Contains(t, string(text), "# TYPE agenthub_http_requests_total counter")
}

func TestApp_SeedModels(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.Mode = "test"

	app, err := application.NewApp(cfg, zap.NewNop(), application.WithDB(sqlitetest.New(t)))
	require.NoError(t, err)

	catalog, err := seed.Parse(strings.NewReader(`
models:
  - name: local
    provider: ollama
    base_url: http://localhost:11434/v1
    model_name: llama3
  - name: gpt
    base_url: https://api.openai.com/v1
    model_name: gpt-4o-mini
`))
	require.NoError(t, err)

	created, err := app.SeedModels(context.Background(), catalog)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = app.SeedModels(context.Background(), catalog)
	require.NoError(t, err)
	assert.Zero(t, created, "seeding is idempotent by name")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
