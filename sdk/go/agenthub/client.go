// Package agenthub is a Go client for the agenthub REST API.
//
// Usage:
//
//	client := agenthub.NewClient("http://localhost:8000")
//	agent, err := client.CreateAgent(ctx, agenthub.AgentInput{Name: "helper"})
//	reply, err := client.Chat(ctx, agent.ID, agenthub.ChatRequest{UserID: "u1", Message: "hi"})
package agenthub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client agenthub API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

// Option configures the client.
type Option func(*Client)

// WithTimeout sets the HTTP timeout. Chat calls wait on the upstream model, so keep this generous.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithHeader adds a header to every request (e.g. a reverse-proxy token).
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// NewClient creates a new agenthub client.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 120 * time.Second},
		headers:    map[string]string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("agenthub: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

// ---- agents ----

// CreateAgent POST /agents
func (c *Client) CreateAgent(ctx context.Context, in AgentInput) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPost, "/agents", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListAgents GET /agents
func (c *Client) ListAgents(ctx context.Context, page Page) ([]Agent, *Pagination, error) {
	var out struct {
		Agents     []Agent    `json:"agents"`
		Pagination Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/agents?"+page.query().Encode(), nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Agents, &out.Pagination, nil
}

// GetAgent GET /agents/{id}
func (c *Client) GetAgent(ctx context.Context, id uint) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodGet, agentPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAgent PUT /agents/{id}
func (c *Client) UpdateAgent(ctx context.Context, id uint, u AgentUpdate) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPut, agentPath(id, ""), u.body(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAgent DELETE /agents/{id}; the agent's logs and conversations go with it.
func (c *Client) DeleteAgent(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, agentPath(id, ""), nil, nil)
}

// StartAgent POST /agents/{id}/start
func (c *Client) StartAgent(ctx context.Context, id uint) (*Agent, error) {
	return c.lifecycle(ctx, id, "start")
}

// PauseAgent POST /agents/{id}/pause
func (c *Client) PauseAgent(ctx context.Context, id uint) (*Agent, error) {
	return c.lifecycle(ctx, id, "pause")
}

// StopAgent POST /agents/{id}/stop
func (c *Client) StopAgent(ctx context.Context, id uint) (*Agent, error) {
	return c.lifecycle(ctx, id, "stop")
}

func (c *Client) lifecycle(ctx context.Context, id uint, action string) (*Agent, error) {
	var out Agent
	if err := c.do(ctx, http.MethodPost, agentPath(id, action), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- logs ----

// AgentLogs GET /agents/{id}/logs, newest first
func (c *Client) AgentLogs(ctx context.Context, agentID uint, page Page) ([]AgentLog, *Pagination, error) {
	return c.logs(ctx, agentPath(agentID, "logs"), page)
}

// Logs GET /logs, across all agents
func (c *Client) Logs(ctx context.Context, page Page) ([]AgentLog, *Pagination, error) {
	return c.logs(ctx, "/logs", page)
}

func (c *Client) logs(ctx context.Context, path string, page Page) ([]AgentLog, *Pagination, error) {
	var out struct {
		Logs       []AgentLog `json:"logs"`
		Pagination Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, path+"?"+page.query().Encode(), nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Logs, &out.Pagination, nil
}

// ---- chat ----

// Chat POST /agents/{id}/chat
func (c *Client) Chat(ctx context.Context, agentID uint, req ChatRequest) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.do(ctx, http.MethodPost, agentPath(agentID, "chat"), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- models ----

// CreateModel POST /models
func (c *Client) CreateModel(ctx context.Context, in ModelInput) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodPost, "/models", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModels GET /models
func (c *Client) ListModels(ctx context.Context, page Page) ([]Model, *Pagination, error) {
	var out struct {
		Models     []Model    `json:"models"`
		Pagination Pagination `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/models?"+page.query().Encode(), nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Models, &out.Pagination, nil
}

// GetModel GET /models/{id}
func (c *Client) GetModel(ctx context.Context, id uint) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodGet, "/models/"+strconv.FormatUint(uint64(id), 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateModel PUT /models/{id}
func (c *Client) UpdateModel(ctx context.Context, id uint, in ModelInput) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodPut, "/models/"+strconv.FormatUint(uint64(id), 10), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModel DELETE /models/{id}; refused with 400 while any agent uses the model.
func (c *Client) DeleteModel(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, "/models/"+strconv.FormatUint(uint64(id), 10), nil, nil)
}

// ---- conversations ----

// ListConversations GET /conversations, most recently active first
func (c *Client) ListConversations(ctx context.Context, filter ConversationFilter, page Page) ([]Conversation, *Pagination, error) {
	q := page.query()
	if filter.AgentID != 0 {
		q.Set("agent_id", strconv.FormatUint(uint64(filter.AgentID), 10))
	}
	if filter.UserID != "" {
		q.Set("user_id", filter.UserID)
	}

	var out struct {
		Conversations []Conversation `json:"conversations"`
		Pagination    Pagination     `json:"pagination"`
	}
	if err := c.do(ctx, http.MethodGet, "/conversations?"+q.Encode(), nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Conversations, &out.Pagination, nil
}

// GetConversation GET /conversations/{id}
func (c *Client) GetConversation(ctx context.Context, id uint) (*Conversation, error) {
	var out Conversation
	if err := c.do(ctx, http.MethodGet, conversationPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenameConversation PUT /conversations/{id}
func (c *Client) RenameConversation(ctx context.Context, id uint, title string) (*Conversation, error) {
	var out Conversation
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPut, conversationPath(id, ""), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteConversation DELETE /conversations/{id}
func (c *Client) DeleteConversation(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, conversationPath(id, ""), nil, nil)
}

// Messages GET /conversations/{id}/messages, oldest first
func (c *Client) Messages(ctx context.Context, conversationID uint, page Page) ([]Message, *Pagination, error) {
	var out struct {
		Messages   []Message  `json:"messages"`
		Pagination Pagination `json:"pagination"`
	}
	path := conversationPath(conversationID, "messages") + "?" + page.query().Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, nil, err
	}
	return out.Messages, &out.Pagination, nil
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// ---- internals ----

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req, body != nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		msg = payload.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}

func (p Page) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

func agentPath(id uint, suffix string) string {
	p := "/agents/" + strconv.FormatUint(uint64(id), 10)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func conversationPath(id uint, suffix string) string {
	p := "/conversations/" + strconv.FormatUint(uint64(id), 10)
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}
