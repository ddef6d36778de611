package usecase_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/internal/domain/entity"
	"github.com/ngoclaw/agenthub/internal/domain/repository"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

func repositoryFilter(agentID uint) repository.ConversationFilter {
	return repository.ConversationFilter{AgentID: agentID}
}

func TestChatUseCase_NewConversation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", ptr(m.ID()))

	msg := strings.Repeat("long question ", 10)
	res, err := h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: a.ID(), UserID: "u1", Message: msg})
	require.NoError(t, err)
	assert.Equal(t, "pong", res.Reply)
	assert.NotZero(t, res.ConversationID)
	assert.False(t, res.Timestamp.IsZero())

	conv, err := h.convUC.Get(ctx, res.ConversationID)
	require.NoError(t, err)
	assert.Equal(t, msg[:50], conv.Title())
	assert.Equal(t, "u1", conv.UserID())

	msgs, err := h.convUC.Messages(ctx, conv.ID(), page(1, 50))
	require.NoError(t, err)
	require.Len(t, msgs.Items, 2)
	assert.Equal(t, entity.RoleUser, msgs.Items[0].Role())
	assert.Equal(t, msg, msgs.Items[0].Content())
	assert.Equal(t, entity.RoleAssistant, msgs.Items[1].Role())
	assert.Equal(t, "pong", msgs.Items[1].Content())

	req := h.llm.lastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "llama3", req.Model)
	assert.Equal(t, entity.DefaultMaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)

	assert.Contains(t, h.logMessages(t, a.ID()), fmt.Sprintf("Chat reply generated for conversation %d", conv.ID()))
}

func TestChatUseCase_ContinuesConversationWithBoundedHistory(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", ptr(m.ID()))

	first, err := h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: a.ID(), UserID: "u1", Message: "turn 0"})
	require.NoError(t, err)

	for i := 1; i <= 12; i++ {
		res, err := h.chatUC.Execute(ctx, usecase.ChatCommand{
			AgentID:        a.ID(),
			UserID:         "u1",
			Message:        fmt.Sprintf("turn %d", i),
			ConversationID: ptr(first.ConversationID),
		})
		require.NoError(t, err)
		assert.Equal(t, first.ConversationID, res.ConversationID)
	}

	req := h.llm.lastRequest()
	require.Len(t, req.Messages, 20, "history is capped at 20 messages including the new one")
	assert.Equal(t, "turn 12", req.Messages[19].Content)
	assert.Equal(t, "user", req.Messages[19].Role)
	assert.Equal(t, "assistant", req.Messages[18].Role)

	msgs, err := h.convUC.Messages(ctx, first.ConversationID, page(1, 100))
	require.NoError(t, err)
	assert.EqualValues(t, 26, msgs.Meta.Total)

	convs, err := h.convUC.List(ctx, repositoryFilter(a.ID()), page(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, convs.Meta.Total, "no extra conversation is created")
}

func TestChatUseCase_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", ptr(m.ID()))
	bare := h.createAgent(t, "bare", nil)
	b := h.createAgent(t, "B1", ptr(m.ID()))

	other, err := h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: b.ID(), UserID: "u", Message: "x"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		cmd    usecase.ChatCommand
		status int
	}{
		{"missing message", usecase.ChatCommand{AgentID: a.ID(), UserID: "u"}, 400},
		{"missing user", usecase.ChatCommand{AgentID: a.ID(), Message: "hi"}, 400},
		{"unknown agent", usecase.ChatCommand{AgentID: 999, UserID: "u", Message: "hi"}, 404},
		{"agent without model", usecase.ChatCommand{AgentID: bare.ID(), UserID: "u", Message: "hi"}, 500},
		{"unknown conversation", usecase.ChatCommand{AgentID: a.ID(), UserID: "u", Message: "hi", ConversationID: ptr(uint(999))}, 500},
		{"foreign conversation", usecase.ChatCommand{AgentID: a.ID(), UserID: "u", Message: "hi", ConversationID: ptr(other.ConversationID)}, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.chatUC.Execute(ctx, tt.cmd)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperrors.HTTPStatus(err), "err = %v", err)
		})
	}
}

func TestChatUseCase_FailureTextIsVerbatim(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", ptr(m.ID()))

	_, err := h.chatUC.Execute(ctx, usecase.ChatCommand{
		AgentID: a.ID(), UserID: "u", Message: "hi", ConversationID: ptr(uint(999)),
	})
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.Equal(t, "Conversation not found", apperrors.Message(err))

	logs := h.logMessages(t, a.ID())
	require.NotEmpty(t, logs)
	assert.Equal(t, "Chat failed: Conversation not found", logs[0])
}

func TestChatUseCase_UpstreamFailurePersistsNothing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", ptr(m.ID()))
	h.llm.err = errUpstream

	_, err := h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: a.ID(), UserID: "u1", Message: "hello"})
	require.ErrorIs(t, err, errUpstream)
	assert.Equal(t, 500, apperrors.HTTPStatus(err))
	assert.Contains(t, apperrors.Message(err), "connection refused")

	convs, err := h.convUC.List(ctx, repositoryFilter(a.ID()), page(1, 10))
	require.NoError(t, err)
	assert.Zero(t, convs.Meta.Total, "no conversation may be left behind")

	logs := h.logMessages(t, a.ID())
	require.NotEmpty(t, logs)
	assert.Equal(t, "Chat failed: connection refused", logs[0])

	p, err := h.logUC.ListByAgent(ctx, a.ID(), page(1, 1))
	require.NoError(t, err)
	assert.Equal(t, entity.LogLevelError, p.Items[0].Level())
}

func TestChatUseCase_UsesModelParameters(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	m, err := h.modelUC.Create(ctx, usecase.ModelFields{
		Name:        ptr("tuned"),
		BaseURL:     ptr("https://api.example.com/v1"),
		ModelName:   ptr("gpt-4o"),
		MaxTokens:   ptr(300),
		Temperature: ptr(0.1),
		TopP:        ptr(0.5),
	})
	require.NoError(t, err)
	a := h.createAgent(t, "A1", ptr(m.ID()))

	_, err = h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: a.ID(), UserID: "u", Message: "hi"})
	require.NoError(t, err)

	req := h.llm.lastRequest()
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, 300, req.MaxTokens)
	assert.InDelta(t, 0.1, req.Temperature, 1e-9)
	assert.InDelta(t, 0.5, req.TopP, 1e-9)

	cfg := h.llm.configs[len(h.llm.configs)-1]
	assert.Equal(t, "https://api.example.com/v1", cfg.BaseURL())
	assert.Equal(t, m.ID(), cfg.ModelID())
}
