package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngoclaw/agenthub/internal/application/usecase"
	"github.com/ngoclaw/agenthub/internal/domain/entity"
	apperrors "github.com/ngoclaw/agenthub/pkg/errors"
)

func TestAgentUseCase_CreateAndDuplicate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	a := h.createAgent(t, "A1", nil)
	assert.Equal(t, entity.AgentStatusInactive, a.Status())
	assert.Equal(t, []string{"Agent registered: A1"}, h.logMessages(t, a.ID()))

	_, err := h.agentUC.Create(ctx, usecase.CreateAgentCommand{Name: "A1"})
	require.True(t, apperrors.IsAlreadyExists(err), "got %v", err)

	p, err := h.agentUC.List(ctx, page(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.Meta.Total)
}

func TestAgentUseCase_CreateValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.agentUC.Create(ctx, usecase.CreateAgentCommand{Name: "  "})
	assert.True(t, apperrors.IsInvalidInput(err), "blank name: %v", err)

	_, err = h.agentUC.Create(ctx, usecase.CreateAgentCommand{Name: "x", Status: "sleeping"})
	assert.True(t, apperrors.IsInvalidInput(err), "bad status: %v", err)

	_, err = h.agentUC.Create(ctx, usecase.CreateAgentCommand{Name: "x", ModelID: ptr(uint(42))})
	assert.True(t, apperrors.IsNotFound(err), "unknown model: %v", err)
}

func TestAgentUseCase_UpdatePartial(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", nil)
	h.createAgent(t, "B1", nil)

	updated, err := h.agentUC.Update(ctx, a.ID(), usecase.UpdateAgentCommand{
		Description: ptr("Updated test agent"),
		Status:      ptr("running"),
		ModelIDSet:  true,
		ModelID:     ptr(m.ID()),
	})
	require.NoError(t, err)
	assert.Equal(t, "A1", updated.Name())
	assert.Equal(t, "Updated test agent", updated.Description())
	assert.Equal(t, entity.AgentStatusRunning, updated.Status())
	require.NotNil(t, updated.ModelID())
	assert.Contains(t, h.logMessages(t, a.ID()), "Agent status changed to: running")

	// 未提交 status 不写状态日志
	before := len(h.logMessages(t, a.ID()))
	_, err = h.agentUC.Update(ctx, a.ID(), usecase.UpdateAgentCommand{ModelIDSet: true})
	require.NoError(t, err)
	assert.Len(t, h.logMessages(t, a.ID()), before)

	reloaded, err := h.agentUC.Get(ctx, a.ID())
	require.NoError(t, err)
	assert.Nil(t, reloaded.ModelID(), "explicit null clears model_id")

	_, err = h.agentUC.Update(ctx, a.ID(), usecase.UpdateAgentCommand{Name: ptr("B1")})
	assert.True(t, apperrors.IsAlreadyExists(err), "rename to existing: %v", err)

	_, err = h.agentUC.Update(ctx, a.ID(), usecase.UpdateAgentCommand{Status: ptr("zombie")})
	assert.True(t, apperrors.IsInvalidInput(err), "bad status: %v", err)

	_, err = h.agentUC.Update(ctx, 999, usecase.UpdateAgentCommand{})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAgentUseCase_TransitionsAlwaysLog(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	a := h.createAgent(t, "A1", nil)

	steps := []struct {
		run  func(context.Context, uint) (*entity.Agent, error)
		want entity.AgentStatus
		log  string
	}{
		{h.agentUC.Start, entity.AgentStatusRunning, "Agent started"},
		{h.agentUC.Start, entity.AgentStatusRunning, "Agent started"},
		{h.agentUC.Stop, entity.AgentStatusStopped, "Agent stopped"},
		{h.agentUC.Pause, entity.AgentStatusPaused, "Agent paused"},
	}

	count := len(h.logMessages(t, a.ID()))
	for _, step := range steps {
		got, err := step.run(ctx, a.ID())
		require.NoError(t, err)
		assert.Equal(t, step.want, got.Status())

		logs := h.logMessages(t, a.ID())
		require.Len(t, logs, count+1, "exactly one log per transition")
		assert.Equal(t, step.log, logs[0])
		count++
	}

	_, err := h.agentUC.Start(ctx, 404)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAgentUseCase_DeleteCascades(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	m := h.createModel(t, "local")
	a := h.createAgent(t, "A1", ptr(m.ID()))
	other := h.createAgent(t, "B1", ptr(m.ID()))

	res, err := h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: a.ID(), UserID: "u1", Message: "hello"})
	require.NoError(t, err)
	_, err = h.chatUC.Execute(ctx, usecase.ChatCommand{AgentID: other.ID(), UserID: "u1", Message: "hi"})
	require.NoError(t, err)

	require.NoError(t, h.agentUC.Delete(ctx, a.ID()))

	_, err = h.agentUC.Get(ctx, a.ID())
	assert.True(t, apperrors.IsNotFound(err))
	_, err = h.convUC.Get(ctx, res.ConversationID)
	assert.True(t, apperrors.IsNotFound(err))

	_, total, err := h.messages.ListByConversation(ctx, res.ConversationID, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total, "messages of the deleted agent must be removed")

	all, err := h.logUC.ListAll(ctx, page(1, 100))
	require.NoError(t, err)
	for _, l := range all.Items {
		assert.NotEqual(t, a.ID(), l.AgentID(), "orphaned log %q", l.Message())
	}

	// 其他代理的数据保持不变
	convs, err := h.convUC.List(ctx, repositoryFilter(other.ID()), page(1, 10))
	require.NoError(t, err)
	assert.EqualValues(t, 1, convs.Meta.Total)

	assert.True(t, apperrors.IsNotFound(h.agentUC.Delete(ctx, a.ID())))
}
