package entity

import (
	"errors"
	"testing"
)

func TestNewAgent_Defaults(t *testing.T) {
	agent, err := NewAgent("  A1  ", "", "", nil)
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	if agent.Name() != "A1" {
		t.Errorf("name = %q, want trimmed %q", agent.Name(), "A1")
	}
	if agent.Status() != AgentStatusInactive {
		t.Errorf("status = %q, want inactive", agent.Status())
	}
	if agent.HasModel() {
		t.Error("new agent without model_id should not have a model")
	}
}

func TestNewAgent_Validation(t *testing.T) {
	if _, err := NewAgent("   ", "", "", nil); !errors.Is(err, ErrInvalidAgentName) {
		t.Errorf("blank name: got %v", err)
	}
	if _, err := NewAgent("a", "", "sleeping", nil); !errors.Is(err, ErrInvalidAgentStatus) {
		t.Errorf("bad status: got %v", err)
	}
}

func TestAgent_ModelIDIsCopied(t *testing.T) {
	id := uint(7)
	agent, _ := NewAgent("a", "", "", &id)
	id = 9

	got := agent.ModelID()
	if got == nil || *got != 7 {
		t.Fatalf("ModelID = %v, want 7", got)
	}
	*got = 11
	if *agent.ModelID() != 7 {
		t.Fatal("mutating the returned pointer must not change the agent")
	}

	agent.AssignModel(nil)
	if agent.HasModel() {
		t.Fatal("AssignModel(nil) should clear the model")
	}
}

func TestAgent_TransitionsAreUnrestricted(t *testing.T) {
	agent, _ := NewAgent("a", "", AgentStatusStopped, nil)

	agent.Pause()
	if agent.Status() != AgentStatusPaused {
		t.Fatalf("stopped -> paused: got %s", agent.Status())
	}
	agent.Start()
	if agent.Status() != AgentStatusRunning {
		t.Fatalf("paused -> running: got %s", agent.Status())
	}
	agent.Start()
	if agent.Status() != AgentStatusRunning {
		t.Fatalf("running -> running: got %s", agent.Status())
	}
	agent.Stop()
	if agent.Status() != AgentStatusStopped {
		t.Fatalf("running -> stopped: got %s", agent.Status())
	}
}

func TestAgent_SetStatus(t *testing.T) {
	agent, _ := NewAgent("a", "", "", nil)
	before := agent.UpdatedAt()

	changed, err := agent.SetStatus(AgentStatusRunning)
	if err != nil || !changed {
		t.Fatalf("SetStatus(running) = %v, %v", changed, err)
	}
	if agent.UpdatedAt().Before(before) {
		t.Error("updated_at must not go backwards")
	}

	changed, err = agent.SetStatus(AgentStatusRunning)
	if err != nil || changed {
		t.Fatalf("same status should report unchanged, got %v, %v", changed, err)
	}

	if _, err := agent.SetStatus("bogus"); !errors.Is(err, ErrInvalidAgentStatus) {
		t.Fatalf("expected ErrInvalidAgentStatus, got %v", err)
	}
	if agent.Status() != AgentStatusRunning {
		t.Fatal("failed SetStatus must keep the old status")
	}
}

func TestParseAgentStatus(t *testing.T) {
	for _, s := range AgentStatuses() {
		got, err := ParseAgentStatus(string(s))
		if err != nil || got != s {
			t.Errorf("ParseAgentStatus(%q) = %q, %v", s, got, err)
		}
	}
	if _, err := ParseAgentStatus("RUNNING"); err == nil {
		t.Error("status parsing is case sensitive")
	}
}
