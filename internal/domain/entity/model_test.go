package entity

import (
	"errors"
	"testing"
	"time"
)

func validSpec() ModelSpec {
	return ModelSpec{
		Name:        "local-llama",
		Provider:    ProviderOllama,
		BaseURL:     "http://localhost:11434/v1",
		ModelName:   "llama3",
		Temperature: DefaultTemperature,
		TopP:        DefaultTopP,
	}
}

func TestNewModel_Defaults(t *testing.T) {
	spec := validSpec()
	spec.Provider = ""

	m, err := NewModel(spec)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	if m.Provider() != ProviderOpenAI {
		t.Errorf("provider = %s, want openai", m.Provider())
	}
	if m.MaxTokens() != DefaultMaxTokens {
		t.Errorf("max_tokens = %d, want %d", m.MaxTokens(), DefaultMaxTokens)
	}
	if m.HasAPIKey() {
		t.Error("no api key configured")
	}
}

func TestNewModel_RequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ModelSpec)
		want   error
	}{
		{"name", func(s *ModelSpec) { s.Name = " " }, ErrInvalidModelName},
		{"base_url", func(s *ModelSpec) { s.BaseURL = "" }, ErrInvalidModelBaseURL},
		{"model_name", func(s *ModelSpec) { s.ModelName = "" }, ErrInvalidModelID},
		{"provider", func(s *ModelSpec) { s.Provider = "anthropic" }, ErrInvalidModelProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)
			if _, err := NewModel(spec); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestModel_UpdateKeepsOldValuesOnError(t *testing.T) {
	m, _ := NewModel(validSpec())

	bad := m.Spec()
	bad.BaseURL = ""
	if err := m.Update(bad); err == nil {
		t.Fatal("expected validation error")
	}
	if m.BaseURL() != validSpec().BaseURL {
		t.Fatal("failed update must not change the model")
	}
}

func TestModel_ConfigKeyFollowsRevision(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := ReconstructModel(3, validSpec(), created, created)
	before := m.Config()

	spec := m.Spec()
	spec.Temperature = 0.2
	if err := m.Update(spec); err != nil {
		t.Fatalf("Update: %v", err)
	}
	after := m.Config()

	if before.CacheKey() == after.CacheKey() {
		t.Fatal("cache key must change after an update")
	}
	if after.ModelID() != 3 || after.Model() != "llama3" || after.Temperature() != 0.2 {
		t.Fatalf("unexpected config: %+v", after)
	}
}
