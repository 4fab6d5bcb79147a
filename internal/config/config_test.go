package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("QUIZ_GENERATION_TIMEOUT", "")

	cfg := Load()

	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want 8080", cfg.ServerPort)
	}
	if cfg.StoreBackend != "sql" {
		t.Errorf("StoreBackend = %q, want sql", cfg.StoreBackend)
	}
	if cfg.QuizGenerationTimeout != 10*time.Second {
		t.Errorf("QuizGenerationTimeout = %s, want 10s", cfg.QuizGenerationTimeout)
	}
	if cfg.AssistantLatency != 500*time.Millisecond {
		t.Errorf("AssistantLatency = %s, want 500ms", cfg.AssistantLatency)
	}
}

func TestGetDuration(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  time.Duration
	}{
		{name: "unset uses default", value: "", want: time.Minute},
		{name: "valid duration", value: "750ms", want: 750 * time.Millisecond},
		{name: "invalid falls back", value: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getDuration("TEST_DURATION", time.Minute); got != tt.want {
				t.Errorf("getDuration() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	if got := getInt("TEST_INT", 1); got != 42 {
		t.Errorf("getInt() = %d, want 42", got)
	}

	t.Setenv("TEST_INT", "many")
	if got := getInt("TEST_INT", 7); got != 7 {
		t.Errorf("getInt() with invalid value = %d, want 7", got)
	}
}
