package llm

import (
	"strings"
	"testing"
	"time"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, b := range envBindings {
		t.Setenv(EnvPrefix+b.suffix, "")
	}
	t.Setenv(EnvPrefix+"LLM_TIMEOUT", "")
	for _, d := range discoveryOrder {
		t.Setenv(d.env, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PLACEPREP_LLM_PROVIDER", "openrouter")
	t.Setenv("PLACEPREP_OPENROUTER_API_KEY", "sk-or")
	t.Setenv("PLACEPREP_OPENROUTER_MODEL", "meta-llama/llama-3-8b")
	t.Setenv("PLACEPREP_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	if cfg.Provider != ProviderOpenRouter {
		t.Errorf("Provider = %q", cfg.Provider)
	}
	if cfg.OpenRouter.APIKey != "sk-or" || cfg.OpenRouter.Model != "meta-llama/llama-3-8b" {
		t.Errorf("OpenRouter = %+v", cfg.OpenRouter)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if cfg.Anthropic.Model != "claude-haiku" {
		t.Errorf("unset values should keep defaults, got %q", cfg.Anthropic.Model)
	}
}

func TestConfigFromEnv_BadTimeoutKeepsDefault(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PLACEPREP_LLM_TIMEOUT", "later")
	if got := ConfigFromEnv().Timeout; got != DefaultConfig().Timeout {
		t.Errorf("Timeout = %v, want default", got)
	}
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := DiscoverConfig(); ok {
		t.Fatal("expected no discovery with empty env")
	}

	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("OPENAI_API_KEY", "sk-oai")
	cfg, ok := DiscoverConfig()
	if !ok {
		t.Fatal("expected discovery")
	}
	// OpenAI is probed before Anthropic.
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-oai" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestResolveConfig(t *testing.T) {
	clearLLMEnv(t)
	if _, ok := ResolveConfig(); ok {
		t.Fatal("expected no config")
	}

	t.Setenv("GEMINI_API_KEY", "g-key")
	cfg, ok := ResolveConfig()
	if !ok || cfg.Provider != ProviderGemini {
		t.Fatalf("discovered cfg = %+v, ok = %v", cfg, ok)
	}

	t.Setenv("PLACEPREP_LLM_PROVIDER", "mock")
	cfg, ok = ResolveConfig()
	if !ok || cfg.Provider != ProviderMock {
		t.Fatalf("explicit cfg = %+v, ok = %v", cfg, ok)
	}
}

func TestConfig_ValidateMessageNamesVariable(t *testing.T) {
	err := Config{Provider: ProviderGemini}.Validate()
	if err == nil || !strings.Contains(err.Error(), "PLACEPREP_GEMINI_API_KEY") {
		t.Errorf("err = %v", err)
	}
}
