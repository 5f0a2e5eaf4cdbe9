package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	cfg, err := LoadConfig(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Provider != "openai" {
		t.Fatalf("expected openai default, got %q", cfg.LLM.Provider)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Fatalf("expected key from environment, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Models[TierStandard].Name != "gpt-35-turbo" || cfg.LLM.Models[TierAdvanced].Name != "gpt-4o" {
		t.Fatalf("unexpected model tiers: %+v", cfg.LLM.Models)
	}
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Fatalf("expected 10s fetch timeout, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.PageCharLimit != 2000 || cfg.Fetch.ContextCharLimit != 4000 {
		t.Fatalf("unexpected char limits: %+v", cfg.Fetch)
	}
	if cfg.Search.MaxResults != 3 || len(cfg.Search.URLs) != 3 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Fatalf("expected sqlite backend default, got %q", cfg.Storage.Backend)
	}
}

func TestLoadConfigFileValues(t *testing.T) {
	path := writeConfig(t, `
llm:
  provider: azure
  api_key: file-key
  endpoint: https://example.openai.azure.com/
  models:
    standard:
      name: gpt-35-turbo
    advanced:
      name: gpt-4o
storage:
  backend: redis
  redis:
    host: cache.internal
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Provider != "azure" || cfg.LLM.APIKey != "file-key" {
		t.Fatalf("file values not applied: %+v", cfg.LLM)
	}
	if cfg.Storage.Backend != "redis" || cfg.Storage.Redis.Addr() != "cache.internal:6379" {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("STACKR_FETCH_PAGE_CHAR_LIMIT", "1500")
	cfg, err := LoadConfig(writeConfig(t, "{}"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Fetch.PageCharLimit != 1500 {
		t.Fatalf("env override not applied, got %d", cfg.Fetch.PageCharLimit)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "llm:\n  provider: cohere\n")); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestLoadConfigAzureEnvCredentials(t *testing.T) {
	t.Setenv("AZURE_OPENAI_KEY", "az-secret")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://corp.openai.azure.com/")
	cfg, err := LoadConfig(writeConfig(t, "llm:\n  provider: azure\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "az-secret" || cfg.LLM.Endpoint != "https://corp.openai.azure.com/" {
		t.Fatalf("azure env credentials not applied: %+v", cfg.LLM)
	}
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
