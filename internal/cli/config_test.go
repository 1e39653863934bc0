package cli

import (
	"testing"

	"github.com/pagewright/pagewright/internal/core/runtime"
)

func clearProviderEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "AZURE_OPENAI_API_KEY",
		"PAGEWRIGHT_PROVIDER", "PAGEWRIGHT_BRANCH", "PAGEWRIGHT_AUTHOR_NAME",
		"GITHUB_TOKEN", "PAGEWRIGHT_REPO",
	} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvPicksOpenAI(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := configFromEnv()
	if cfg.Runtime.Provider != runtime.ProviderOpenAI || cfg.Runtime.APIKey != "sk-test" {
		t.Fatalf("unexpected runtime config: %+v", cfg.Runtime)
	}
}

func TestConfigFromEnvPicksAnthropicWhenOnlyKey(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := configFromEnv()
	if cfg.Runtime.Provider != runtime.ProviderAnthropic {
		t.Fatalf("expected anthropic, got %q", cfg.Runtime.Provider)
	}
}

func TestConfigFromEnvProviderOverride(t *testing.T) {
	clearProviderEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")
	t.Setenv("PAGEWRIGHT_PROVIDER", "anthropic")

	cfg := configFromEnv()
	if cfg.Runtime.Provider != runtime.ProviderAnthropic || cfg.Runtime.APIKey != "sk-ant" {
		t.Fatalf("override ignored: %+v", cfg.Runtime)
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearProviderEnv(t)

	cfg := configFromEnv()
	if cfg.Branch != "main" {
		t.Fatalf("unexpected branch default: %q", cfg.Branch)
	}
	if cfg.AuthorName != "Pagewright" {
		t.Fatalf("unexpected author default: %q", cfg.AuthorName)
	}
}

func TestRequireGit(t *testing.T) {
	clearProviderEnv(t)

	cfg := configFromEnv()
	if err := cfg.requireGit(); err == nil {
		t.Fatalf("expected error with no git configuration")
	}

	cfg.GitHubToken = "tok"
	if err := cfg.requireGit(); err == nil {
		t.Fatalf("expected error with no repository URL")
	}

	cfg.RepoURL = "https://github.com/octocat/site"
	if err := cfg.requireGit(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
