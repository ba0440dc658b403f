package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatalf("config %q should not exist", path)
	}
	if cfg.Pipeline.BlockMaxWords != defaultBlockMaxWords {
		t.Fatalf("expected default block_max_words, got %d", cfg.Pipeline.BlockMaxWords)
	}
	if cfg.Pipeline.MaxWorkers != defaultMaxWorkers {
		t.Fatalf("expected default max_workers, got %d", cfg.Pipeline.MaxWorkers)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[server]
bind = "127.0.0.1:9999"

[pipeline]
block_max_words = 120
soft_limit_ratio = 0.5

[llm.azure]
api_key = "secret"
endpoint = "https://example.openai.azure.com"
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("config file should be detected")
	}
	if cfg.Server.Bind != "127.0.0.1:9999" {
		t.Fatalf("bind override lost: %q", cfg.Server.Bind)
	}
	if cfg.Pipeline.BlockMaxWords != 120 {
		t.Fatalf("block_max_words override lost: %d", cfg.Pipeline.BlockMaxWords)
	}
	// Untouched sections keep their defaults.
	if cfg.Pipeline.MaxWorkers != defaultMaxWorkers {
		t.Fatalf("max_workers default lost: %d", cfg.Pipeline.MaxWorkers)
	}
	azure, ok := cfg.Provider("azure")
	if !ok || azure.APIKey != "secret" {
		t.Fatalf("azure provider defaults missing: %+v", azure)
	}
	if azure.APIVersion != defaultAzureAPIVersion {
		t.Fatalf("azure api_version default lost: %q", azure.APIVersion)
	}
}

func TestLoadHonorsEnvConfigPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	contents := "[server]\nbind = \"127.0.0.1:7777\"\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigPath, path)

	cfg, resolved, exists, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected env config %q to resolve, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Server.Bind != "127.0.0.1:7777" {
		t.Fatalf("env config not applied: %q", cfg.Server.Bind)
	}
}

func TestLoadRejectsInvalidPipeline(t *testing.T) {
	cases := []string{
		"[pipeline]\nblock_max_words = 0\n",
		"[pipeline]\nsoft_limit_ratio = 1.5\n",
		"[pipeline]\nmax_workers = -1\n",
	}
	for _, contents := range cases {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, _, _, err := Load(path); err == nil {
			t.Fatalf("expected validation error for %q", contents)
		}
	}
}

func TestProviderLookup(t *testing.T) {
	cfg := Default()
	if _, ok := cfg.Provider("azure"); !ok {
		t.Fatal("azure should be a known provider")
	}
	if _, ok := cfg.Provider("Google"); !ok {
		t.Fatal("provider lookup should be case-insensitive")
	}
	if _, ok := cfg.Provider("anthropic"); ok {
		t.Fatal("unknown providers must not resolve")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[pipeline]") {
		t.Fatal("sample config missing pipeline section")
	}
	// The sample must itself be loadable.
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}

func TestLockPath(t *testing.T) {
	cfg := Default()
	cfg.Server.LogDir = "/tmp/reelsmith-test"
	if got := cfg.LockPath(); got != "/tmp/reelsmith-test/reelsmithd.lock" {
		t.Fatalf("unexpected lock path %q", got)
	}
}
