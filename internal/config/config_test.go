package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"recut/internal/config"
)

func TestDefaultValidates(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Speech.TimeoutSeconds == 0 {
		t.Fatal("expected default speech timeout")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"
api_bind = "127.0.0.1:0"

[speech]
base_url = "http://speech.local/v1/"

[render]
base_url = "http://farm.local/v2"
submit_timeout_seconds = 5
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be detected")
	}
	if cfg.Speech.BaseURL != "http://speech.local/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Speech.BaseURL)
	}
	if cfg.Render.SubmitTimeoutSeconds != 5 {
		t.Fatalf("expected submit timeout 5, got %d", cfg.Render.SubmitTimeoutSeconds)
	}
	if cfg.Render.PollTimeoutSeconds == 0 {
		t.Fatal("expected poll timeout default applied")
	}
}

func TestEnvOverridesApply(t *testing.T) {
	t.Setenv("RECUT_SPEECH_API_KEY", "speech-secret")
	t.Setenv("RECUT_LLM_API_KEY", "llm-secret")

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Speech.APIKey != "speech-secret" {
		t.Fatalf("expected speech key from env, got %q", cfg.Speech.APIKey)
	}
	if cfg.LLM.APIKey != "llm-secret" {
		t.Fatalf("expected llm key from env, got %q", cfg.LLM.APIKey)
	}
}

func TestValidateRejectsBadLogging(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unsupported log format")
	}
}

func TestFillerWordsFallsBackToDefaults(t *testing.T) {
	cfg := config.Default()
	words := cfg.FillerWords()
	if len(words) == 0 {
		t.Fatal("expected default filler vocabulary")
	}
	cfg.Compiler.FillerWords = []string{"basically"}
	words = cfg.FillerWords()
	if len(words) != 1 || words[0] != "basically" {
		t.Fatalf("expected configured vocabulary, got %v", words)
	}
}
