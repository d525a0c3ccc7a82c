package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv unsets every variable Load reads so the host environment
// does not leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG_FILE", "API_PORT", "WORKER_ENABLED", "BACKEND_API_KEY", "CORS_ALLOWED_ORIGINS",
		"REDIS_URL", "SUPABASE_URL", "SUPABASE_SERVICE_KEY", "SUPABASE_STORAGE_BUCKET",
		"LLM_PROVIDER", "OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_API_KEY", "GEMINI_MODEL",
		"SCRIPT_LANGUAGE", "TTS_PROVIDER", "ELEVENLABS_API_KEY", "ELEVENLABS_VOICE_ID",
		"ELEVENLABS_MODEL_ID", "OPENAI_TTS_MODEL", "OPENAI_TTS_VOICE", "OUTPUT_DIR", "AUDIO_DIR",
		"SCRIPT_DIR", "PODCAST_DIR", "TRANSITION_PATH", "FFMPEG_PATH", "FFPROBE_PATH",
		"SOURCE_URL_PREFIX", "MAX_CONCURRENT_JOBS", "JOB_STATUS_TTL_HOURS",
	}
	for _, k := range keys {
		t.Setenv(k, "")
	}
	// Run from an empty directory so a developer .env is not picked up.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ELEVENLABS_API_KEY", "el-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLMProvider != LLMProviderOpenAI {
		t.Errorf("expected openai provider, got %s", cfg.LLMProvider)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("expected gpt-4o-mini, got %s", cfg.OpenAIModel)
	}
	if cfg.TTSProvider != TTSProviderElevenLabs {
		t.Errorf("expected elevenlabs provider, got %s", cfg.TTSProvider)
	}
	if cfg.AudioDir != filepath.Join("generated", "audio") {
		t.Errorf("unexpected audio dir %s", cfg.AudioDir)
	}
	if cfg.ScriptDir != filepath.Join("generated", "script") {
		t.Errorf("unexpected script dir %s", cfg.ScriptDir)
	}
	if cfg.PodcastDir != filepath.Join("generated", "podcasts") {
		t.Errorf("unexpected podcast dir %s", cfg.PodcastDir)
	}
	if cfg.TransitionPath != "assets/mouse_click.flac" {
		t.Errorf("unexpected transition path %s", cfg.TransitionPath)
	}
	if cfg.PublishingEnabled() {
		t.Error("publishing must be disabled without Supabase credentials")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing openai key",
			env:     map[string]string{"ELEVENLABS_API_KEY": "el"},
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "missing gemini key",
			env:     map[string]string{"LLM_PROVIDER": "gemini", "ELEVENLABS_API_KEY": "el"},
			wantErr: "GEMINI_API_KEY",
		},
		{
			name:    "missing elevenlabs key",
			env:     map[string]string{"OPENAI_API_KEY": "sk"},
			wantErr: "ELEVENLABS_API_KEY",
		},
		{
			name:    "unknown tts provider",
			env:     map[string]string{"OPENAI_API_KEY": "sk", "TTS_PROVIDER": "polly"},
			wantErr: "unsupported TTS_PROVIDER",
		},
		{
			name: "openai for both",
			env:  map[string]string{"OPENAI_API_KEY": "sk", "TTS_PROVIDER": "OpenAI"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "podcaster.yaml")
	content := `
llm_provider: gemini
gemini_api_key: g-file
tts_provider: openai
openai_api_key: sk-file
output_dir: /data/out
max_concurrent_jobs: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.LLMProvider != LLMProviderGemini {
		t.Errorf("expected gemini from file, got %s", cfg.LLMProvider)
	}
	if cfg.GeminiModel != "gemini-2.5-pro" {
		t.Errorf("expected env override, got %s", cfg.GeminiModel)
	}
	if cfg.MaxConcurrentJobs != 4 {
		t.Errorf("expected 4 jobs, got %d", cfg.MaxConcurrentJobs)
	}
	if cfg.PodcastDir != filepath.Join("/data/out", "podcasts") {
		t.Errorf("unexpected podcast dir %s", cfg.PodcastDir)
	}
}

func TestLoadFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
