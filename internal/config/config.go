package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"

	TTSProviderElevenLabs = "elevenlabs"
	TTSProviderOpenAI     = "openai"
)

type Config struct {
	// Server
	APIPort            string `yaml:"api_port"`
	WorkerEnabled      bool   `yaml:"worker_enabled"`
	BackendAPIKey      string `yaml:"backend_api_key"`      // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string `yaml:"cors_allowed_origins"` // Comma-separated allowed origins (empty = *, dev mode)

	// Redis
	RedisURL string `yaml:"redis_url"`

	// Supabase (optional publishing of finished podcasts)
	SupabaseURL           string `yaml:"supabase_url"`
	SupabaseServiceKey    string `yaml:"supabase_service_key"`
	SupabaseStorageBucket string `yaml:"supabase_storage_bucket"`

	// Script generation
	LLMProvider    string `yaml:"llm_provider"` // "openai" or "gemini"
	OpenAIKey      string `yaml:"openai_api_key"`
	OpenAIModel    string `yaml:"openai_model"`
	GeminiKey      string `yaml:"gemini_api_key"`
	GeminiModel    string `yaml:"gemini_model"`
	ScriptLanguage string `yaml:"script_language"`

	// Speech synthesis
	TTSProvider       string `yaml:"tts_provider"` // "elevenlabs" or "openai"
	ElevenLabsKey     string `yaml:"elevenlabs_api_key"`
	ElevenLabsVoiceID string `yaml:"elevenlabs_voice_id"`
	ElevenLabsModelID string `yaml:"elevenlabs_model_id"`
	OpenAITTSModel    string `yaml:"openai_tts_model"`
	OpenAITTSVoice    string `yaml:"openai_tts_voice"`

	// Output layout
	OutputDir  string `yaml:"output_dir"`
	AudioDir   string `yaml:"audio_dir"`
	ScriptDir  string `yaml:"script_dir"`
	PodcastDir string `yaml:"podcast_dir"`

	// Audio
	TransitionPath string `yaml:"transition_path"` // Sound played between chapters
	FFmpegPath     string `yaml:"ffmpeg_path"`
	FFprobePath    string `yaml:"ffprobe_path"`

	// Source
	SourceURLPrefix string `yaml:"source_url_prefix"`

	// Worker
	MaxConcurrentJobs int `yaml:"max_concurrent_jobs"`
	JobStatusTTLHours int `yaml:"job_status_ttl_hours"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		APIPort:               "8080",
		WorkerEnabled:         true,
		RedisURL:              "redis://localhost:6379",
		SupabaseStorageBucket: "podcasts",
		LLMProvider:           LLMProviderOpenAI,
		OpenAIModel:           "gpt-4o-mini",
		GeminiModel:           "gemini-2.5-flash",
		ScriptLanguage:        "Korean",
		TTSProvider:           TTSProviderElevenLabs,
		ElevenLabsVoiceID:     "DMkRitQrfpiddSQT5adl",
		ElevenLabsModelID:     "eleven_multilingual_v2",
		OpenAITTSModel:        "tts-1",
		OpenAITTSVoice:        "nova",
		OutputDir:             "generated",
		TransitionPath:        "assets/mouse_click.flac",
		FFmpegPath:            "ffmpeg",
		FFprobePath:           "ffprobe",
		SourceURLPrefix:       "https://namu.wiki/",
		MaxConcurrentJobs:     2,
		JobStatusTTLHours:     24,
	}
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDirDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile overlays values from a YAML file on top of the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIPort = getEnv("API_PORT", c.APIPort)
	c.WorkerEnabled = getEnvBool("WORKER_ENABLED", c.WorkerEnabled)
	c.BackendAPIKey = getEnv("BACKEND_API_KEY", c.BackendAPIKey)
	c.CorsAllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.CorsAllowedOrigins)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.SupabaseURL = getEnv("SUPABASE_URL", c.SupabaseURL)
	c.SupabaseServiceKey = getEnv("SUPABASE_SERVICE_KEY", c.SupabaseServiceKey)
	c.SupabaseStorageBucket = getEnv("SUPABASE_STORAGE_BUCKET", c.SupabaseStorageBucket)
	c.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", c.LLMProvider))
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIModel = getEnv("OPENAI_MODEL", c.OpenAIModel)
	c.GeminiKey = getEnv("GEMINI_API_KEY", c.GeminiKey)
	c.GeminiModel = getEnv("GEMINI_MODEL", c.GeminiModel)
	c.ScriptLanguage = getEnv("SCRIPT_LANGUAGE", c.ScriptLanguage)
	c.TTSProvider = strings.ToLower(getEnv("TTS_PROVIDER", c.TTSProvider))
	c.ElevenLabsKey = getEnv("ELEVENLABS_API_KEY", c.ElevenLabsKey)
	c.ElevenLabsVoiceID = getEnv("ELEVENLABS_VOICE_ID", c.ElevenLabsVoiceID)
	c.ElevenLabsModelID = getEnv("ELEVENLABS_MODEL_ID", c.ElevenLabsModelID)
	c.OpenAITTSModel = getEnv("OPENAI_TTS_MODEL", c.OpenAITTSModel)
	c.OpenAITTSVoice = getEnv("OPENAI_TTS_VOICE", c.OpenAITTSVoice)
	c.OutputDir = getEnv("OUTPUT_DIR", c.OutputDir)
	c.AudioDir = getEnv("AUDIO_DIR", c.AudioDir)
	c.ScriptDir = getEnv("SCRIPT_DIR", c.ScriptDir)
	c.PodcastDir = getEnv("PODCAST_DIR", c.PodcastDir)
	c.TransitionPath = getEnv("TRANSITION_PATH", c.TransitionPath)
	c.FFmpegPath = getEnv("FFMPEG_PATH", c.FFmpegPath)
	c.FFprobePath = getEnv("FFPROBE_PATH", c.FFprobePath)
	c.SourceURLPrefix = getEnv("SOURCE_URL_PREFIX", c.SourceURLPrefix)
	c.MaxConcurrentJobs = getEnvInt("MAX_CONCURRENT_JOBS", c.MaxConcurrentJobs)
	c.JobStatusTTLHours = getEnvInt("JOB_STATUS_TTL_HOURS", c.JobStatusTTLHours)
}

// applyDirDefaults places unset output directories under OutputDir.
func (c *Config) applyDirDefaults() {
	if c.AudioDir == "" {
		c.AudioDir = filepath.Join(c.OutputDir, "audio")
	}
	if c.ScriptDir == "" {
		c.ScriptDir = filepath.Join(c.OutputDir, "script")
	}
	if c.PodcastDir == "" {
		c.PodcastDir = filepath.Join(c.OutputDir, "podcasts")
	}
}

// Validate checks that the selected providers are usable.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case LLMProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case LLMProviderGemini:
		if c.GeminiKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unsupported LLM_PROVIDER %q (want openai or gemini)", c.LLMProvider)
	}

	switch c.TTSProvider {
	case TTSProviderElevenLabs:
		if c.ElevenLabsKey == "" {
			return fmt.Errorf("ELEVENLABS_API_KEY is required when TTS_PROVIDER=elevenlabs")
		}
	case TTSProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TTS_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unsupported TTS_PROVIDER %q (want elevenlabs or openai)", c.TTSProvider)
	}

	if c.TransitionPath == "" {
		return fmt.Errorf("TRANSITION_PATH is required")
	}

	if c.MaxConcurrentJobs < 1 {
		c.MaxConcurrentJobs = 1
	}
	if c.JobStatusTTLHours < 1 {
		c.JobStatusTTLHours = 24
	}

	return nil
}

// PublishingEnabled reports whether finished podcasts are uploaded to Supabase.
func (c *Config) PublishingEnabled() bool {
	return c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}
