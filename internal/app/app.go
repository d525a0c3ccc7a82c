// Package app builds the podcast pipeline from configuration. Both the API
// server and the CLI go through Build so they run identical services.
package app

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bobarin/podcaster/internal/config"
	"github.com/bobarin/podcaster/internal/services"
	"github.com/bobarin/podcaster/internal/storage"
	"github.com/bobarin/podcaster/internal/worker"
	"github.com/bobarin/podcaster/pkg/executor"
)

type Pipeline struct {
	Fetcher   *services.NamuWikiFetcher
	Cleaner   *services.TextCleaner
	Assembler *services.PodcastAssembler
	FFmpeg    *services.FFmpegService
	Storage   *storage.Storage // nil when publishing is disabled
}

// Build wires every service of the pipeline. A missing transition asset is a
// configuration error.
func Build(ctx context.Context, cfg *config.Config) (*Pipeline, error) {
	if _, err := os.Stat(cfg.TransitionPath); err != nil {
		return nil, fmt.Errorf("transition asset %s: %w", cfg.TransitionPath, err)
	}

	llm, err := newChatModel(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tts, err := newTTS(cfg)
	if err != nil {
		return nil, err
	}

	planner, err := services.NewScriptPlanner(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create planner: %w", err)
	}

	ffmpegSvc := services.NewFFmpegService(executor.New(), cfg.FFmpegPath, cfg.FFprobePath)

	assembler := services.NewPodcastAssembler(
		planner,
		services.NewChapterScriptWriter(llm, cfg.ScriptLanguage),
		services.NewSpeechSynthesizer(tts, cfg.AudioDir),
		ffmpegSvc,
		services.AssemblerConfig{
			ScriptDir:      cfg.ScriptDir,
			PodcastDir:     cfg.PodcastDir,
			TransitionPath: cfg.TransitionPath,
		},
	)

	p := &Pipeline{
		Fetcher:   services.NewNamuWikiFetcher(cfg.SourceURLPrefix),
		Cleaner:   services.NewTextCleaner(),
		Assembler: assembler,
		FFmpeg:    ffmpegSvc,
	}

	if cfg.PublishingEnabled() {
		p.Storage = storage.New(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		log.Printf("[App] Publishing enabled (bucket: %s)", cfg.SupabaseStorageBucket)
	}

	return p, nil
}

// NewWorker returns a queue consumer running this pipeline.
func (p *Pipeline) NewWorker(store worker.JobStore) *worker.Worker {
	// Keep the interface nil rather than holding a nil *Storage.
	var publisher worker.Publisher
	if p.Storage != nil {
		publisher = p.Storage
	}
	return worker.New(store, p.Fetcher, p.Cleaner, p.Assembler, publisher)
}

func newChatModel(ctx context.Context, cfg *config.Config) (services.ChatModel, error) {
	switch cfg.LLMProvider {
	case config.LLMProviderOpenAI:
		log.Printf("[App] LLM provider: OpenAI (model: %s)", cfg.OpenAIModel)
		return services.NewOpenAIChat(cfg.OpenAIKey, cfg.OpenAIModel), nil
	case config.LLMProviderGemini:
		log.Printf("[App] LLM provider: Gemini (model: %s)", cfg.GeminiModel)
		chat, err := services.NewGeminiChat(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		return chat, nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.LLMProvider)
	}
}

func newTTS(cfg *config.Config) (services.TTSService, error) {
	switch cfg.TTSProvider {
	case config.TTSProviderElevenLabs:
		log.Printf("[App] TTS provider: ElevenLabs (voice: %s, model: %s)", cfg.ElevenLabsVoiceID, cfg.ElevenLabsModelID)
		return services.NewElevenLabsService(cfg.ElevenLabsKey, cfg.ElevenLabsVoiceID, cfg.ElevenLabsModelID), nil
	case config.TTSProviderOpenAI:
		log.Printf("[App] TTS provider: OpenAI (model: %s, voice: %s)", cfg.OpenAITTSModel, cfg.OpenAITTSVoice)
		return services.NewOpenAISpeechService(cfg.OpenAIKey, cfg.OpenAITTSModel, cfg.OpenAITTSVoice), nil
	default:
		return nil, fmt.Errorf("unsupported TTS provider %q", cfg.TTSProvider)
	}
}
