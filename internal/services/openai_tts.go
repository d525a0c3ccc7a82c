package services

import (
	"context"
	"fmt"
	"io"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAISpeechService synthesizes speech with the OpenAI audio API and
// returns the whole file as a single buffer.
type OpenAISpeechService struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
}

// Ensure OpenAISpeechService implements TTSService at compile time.
var _ TTSService = (*OpenAISpeechService)(nil)

func NewOpenAISpeechService(apiKey, model, voice string) *OpenAISpeechService {
	return NewOpenAISpeechServiceWithConfig(openai.DefaultConfig(apiKey), model, voice)
}

func NewOpenAISpeechServiceWithConfig(cfg openai.ClientConfig, model, voice string) *OpenAISpeechService {
	s := &OpenAISpeechService{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.TTSModel1,
		voice:  openai.VoiceNova,
	}
	if model != "" {
		s.model = openai.SpeechModel(model)
	}
	if voice != "" {
		s.voice = openai.SpeechVoice(voice)
	}
	return s
}

func (s *OpenAISpeechService) Name() string { return "openai" }

func (s *OpenAISpeechService) GenerateSpeech(ctx context.Context, text string) (*TTSResponse, error) {
	log.Printf("[OpenAI TTS] Generating speech (model=%s, voice=%s, textLen=%d)", s.model, s.voice, len(text))

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return nil, fmt.Errorf("openai speech request failed: %w", err)
	}
	defer resp.Close()

	audioData, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read openai speech response: %w", err)
	}

	if len(audioData) == 0 {
		return nil, fmt.Errorf("openai returned empty audio")
	}

	log.Printf("[OpenAI TTS] Speech generated (%d bytes)", len(audioData))

	return &TTSResponse{
		AudioData: audioData,
		Format:    "mp3",
	}, nil
}
