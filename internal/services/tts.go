package services

import (
	"context"
	"io"
)

// ---------------------------------------------------------------------------
// TTSService: common interface for text-to-speech providers
// ElevenLabs and OpenAI both implement this interface so the synthesizer
// can use whichever is configured without knowing the underlying provider.
// ---------------------------------------------------------------------------

// TTSResponse is the common response type from any TTS provider. Exactly one
// of Stream and AudioData is set: streaming providers hand back the open
// response body, buffered providers the complete audio.
type TTSResponse struct {
	Stream    io.ReadCloser
	AudioData []byte
	Format    string // "mp3", "wav", etc.
}

// TTSService is the interface that any TTS provider must implement.
// Voice parameters are fixed when the provider is constructed.
type TTSService interface {
	GenerateSpeech(ctx context.Context, text string) (*TTSResponse, error)
	Name() string
}
