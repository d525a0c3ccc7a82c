package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	apperrors "github.com/bobarin/podcaster/internal/errors"
)

// streamChunkSize is the write size used when copying streamed audio to disk.
const streamChunkSize = 32 * 1024

// SpeechSynthesizer turns a labelled script into an mp3 under audioDir.
// The voice provider is fixed at construction.
type SpeechSynthesizer struct {
	tts      TTSService
	audioDir string
	now      func() time.Time
}

func NewSpeechSynthesizer(tts TTSService, audioDir string) *SpeechSynthesizer {
	return &SpeechSynthesizer{
		tts:      tts,
		audioDir: audioDir,
		now:      time.Now,
	}
}

// Synthesize generates speech for script and returns the path of the saved
// file. Every failure is an audio generation failure; a partially written
// file is removed.
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, label, script string) (string, error) {
	if strings.TrimSpace(label) == "" {
		return "", apperrors.AudioGeneration("failed to generate audio",
			apperrors.InvalidInput("label is required", nil))
	}
	if strings.TrimSpace(script) == "" {
		return "", apperrors.AudioGeneration("failed to generate audio",
			apperrors.InvalidInput("script is required", nil))
	}

	name := fmt.Sprintf("%s_%s.mp3", SanitizeLabel(label), Timestamp(s.now()))

	log.Printf("[Synthesizer] Generating %s with %s (%d chars)", name, s.tts.Name(), len(script))

	resp, err := s.tts.GenerateSpeech(ctx, script)
	if err != nil {
		return "", apperrors.AudioGeneration("failed to generate audio", err)
	}
	if resp.Stream != nil {
		defer resp.Stream.Close()
	}

	path, err := s.save(name, resp)
	if err != nil {
		return "", apperrors.AudioGeneration("failed to generate audio", err)
	}

	if _, err := os.Stat(path); err != nil {
		return "", apperrors.AudioGeneration("failed to save audio file", err)
	}

	log.Printf("[Synthesizer] Saved %s", path)
	return path, nil
}

func (s *SpeechSynthesizer) save(name string, resp *TTSResponse) (string, error) {
	if resp.Stream == nil && len(resp.AudioData) == 0 {
		return "", fmt.Errorf("provider returned no audio")
	}

	f, path, err := createExclusive(s.audioDir, name)
	if err != nil {
		return "", err
	}

	var written int64
	if resp.Stream != nil {
		written, err = io.CopyBuffer(f, resp.Stream, make([]byte, streamChunkSize))
	} else {
		var n int
		n, err = f.Write(resp.AudioData)
		written = int64(n)
	}
	if err == nil && written == 0 {
		err = fmt.Errorf("provider returned empty audio")
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	return path, nil
}
