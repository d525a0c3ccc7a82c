package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/bobarin/podcaster/internal/errors"
)

type fakeTTS struct {
	stream bool
	audio  []byte
	err    error
	calls  []string
}

func (f *fakeTTS) Name() string { return "fake" }

func (f *fakeTTS) GenerateSpeech(ctx context.Context, text string) (*TTSResponse, error) {
	f.calls = append(f.calls, text)
	if f.err != nil {
		return nil, f.err
	}
	if f.stream {
		return &TTSResponse{Stream: io.NopCloser(bytes.NewReader(f.audio)), Format: "mp3"}, nil
	}
	return &TTSResponse{AudioData: f.audio, Format: "mp3"}, nil
}

// failingReader returns some bytes, then an error.
type failingReader struct{ sent bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "partial"), nil
	}
	return 0, errors.New("stream interrupted")
}

func (r *failingReader) Close() error { return nil }

type streamTTS struct{ body io.ReadCloser }

func (s *streamTTS) Name() string { return "stream" }
func (s *streamTTS) GenerateSpeech(ctx context.Context, text string) (*TTSResponse, error) {
	return &TTSResponse{Stream: s.body}, nil
}

func fixedClock() time.Time {
	return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
}

func TestSynthesizeWritesFile(t *testing.T) {
	for _, stream := range []bool{false, true} {
		dir := filepath.Join(t.TempDir(), "audio")
		tts := &fakeTTS{stream: stream, audio: []byte("ID3-audio")}
		s := NewSpeechSynthesizer(tts, dir)
		s.now = fixedClock

		path, err := s.Synthesize(context.Background(), "A/B: Test  Title!", "hello there")
		if err != nil {
			t.Fatalf("stream=%v: Synthesize failed: %v", stream, err)
		}

		want := filepath.Join(dir, "AB_Test_Title_20240102_030405.mp3")
		if path != want {
			t.Errorf("stream=%v: expected %s, got %s", stream, want, path)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(data) != "ID3-audio" {
			t.Errorf("stream=%v: unexpected content %q", stream, data)
		}
		if len(tts.calls) != 1 || tts.calls[0] != "hello there" {
			t.Errorf("unexpected provider calls: %v", tts.calls)
		}
	}
}

func TestSynthesizePreconditions(t *testing.T) {
	tts := &fakeTTS{audio: []byte("x")}
	s := NewSpeechSynthesizer(tts, t.TempDir())

	for _, tc := range [][2]string{{"", "script"}, {"label", " "}} {
		_, err := s.Synthesize(context.Background(), tc[0], tc[1])
		if err == nil {
			t.Fatalf("expected error for %q/%q", tc[0], tc[1])
		}
		if !apperrors.IsAudioGeneration(err) || !apperrors.IsInvalidInput(err) {
			t.Errorf("expected audio generation wrapping invalid input, got %v", err)
		}
	}
	if len(tts.calls) != 0 {
		t.Errorf("provider must not be called, got %d calls", len(tts.calls))
	}
}

func TestSynthesizeProviderFailure(t *testing.T) {
	dir := t.TempDir()
	boom := errors.New("quota exceeded")
	s := NewSpeechSynthesizer(&fakeTTS{err: boom}, dir)

	_, err := s.Synthesize(context.Background(), "label", "script")
	if !apperrors.IsAudioGeneration(err) {
		t.Fatalf("expected audio generation failure, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if !strings.Contains(err.Error(), "failed to generate audio") {
		t.Errorf("unexpected message %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no files, found %d", len(entries))
	}
}

func TestSynthesizeRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	s := NewSpeechSynthesizer(&streamTTS{body: &failingReader{}}, dir)

	if _, err := s.Synthesize(context.Background(), "label", "script"); !apperrors.IsAudioGeneration(err) {
		t.Fatalf("expected audio generation failure, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("partial file left behind: %v", entries)
	}
}

func TestSynthesizeEmptyAudio(t *testing.T) {
	dir := t.TempDir()
	s := NewSpeechSynthesizer(&fakeTTS{stream: true}, dir)

	if _, err := s.Synthesize(context.Background(), "label", "script"); !apperrors.IsAudioGeneration(err) {
		t.Fatalf("expected audio generation failure, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("empty file left behind: %v", entries)
	}
}

func TestSynthesizeDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewSpeechSynthesizer(&fakeTTS{audio: []byte("second")}, dir)
	s.now = fixedClock

	existing := filepath.Join(dir, "label_20240102_030405.mp3")
	if err := os.WriteFile(existing, []byte("first"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Synthesize(context.Background(), "label", "script"); !apperrors.IsAudioGeneration(err) {
		t.Fatalf("expected collision to fail, got %v", err)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "first" {
		t.Errorf("existing file overwritten: %q", data)
	}
}
