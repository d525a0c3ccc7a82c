package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/pkg/executor"
)

// Output audio format of the merged podcast
const (
	outputSampleRate    = 44100
	outputChannelLayout = "stereo"
	outputBitrate       = "128k"
)

// ---------------------------------------------------------------------------
// FFmpegService
// ---------------------------------------------------------------------------

type FFmpegService struct {
	exec        executor.Executor
	ffmpegPath  string
	ffprobePath string
}

func NewFFmpegService(exec executor.Executor, ffmpegPath, ffprobePath string) *FFmpegService {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegService{
		exec:        exec,
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
	}
}

// CheckAvailable verifies that ffmpeg and ffprobe can be executed.
func (s *FFmpegService) CheckAvailable() error {
	for _, bin := range []string{s.ffmpegPath, s.ffprobePath} {
		if _, err := s.exec.LookPath(bin); err != nil {
			return apperrors.AudioGeneration(fmt.Sprintf("audio converter %s not available", bin), err)
		}
	}
	return nil
}

// BuildMergeSequence returns the playback order of a podcast: every chapter
// in order with the transition between each adjacent pair.
func BuildMergeSequence(chapters []string, transition string) []string {
	if len(chapters) == 0 {
		return nil
	}
	seq := make([]string, 0, 2*len(chapters)-1)
	for i, ch := range chapters {
		if i > 0 {
			seq = append(seq, transition)
		}
		seq = append(seq, ch)
	}
	return seq
}

// buildMergeArgs builds the ffmpeg invocation for MergeWithTransitions.
// Chapters are inputs 0..N-1; the transition is read once as input N and
// split into N-1 copies. The concat order is BuildMergeSequence. Every stream
// is normalized before the concat filter because chapter mp3s and the
// transition clip rarely share a format. The output path is reserved by the
// caller, so ffmpeg overwrites its own placeholder.
func buildMergeArgs(chapters []string, transition, outputPath string) []string {
	n := len(chapters)
	args := []string{"-hide_banner", "-nostdin", "-y"}
	for _, ch := range chapters {
		args = append(args, "-i", ch)
	}
	if n > 1 {
		args = append(args, "-i", transition)
	}

	format := fmt.Sprintf("aformat=sample_fmts=fltp:sample_rates=%d:channel_layouts=%s", outputSampleRate, outputChannelLayout)

	var filters []string
	for i := 0; i < n; i++ {
		filters = append(filters, fmt.Sprintf("[%d:a]%s[c%d]", i, format, i))
	}

	if n > 1 {
		var labels strings.Builder
		for i := 1; i < n; i++ {
			fmt.Fprintf(&labels, "[t%d]", i)
		}
		if n == 2 {
			filters = append(filters, fmt.Sprintf("[%d:a]%s%s", n, format, labels.String()))
		} else {
			filters = append(filters, fmt.Sprintf("[%d:a]%s,asplit=%d%s", n, format, n-1, labels.String()))
		}
	}

	// Chapter and transition entries alternate, starting with a chapter.
	sequence := BuildMergeSequence(chapters, transition)
	var concat strings.Builder
	for i := range sequence {
		if i%2 == 0 {
			fmt.Fprintf(&concat, "[c%d]", i/2)
		} else {
			fmt.Fprintf(&concat, "[t%d]", (i+1)/2)
		}
	}
	fmt.Fprintf(&concat, "concat=n=%d:v=0:a=1[out]", len(sequence))
	filters = append(filters, concat.String())

	args = append(args,
		"-filter_complex", strings.Join(filters, ";"),
		"-map", "[out]",
		"-c:a", "libmp3lame",
		"-b:a", outputBitrate,
		outputPath,
	)
	return args
}

// MergeWithTransitions concatenates the chapter files in order with the
// transition clip between each pair and exports an mp3 to outputPath.
// An existing outputPath is never overwritten.
func (s *FFmpegService) MergeWithTransitions(ctx context.Context, chapters []string, transition, outputPath string) error {
	if len(chapters) == 0 {
		return apperrors.AudioGeneration("no chapter audio to merge", nil)
	}

	if _, err := os.Stat(transition); err != nil {
		return apperrors.AudioGeneration("transition clip not found", err)
	}

	if err := s.CheckAvailable(); err != nil {
		return err
	}

	// Reserve the output name; from here on the file is ours to remove.
	placeholder, _, err := createExclusive(filepath.Dir(outputPath), filepath.Base(outputPath))
	if errors.Is(err, fs.ErrExist) {
		return apperrors.AudioGeneration("podcast file already exists", err)
	}
	if err != nil {
		return apperrors.AudioGeneration("failed to create podcast file", err)
	}
	placeholder.Close()

	log.Printf("[FFmpeg] Merging %d chapters with %d transitions into %s", len(chapters), len(chapters)-1, outputPath)

	if _, err := s.exec.Execute(ctx, s.ffmpegPath, buildMergeArgs(chapters, transition, outputPath)...); err != nil {
		os.Remove(outputPath)
		return apperrors.AudioGeneration("ffmpeg merge failed", err)
	}

	return nil
}

// GetAudioDuration returns the duration of an audio file in milliseconds.
func (s *FFmpegService) GetAudioDuration(ctx context.Context, audioPath string) (int, error) {
	// Use ffprobe to get duration
	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	}

	output, err := s.exec.Execute(ctx, s.ffprobePath, args...)
	if err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	durationSec, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", strings.TrimSpace(output), err)
	}

	return int(durationSec * 1000), nil
}

// Cleanup removes the given files. Missing files are ignored; other errors
// are logged and counted.
func (s *FFmpegService) Cleanup(paths ...string) int {
	failed := 0
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("[FFmpeg] Failed to remove %s: %v", path, err)
			failed++
		}
	}
	return failed
}
