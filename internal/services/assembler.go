package services

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/internal/models"
)

// ---------------------------------------------------------------------------
// Pipeline stage interfaces
// ---------------------------------------------------------------------------

type Planner interface {
	Plan(ctx context.Context, title, body string) ([]models.ChapterAssignment, error)
}

type ChapterWriter interface {
	WriteChapter(ctx context.Context, sc ScriptContext, chapter models.ChapterAssignment, pos models.ChapterPosition) (*models.ChapterScript, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, label, script string) (string, error)
}

type AudioMerger interface {
	MergeWithTransitions(ctx context.Context, chapters []string, transition, outputPath string) error
	GetAudioDuration(ctx context.Context, audioPath string) (int, error)
	Cleanup(paths ...string) int
}

var (
	_ Planner       = (*ScriptPlanner)(nil)
	_ ChapterWriter = (*ChapterScriptWriter)(nil)
	_ Synthesizer   = (*SpeechSynthesizer)(nil)
	_ AudioMerger   = (*FFmpegService)(nil)
)

// AssemblerConfig holds the output layout of the assembler.
type AssemblerConfig struct {
	ScriptDir      string
	PodcastDir     string
	TransitionPath string
}

// PodcastAssembler drives a podcast run: plan, write every chapter, persist
// the script, synthesize every chapter, merge with transitions. Chapters are
// processed strictly in order. Per-chapter audio is always removed.
type PodcastAssembler struct {
	planner     Planner
	writer      ChapterWriter
	synthesizer Synthesizer
	merger      AudioMerger
	cfg         AssemblerConfig
	now         func() time.Time
}

func NewPodcastAssembler(planner Planner, writer ChapterWriter, synthesizer Synthesizer, merger AudioMerger, cfg AssemblerConfig) *PodcastAssembler {
	return &PodcastAssembler{
		planner:     planner,
		writer:      writer,
		synthesizer: synthesizer,
		merger:      merger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// GenerateScripts plans the document and writes every chapter script
// without producing audio.
func (a *PodcastAssembler) GenerateScripts(ctx context.Context, title, body string) ([]models.ChapterScript, error) {
	scripts, err := a.writeScripts(ctx, title, body)
	if err != nil {
		return nil, apperrors.ContentProcessing("failed to generate script", err)
	}
	return scripts, nil
}

// CreatePodcast runs the whole pipeline and returns the produced artifacts.
// Any failure is reported as a content processing failure wrapping the
// stage error.
func (a *PodcastAssembler) CreatePodcast(ctx context.Context, title, body string) (result *models.PodcastResult, err error) {
	started := a.now()
	var chapterAudio []string

	defer func() {
		if len(chapterAudio) > 0 {
			if failed := a.merger.Cleanup(chapterAudio...); failed > 0 {
				log.Printf("[Assembler] %d chapter files could not be removed", failed)
			}
		}
		if err != nil {
			log.Printf("[Assembler] Podcast %q failed: %v", title, err)
			err = apperrors.ContentProcessing("failed to create podcast", err)
		}
	}()

	// PLAN + WRITE_CHAPTERS
	scripts, err := a.writeScripts(ctx, title, body)
	if err != nil {
		return nil, err
	}

	// PERSIST_SCRIPT
	base := fmt.Sprintf("%s_%s", SanitizeLabel(title), Timestamp(a.now()))
	scriptPath, err := writeExclusive(a.cfg.ScriptDir, base+"_script.txt", []byte(models.JoinScripts(scripts)))
	if err != nil {
		return nil, fmt.Errorf("failed to save script: %w", err)
	}
	log.Printf("[Assembler] Script saved to %s", scriptPath)

	// SYNTHESIZE_CHAPTERS
	for _, script := range scripts {
		label := fmt.Sprintf("%s_Chapter_%d", title, script.Index)
		path, err := a.synthesizer.Synthesize(ctx, label, script.Text)
		if err != nil {
			return nil, fmt.Errorf("chapter %d: %w", script.Index, err)
		}
		chapterAudio = append(chapterAudio, path)
		log.Printf("[Assembler] Chapter %d/%d audio ready", script.Index, len(scripts))
	}

	// MERGE
	podcastPath := filepath.Join(a.cfg.PodcastDir, base+"_podcast.mp3")
	if err := a.merger.MergeWithTransitions(ctx, chapterAudio, a.cfg.TransitionPath, podcastPath); err != nil {
		return nil, err
	}

	// The podcast is complete at this point; a failed probe only loses the duration.
	durationMs, probeErr := a.merger.GetAudioDuration(ctx, podcastPath)
	if probeErr != nil {
		log.Printf("[Assembler] Could not probe duration of %s: %v", podcastPath, probeErr)
	}

	log.Printf("[Assembler] Podcast %q done in %v (%dms audio): %s", title, a.now().Sub(started).Round(time.Second), durationMs, podcastPath)

	return &models.PodcastResult{
		Title:       title,
		PodcastPath: podcastPath,
		ScriptPath:  scriptPath,
		DurationMs:  durationMs,
		Chapters:    scripts,
	}, nil
}

func (a *PodcastAssembler) writeScripts(ctx context.Context, title, body string) ([]models.ChapterScript, error) {
	chapters, err := a.planner.Plan(ctx, title, body)
	if err != nil {
		return nil, err
	}
	if len(chapters) == 0 {
		return nil, apperrors.ContentProcessing("table-of-contents generation failed", nil)
	}

	sc := ScriptContext{Title: title, ChapterCount: len(chapters)}
	scripts := make([]models.ChapterScript, 0, len(chapters))
	for i, chapter := range chapters {
		pos := models.PositionOf(i+1, len(chapters))
		script, err := a.writer.WriteChapter(ctx, sc, chapter, pos)
		if err != nil {
			return nil, err
		}
		script.Index = pos.Index
		scripts = append(scripts, *script)
	}
	return scripts, nil
}
