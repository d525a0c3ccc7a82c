package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Enums
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

const (
	ResponseStatusSuccess = "success"
	ResponseStatusError   = "error"
)

// ScriptSeparator joins chapter scripts into the full podcast script.
const ScriptSeparator = "\n\n"

// SourceDocument is an article after fetching and cleaning.
type SourceDocument struct {
	Title string `json:"title"`
	Body  string `json:"content"`
}

// ChapterAssignment is one entry of the table of contents produced by the planner.
// Content is the slice of the source text the chapter covers.
type ChapterAssignment struct {
	Title   string `json:"title" jsonschema:"Chapter title"`
	Content string `json:"content" jsonschema:"The portion of the original text this chapter covers, kept verbatim"`
}

// TableOfContents is the structured payload the planner requests from the model.
type TableOfContents struct {
	Chapters []ChapterAssignment `json:"chapters" jsonschema:"Ordered list of chapters covering the whole text"`
}

// ChapterPosition locates a chapter inside the podcast. A single-chapter
// podcast is both first and last.
type ChapterPosition struct {
	Index int // 1-based
	Count int
}

func PositionOf(index, count int) ChapterPosition {
	return ChapterPosition{Index: index, Count: count}
}

func (p ChapterPosition) IsFirst() bool { return p.Index == 1 }
func (p ChapterPosition) IsLast() bool  { return p.Index == p.Count }

func (p ChapterPosition) IsMiddle() bool {
	return !p.IsFirst() && !p.IsLast()
}

func (p ChapterPosition) String() string {
	switch {
	case p.IsFirst() && p.IsLast():
		return "only"
	case p.IsFirst():
		return "first"
	case p.IsLast():
		return "last"
	default:
		return "middle"
	}
}

// ChapterScript is the spoken script of one chapter.
type ChapterScript struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// JoinScripts concatenates chapter scripts in order, separated by a blank line.
func JoinScripts(scripts []ChapterScript) string {
	parts := make([]string, len(scripts))
	for i, s := range scripts {
		parts[i] = s.Text
	}
	return strings.Join(parts, ScriptSeparator)
}

// PodcastResult describes the artifacts of a completed podcast run.
type PodcastResult struct {
	Title       string          `json:"title"`
	PodcastPath string          `json:"podcast_path"`
	ScriptPath  string          `json:"script_path"`
	DurationMs  int             `json:"duration_ms,omitempty"`
	Chapters    []ChapterScript `json:"chapters"`
}

// PodcastJob is the status record of an asynchronous podcast request.
type PodcastJob struct {
	ID          uuid.UUID `json:"id"`
	Status      JobStatus `json:"status"`
	SourceURL   string    `json:"source_url"`
	Title       string    `json:"title,omitempty"`
	PodcastPath string    `json:"podcast_path,omitempty"`
	ScriptPath  string    `json:"script_path,omitempty"`
	DurationMs  int       `json:"duration_ms,omitempty"`
	PodcastURL  string    `json:"podcast_url,omitempty"`
	ScriptURL   string    `json:"script_url,omitempty"`
	ErrorKind   string    `json:"error_kind,omitempty"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Finished reports whether the job reached a terminal state.
func (j *PodcastJob) Finished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// ---------------------------------------------------------------------------
// API request/response types
// ---------------------------------------------------------------------------

type CreatePodcastRequest struct {
	URL string `json:"url"`
}

type CreatePodcastResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status JobStatus `json:"status"`
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

type ScrapeResponse struct {
	Status  string `json:"status"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ScriptRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type ScriptResponse struct {
	Status   string          `json:"status"`
	Title    string          `json:"title"`
	Script   string          `json:"script"`
	Chapters []ChapterScript `json:"chapters"`
}

type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}
