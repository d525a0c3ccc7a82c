package models

import (
	"encoding/json"
	"testing"
)

func TestChapterPosition(t *testing.T) {
	tests := []struct {
		index, count int
		first, last  bool
		name         string
	}{
		{1, 1, true, true, "only"},
		{1, 3, true, false, "first"},
		{2, 3, false, false, "middle"},
		{3, 3, false, true, "last"},
		{1, 2, true, false, "first"},
		{2, 2, false, true, "last"},
	}

	for _, tt := range tests {
		p := PositionOf(tt.index, tt.count)
		if p.IsFirst() != tt.first {
			t.Errorf("PositionOf(%d, %d).IsFirst() = %v, want %v", tt.index, tt.count, p.IsFirst(), tt.first)
		}
		if p.IsLast() != tt.last {
			t.Errorf("PositionOf(%d, %d).IsLast() = %v, want %v", tt.index, tt.count, p.IsLast(), tt.last)
		}
		if p.IsMiddle() != (!tt.first && !tt.last) {
			t.Errorf("PositionOf(%d, %d).IsMiddle() mismatch", tt.index, tt.count)
		}
		if p.String() != tt.name {
			t.Errorf("PositionOf(%d, %d).String() = %q, want %q", tt.index, tt.count, p.String(), tt.name)
		}
	}
}

func TestJoinScripts(t *testing.T) {
	scripts := []ChapterScript{
		{Index: 1, Text: "first chapter"},
		{Index: 2, Text: "second chapter"},
	}

	got := JoinScripts(scripts)
	want := "first chapter\n\nsecond chapter"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if JoinScripts(nil) != "" {
		t.Error("expected empty script for no chapters")
	}
}

func TestTableOfContentsJSON(t *testing.T) {
	raw := []byte(`{"chapters":[{"title":"Origins","content":"Once upon a time"}]}`)

	var toc TableOfContents
	if err := json.Unmarshal(raw, &toc); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if len(toc.Chapters) != 1 {
		t.Fatalf("expected 1 chapter, got %d", len(toc.Chapters))
	}
	if toc.Chapters[0].Title != "Origins" || toc.Chapters[0].Content != "Once upon a time" {
		t.Errorf("unexpected chapter: %+v", toc.Chapters[0])
	}
}

func TestJobStatus(t *testing.T) {
	statuses := []JobStatus{
		JobStatusQueued,
		JobStatusRunning,
		JobStatusCompleted,
		JobStatusFailed,
	}

	for _, status := range statuses {
		if status == "" {
			t.Errorf("empty status found")
		}
	}

	job := &PodcastJob{Status: JobStatusRunning}
	if job.Finished() {
		t.Error("running job must not be finished")
	}
	job.Status = JobStatusFailed
	if !job.Finished() {
		t.Error("failed job must be finished")
	}
}
