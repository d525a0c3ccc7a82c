package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/internal/models"
)

const defaultScriptLanguage = "Korean"

// ScriptContext identifies the podcast a chapter belongs to.
type ScriptContext struct {
	Title        string
	ChapterCount int
}

// ChapterScriptWriter turns one chapter assignment into a spoken script.
// Every chapter gets its own short conversation, so calls are independent.
type ChapterScriptWriter struct {
	llm      ChatModel
	language string
}

func NewChapterScriptWriter(llm ChatModel, language string) *ChapterScriptWriter {
	if language == "" {
		language = defaultScriptLanguage
	}
	return &ChapterScriptWriter{llm: llm, language: language}
}

// chapterHistory builds the conversation for one chapter: writer role,
// reference to the planned document, then the chapter instruction.
func (w *ChapterScriptWriter) chapterHistory(sc ScriptContext, chapter models.ChapterAssignment, pos models.ChapterPosition) []ChatMessage {
	return []ChatMessage{
		{Role: RoleSystem, Content: writerSystemPrompt},
		{Role: RoleUser, Content: ReferenceMessage(sc.Title, sc.ChapterCount)},
		{Role: RoleUser, Content: buildChapterInstruction(w.language, chapter, pos)},
	}
}

func (w *ChapterScriptWriter) WriteChapter(ctx context.Context, sc ScriptContext, chapter models.ChapterAssignment, pos models.ChapterPosition) (*models.ChapterScript, error) {
	log.Printf("[Writer] Writing chapter %d/%d (%s, position=%s)", pos.Index, pos.Count, chapter.Title, pos)

	reply, err := w.llm.Send(ctx, w.chapterHistory(sc, chapter, pos), nil)
	if err != nil {
		return nil, apperrors.ContentProcessing(fmt.Sprintf("failed to generate script for chapter %d", pos.Index), err)
	}

	text := strings.TrimSpace(reply.Content)
	if text == "" {
		return nil, apperrors.ContentProcessing(fmt.Sprintf("empty script for chapter %d", pos.Index), nil)
	}

	log.Printf("[Writer] Chapter %d/%d written (%d chars)", pos.Index, pos.Count, len(text))

	return &models.ChapterScript{
		Index: pos.Index,
		Title: chapter.Title,
		Text:  text,
	}, nil
}
