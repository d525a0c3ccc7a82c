package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	apperrors "github.com/bobarin/podcaster/internal/errors"
	"github.com/bobarin/podcaster/internal/models"
	"github.com/google/jsonschema-go/jsonschema"
)

// ScriptPlanner splits a document into an ordered table of contents with a
// two-turn conversation: the document is shared once as context, then a
// structured table of contents is requested.
type ScriptPlanner struct {
	llm      ChatModel
	schema   *ResponseSchema
	resolved *jsonschema.Resolved
}

func NewScriptPlanner(llm ChatModel) (*ScriptPlanner, error) {
	schema, err := TableOfContentsSchema()
	if err != nil {
		return nil, err
	}

	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve table of contents schema: %w", err)
	}

	return &ScriptPlanner{
		llm: llm,
		schema: &ResponseSchema{
			Name:        tocFunctionName,
			Description: tocFunctionDescription,
			Schema:      schema,
		},
		resolved: resolved,
	}, nil
}

// TableOfContentsSchema derives the structured reply schema from
// models.TableOfContents. At least one chapter is required.
func TableOfContentsSchema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[models.TableOfContents](&jsonschema.ForOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to build table of contents schema: %w", err)
	}

	chapters, ok := schema.Properties["chapters"]
	if !ok {
		return nil, fmt.Errorf("table of contents schema has no chapters property")
	}
	minItems := 1
	chapters.MinItems = &minItems

	return schema, nil
}

// Plan returns the chapters of the document in order.
func (p *ScriptPlanner) Plan(ctx context.Context, title, body string) ([]models.ChapterAssignment, error) {
	log.Printf("[Planner] Planning chapters for %q (%d chars)", title, len(body))

	history := []ChatMessage{
		{Role: RoleSystem, Content: plannerSystemPrompt},
		{Role: RoleUser, Content: buildContextMessage(title, body)},
	}

	ack, err := p.llm.Send(ctx, history, nil)
	if err != nil {
		return nil, apperrors.ContentProcessing("failed to share document with model", err)
	}

	history = append(history,
		ChatMessage{Role: RoleAssistant, Content: ack.Content},
		ChatMessage{Role: RoleUser, Content: buildTableOfContentsRequest(title)},
	)

	reply, err := p.llm.Send(ctx, history, p.schema)
	if err != nil {
		return nil, apperrors.ContentProcessing("failed to request table of contents", err)
	}

	if len(reply.Structured) == 0 {
		log.Printf("[Planner] no structured reply, content: %s", truncateForLog(reply.Content))
		return nil, apperrors.ContentProcessing("no function-call response", nil)
	}

	chapters, err := p.parse(reply.Structured)
	if err != nil {
		log.Printf("[Planner] parse failed: %v", err)
		log.Printf("[Planner] raw response: %s", truncateForLog(string(reply.Structured)))
		return nil, err
	}

	log.Printf("[Planner] Planned %d chapters for %q", len(chapters), title)
	return chapters, nil
}

// parse decodes and validates the structured payload. Decoding errors are
// returned as-is; semantic failures are classified as content processing
// failures.
func (p *ScriptPlanner) parse(raw []byte) ([]models.ChapterAssignment, error) {
	var toc models.TableOfContents
	if err := unmarshalJSON(raw, &toc); err != nil {
		return nil, fmt.Errorf("failed to parse table of contents: %w", err)
	}

	if len(toc.Chapters) == 0 {
		return nil, apperrors.ContentProcessing("table-of-contents generation failed", nil)
	}

	var instance any
	if err := unmarshalJSON(raw, &instance); err != nil {
		return nil, fmt.Errorf("failed to parse table of contents: %w", err)
	}
	if err := p.resolved.Validate(instance); err != nil {
		return nil, apperrors.ContentProcessing("table of contents does not match schema", err)
	}

	for i, ch := range toc.Chapters {
		var missing []string
		if strings.TrimSpace(ch.Title) == "" {
			missing = append(missing, "title")
		}
		if strings.TrimSpace(ch.Content) == "" {
			missing = append(missing, "content")
		}
		if len(missing) > 0 {
			return nil, apperrors.ContentProcessing(
				fmt.Sprintf("chapter %d missing required fields: %v", i+1, missing), nil)
		}
	}

	return toc.Chapters, nil
}
