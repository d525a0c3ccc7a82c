package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/bobarin/podcaster/internal/errors"
)

func plannerWithReply(t *testing.T, structured string, content string) (*ScriptPlanner, *fakeChat) {
	t.Helper()
	chat := &fakeChat{
		reply: func(call int, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error) {
			if call == 0 {
				return &ChatReply{Content: "Understood."}, nil
			}
			r := &ChatReply{Content: content}
			if structured != "" {
				r.Structured = []byte(structured)
			}
			return r, nil
		},
	}
	p, err := NewScriptPlanner(chat)
	if err != nil {
		t.Fatalf("NewScriptPlanner failed: %v", err)
	}
	return p, chat
}

func TestPlannerConversation(t *testing.T) {
	p, chat := plannerWithReply(t,
		`{"chapters":[{"title":"Origins","content":"part one"},{"title":"Legacy","content":"part two"}]}`, "")

	chapters, err := p.Plan(context.Background(), "Seoul", "full article body")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}

	if len(chapters) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(chapters))
	}
	if chapters[0].Title != "Origins" || chapters[1].Content != "part two" {
		t.Errorf("unexpected chapters: %+v", chapters)
	}

	if len(chat.calls) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(chat.calls))
	}

	first := chat.calls[0]
	if first.Schema != nil {
		t.Error("context turn must not request structured output")
	}
	last := first.History[len(first.History)-1]
	if !strings.Contains(last.Content, "full article body") || !strings.Contains(last.Content, "Seoul") {
		t.Errorf("context turn must carry title and body, got %q", last.Content)
	}

	second := chat.calls[1]
	if second.Schema == nil || second.Schema.Name != tocFunctionName {
		t.Fatalf("table of contents turn must request the schema, got %+v", second.Schema)
	}
	if len(second.History) != len(first.History)+2 {
		t.Fatalf("expected history to grow by ack and request, got %d turns", len(second.History))
	}
	ack := second.History[len(first.History)]
	if ack.Role != RoleAssistant || ack.Content != "Understood." {
		t.Errorf("expected assistant acknowledgement in history, got %+v", ack)
	}
}

func TestPlannerRepairsMalformedJSON(t *testing.T) {
	// trailing comma and missing closing braces
	p, _ := plannerWithReply(t, `{"chapters":[{"title":"Only","content":"everything"},]`, "")

	chapters, err := p.Plan(context.Background(), "t", "b")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if len(chapters) != 1 || chapters[0].Title != "Only" {
		t.Errorf("unexpected chapters: %+v", chapters)
	}
}

func TestPlannerFailures(t *testing.T) {
	tests := []struct {
		name       string
		structured string
		wantMsg    string
		classified bool
	}{
		{"no structured reply", "", "no function-call response", true},
		{"empty chapters", `{"chapters":[]}`, "table-of-contents generation failed", true},
		{"null chapters", `{"chapters":null}`, "table-of-contents generation failed", true},
		{"blank title", `{"chapters":[{"title":" ","content":"x"}]}`, "missing required fields", true},
		{"missing content", `{"chapters":[{"title":"x"}]}`, "", true},
		{"wrong type", `{"chapters":"nope"}`, "failed to parse table of contents", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := plannerWithReply(t, tt.structured, "I cannot do that")

			_, err := p.Plan(context.Background(), "t", "b")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected %q in error, got %v", tt.wantMsg, err)
			}
			if got := apperrors.IsContentProcessing(err); got != tt.classified {
				t.Errorf("IsContentProcessing = %v, want %v (err=%v)", got, tt.classified, err)
			}
		})
	}
}

func TestPlannerPropagatesTransportError(t *testing.T) {
	boom := errors.New("connection reset")
	chat := &fakeChat{
		reply: func(call int, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error) {
			return nil, boom
		},
	}
	p, err := NewScriptPlanner(chat)
	if err != nil {
		t.Fatalf("NewScriptPlanner failed: %v", err)
	}

	_, err = p.Plan(context.Background(), "t", "b")
	if !errors.Is(err, boom) {
		t.Errorf("expected cause to be preserved, got %v", err)
	}
	if !apperrors.IsContentProcessing(err) {
		t.Errorf("expected content processing failure, got %v", err)
	}
	if len(chat.calls) != 1 {
		t.Errorf("expected no retry, got %d calls", len(chat.calls))
	}
}

func TestTableOfContentsSchema(t *testing.T) {
	schema, err := TableOfContentsSchema()
	if err != nil {
		t.Fatalf("schema failed: %v", err)
	}
	chapters := schema.Properties["chapters"]
	if chapters == nil || chapters.MinItems == nil || *chapters.MinItems != 1 {
		t.Fatalf("expected chapters with minItems=1, got %+v", chapters)
	}
	if chapters.Items == nil {
		t.Fatal("expected item schema")
	}
	required := strings.Join(chapters.Items.Required, ",")
	if !strings.Contains(required, "title") || !strings.Contains(required, "content") {
		t.Errorf("expected title and content to be required, got %v", chapters.Items.Required)
	}
}
