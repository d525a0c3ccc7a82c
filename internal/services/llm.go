package services

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// ---------------------------------------------------------------------------
// ChatModel: common interface for LLM chat backends
// OpenAI and Gemini both implement it so the planner and the chapter
// writer never depend on a specific vendor.
// ---------------------------------------------------------------------------

// chatTemperature is shared by every backend so providers write alike.
const chatTemperature = 0.7

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// ResponseSchema asks the backend for a structured reply matching Schema.
type ResponseSchema struct {
	Name        string
	Description string
	Schema      *jsonschema.Schema
}

// ChatReply is the assistant's answer. Structured holds the raw structured
// payload when a schema was requested and the backend produced one; it may
// be malformed JSON and is left to the caller to parse.
type ChatReply struct {
	Content    string
	Structured []byte
}

// ChatModel sends a conversation and returns the assistant's reply.
// schema is nil for free-form replies.
type ChatModel interface {
	Send(ctx context.Context, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error)
}

// unmarshalJSON unmarshals data into v, repairing malformed JSON once when
// the first attempt fails with a syntax error.
func unmarshalJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, err := jsonrepair.JSONRepair(string(data))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

// truncateForLog keeps log lines with raw model output readable.
func truncateForLog(s string) string {
	const maxLogLen = 2000
	if len(s) > maxLogLen {
		return s[:maxLogLen] + "..."
	}
	return s
}
