package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"google.golang.org/genai"
)

const geminiDefaultModel = "gemini-2.5-flash"

// GeminiChat is a ChatModel backed by the Gemini API. Structured replies use
// JSON response mode constrained by the response schema.
type GeminiChat struct {
	client *genai.Client
	model  string
}

// Ensure GeminiChat implements ChatModel at compile time.
var _ ChatModel = (*GeminiChat)(nil)

func NewGeminiChat(ctx context.Context, apiKey, model string) (*GeminiChat, error) {
	return NewGeminiChatWithConfig(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

// NewGeminiChatWithConfig builds the client from an explicit config, e.g. a
// custom HTTPOptions.BaseURL.
func NewGeminiChatWithConfig(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiChat, error) {
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if model == "" {
		model = geminiDefaultModel
	}
	return &GeminiChat{client: client, model: model}, nil
}

func (s *GeminiChat) Send(ctx context.Context, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error) {
	contents, system := toGeminiContents(history)

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](chatTemperature),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseJsonSchema = schema.Schema
	}

	log.Printf("[Gemini] Chat request (model=%s, messages=%d, structured=%t)", s.model, len(contents), schema != nil)

	result, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	text := result.Text()
	reply := &ChatReply{Content: text}
	if schema != nil && strings.TrimSpace(text) != "" {
		reply.Structured = []byte(text)
	}
	return reply, nil
}

// toGeminiContents maps chat turns to Gemini contents. System turns are
// merged into a single system instruction.
func toGeminiContents(history []ChatMessage) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
