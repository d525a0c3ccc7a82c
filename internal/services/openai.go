package services

import (
	"context"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIChat is a ChatModel backed by the OpenAI chat completions API.
// Structured replies are requested as a forced function call whose
// parameters are the response schema.
type OpenAIChat struct {
	client *openai.Client
	model  string
}

// Ensure OpenAIChat implements ChatModel at compile time.
var _ ChatModel = (*OpenAIChat)(nil)

func NewOpenAIChat(apiKey, model string) *OpenAIChat {
	return NewOpenAIChatWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIChatWithConfig allows pointing the client at a different base URL.
func NewOpenAIChatWithConfig(cfg openai.ClientConfig, model string) *OpenAIChat {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIChat{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (s *OpenAIChat) Send(ctx context.Context, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: chatTemperature,
	}

	if schema != nil {
		req.Tools = []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        schema.Name,
				Description: schema.Description,
				Parameters:  schema.Schema,
			},
		}}
		req.ToolChoice = openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: schema.Name},
		}
	}

	log.Printf("[OpenAI] Chat request (model=%s, messages=%d, structured=%t)", s.model, len(messages), schema != nil)

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	msg := resp.Choices[0].Message
	reply := &ChatReply{Content: msg.Content}

	for _, call := range msg.ToolCalls {
		if schema != nil && call.Function.Name == schema.Name {
			reply.Structured = []byte(call.Function.Arguments)
			break
		}
	}

	return reply, nil
}
