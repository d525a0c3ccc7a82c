package services

import (
	"context"
	"sync"
)

// fakeChat records every conversation it receives and answers from a
// scripted reply function.
type fakeChat struct {
	mu    sync.Mutex
	calls []fakeChatCall
	reply func(call int, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error)
}

type fakeChatCall struct {
	History []ChatMessage
	Schema  *ResponseSchema
}

func (f *fakeChat) Send(ctx context.Context, history []ChatMessage, schema *ResponseSchema) (*ChatReply, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, fakeChatCall{
		History: append([]ChatMessage(nil), history...),
		Schema:  schema,
	})
	f.mu.Unlock()
	return f.reply(n, history, schema)
}
