package session

import (
	"context"
	"sync"
	"testing"

	"mlxd/internal/engine"
	"mlxd/internal/registry"
	"mlxd/pkg/types"
)

// scriptEngine replays a fixed fragment sequence, then returns finalErr.
type scriptEngine struct {
	frags    []string
	finalErr error
}

func (e *scriptEngine) Generate(ctx context.Context, in engine.Input, p engine.Params, on func(string) error) error {
	for _, f := range e.frags {
		if err := on(f); err != nil {
			return err
		}
	}
	return e.finalErr
}

func (e *scriptEngine) Close() error { return nil }

type scriptProcessor struct {
	renderErr error
}

func (p scriptProcessor) Render(msgs []types.ChatMessage, tools []types.Tool, image string) (engine.Input, error) {
	if p.renderErr != nil {
		return engine.Input{}, p.renderErr
	}
	return engine.Input{Prompt: "p", Image: image}, nil
}

type scriptLoader struct {
	mu        sync.Mutex
	frags     []string
	finalErr  error
	renderErr error
}

func (l *scriptLoader) Load(ctx context.Context, id string, kind types.ModelKind) (engine.Engine, engine.Processor, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &scriptEngine{frags: l.frags, finalErr: l.finalErr}, scriptProcessor{renderErr: l.renderErr}, nil
}

func (l *scriptLoader) Architectures() []types.Architecture {
	return []types.Architecture{{Family: "fake", Kind: types.KindText}}
}

// newTestSession acquires a handle from an isolated registry over the given
// script and builds a session for req. The cleanup releases the handle.
func newTestSession(t *testing.T, ld *scriptLoader, req types.ChatCompletionRequest) (*Session, func()) {
	t.Helper()
	r := registry.New(registry.Config{Loader: ld})
	h, err := r.Acquire(context.Background(), req.Model, types.KindText)
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	return New(h, req), h.Release
}

func chatReq(model string, maxTokens int) types.ChatCompletionRequest {
	return types.ChatCompletionRequest{
		Model:     model,
		Messages:  []types.ChatMessage{{Role: "user", Content: "hi"}},
		MaxTokens: maxTokens,
	}
}

func toolReq(model string, maxTokens int) types.ChatCompletionRequest {
	req := chatReq(model, maxTokens)
	req.Tools = []types.Tool{{
		Type: "function",
		Function: types.Function{
			Name:        "get_weather",
			Description: "Look up current weather",
			Parameters:  map[string]any{"type": "object"},
		},
	}}
	return req
}
