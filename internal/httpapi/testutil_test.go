package httpapi

import (
	"context"
	"net/http"
	"sync"

	"mlxd/internal/engine"
	"mlxd/internal/registry"
	"mlxd/pkg/types"
)

// fakeEngine replays scripted fragments.
type fakeEngine struct {
	frags    []string
	finalErr error
}

func (e *fakeEngine) Generate(ctx context.Context, in engine.Input, p engine.Params, on func(string) error) error {
	for _, f := range e.frags {
		if err := on(f); err != nil {
			return err
		}
	}
	return e.finalErr
}

func (e *fakeEngine) Close() error { return nil }

type fakeProcessor struct{}

func (fakeProcessor) Render(msgs []types.ChatMessage, tools []types.Tool, image string) (engine.Input, error) {
	return engine.Input{Prompt: "p", Image: image}, nil
}

type fakeLoader struct {
	mu       sync.Mutex
	loads    int
	fail     error
	frags    []string
	finalErr error
}

func (l *fakeLoader) Load(ctx context.Context, id string, kind types.ModelKind) (engine.Engine, engine.Processor, error) {
	l.mu.Lock()
	l.loads++
	fail := l.fail
	frags := l.frags
	finalErr := l.finalErr
	l.mu.Unlock()
	if fail != nil {
		return nil, nil, fail
	}
	return &fakeEngine{frags: frags, finalErr: finalErr}, fakeProcessor{}, nil
}

func (l *fakeLoader) Architectures() []types.Architecture {
	return []types.Architecture{
		{Family: "llama", Kind: types.KindText},
		{Family: "llava", Kind: types.KindVision},
	}
}

// newTestMux builds the full router over an isolated registry.
func newTestMux(ld *fakeLoader, maxResident int) (http.Handler, *registry.Registry) {
	reg := registry.New(registry.Config{Loader: ld, MaxResident: maxResident})
	return NewMux(reg), reg
}
