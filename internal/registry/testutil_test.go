package registry

import (
	"context"
	"sync"

	"mlxd/internal/engine"
	"mlxd/pkg/types"
)

// fakeEngine is a scripted engine for registry tests.
type fakeEngine struct {
	mu     sync.Mutex
	closed bool
}

func (e *fakeEngine) Generate(ctx context.Context, in engine.Input, p engine.Params, on func(string) error) error {
	return nil
}

func (e *fakeEngine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

type fakeProcessor struct{}

func (fakeProcessor) Render(msgs []types.ChatMessage, tools []types.Tool, image string) (engine.Input, error) {
	return engine.Input{Prompt: "p"}, nil
}

// fakeLoader counts loads and can block on a gate or fail.
type fakeLoader struct {
	mu    sync.Mutex
	loads int
	gate  chan struct{} // when set, Load blocks until the gate closes
	fail  error
	last  *fakeEngine
}

func (l *fakeLoader) Load(ctx context.Context, id string, kind types.ModelKind) (engine.Engine, engine.Processor, error) {
	if l.gate != nil {
		<-l.gate
	}
	l.mu.Lock()
	l.loads++
	l.mu.Unlock()
	if l.fail != nil {
		return nil, nil, l.fail
	}
	e := &fakeEngine{}
	l.mu.Lock()
	l.last = e
	l.mu.Unlock()
	return e, fakeProcessor{}, nil
}

func (l *fakeLoader) Architectures() []types.Architecture {
	return []types.Architecture{
		{Family: "fake", Kind: types.KindText},
		{Family: "fake_vl", Kind: types.KindVision},
	}
}

func (l *fakeLoader) loadCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loads
}

func (l *fakeLoader) lastEngine() *fakeEngine {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}
