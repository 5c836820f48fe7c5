//go:build llama

package engine

import (
	"context"

	llama "github.com/go-skynet/go-llama.cpp"

	"mlxd/pkg/types"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// Load resolves the model id to a gguf file and loads it in-process.
// Vision models are declared in Architectures but not servable by this
// backend, so they fail fast without touching the weights.
func (l *LlamaLoader) Load(ctx context.Context, id string, kind types.ModelKind) (Engine, Processor, error) {
	if kind == types.KindVision {
		return nil, nil, ErrUnsupportedArch("vision models are not supported by the llama backend")
	}
	path, err := l.resolvePath(id)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	m, err := llama.New(path, llama.SetContext(l.ctxSize))
	if err != nil {
		return nil, nil, err
	}
	return &llamaEngine{model: m, threads: l.threads}, NewTextProcessor(id), nil
}

// llamaEngine owns one loaded llama.cpp model.
type llamaEngine struct {
	model   *llama.LLama
	threads int
}

func (e *llamaEngine) Generate(ctx context.Context, in Input, p Params, onFragment func(string) error) error {
	var cbErr error
	e.model.SetTokenCallback(func(tok string) bool {
		// Cancellation is only honored between tokens.
		select {
		case <-ctx.Done():
			cbErr = ctx.Err()
			return false
		default:
		}
		if err := onFragment(tok); err != nil {
			cbErr = err
			return false
		}
		return true
	})
	po := []llama.PredictOption{
		llama.SetTokens(maxInt(1, p.MaxTokens)),
		llama.SetThreads(maxInt(1, e.threads)),
		llama.SetTemperature(float32(p.Temperature)),
	}
	if _, err := e.model.Predict(in.Prompt, po...); err != nil {
		if cbErr != nil {
			return cbErr
		}
		return err
	}
	return cbErr
}

func (e *llamaEngine) Close() error {
	if e.model != nil {
		e.model.Free()
		e.model = nil
	}
	return nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
