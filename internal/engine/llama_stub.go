//go:build !llama

package engine

// This file provides a no-CGO stub for the llama backend. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real backend lives in llama.go (tagged 'llama').

import (
	"context"

	"mlxd/pkg/types"
)

// llamaBuilt indicates whether this binary was compiled with real llama support.
var llamaBuilt = false

// Load fails fast: the llama runtime is not available in this build. The
// model path is still resolved so a missing file surfaces as its own error.
func (l *LlamaLoader) Load(ctx context.Context, id string, kind types.ModelKind) (Engine, Processor, error) {
	if kind == types.KindVision {
		return nil, nil, ErrUnsupportedArch("vision models are not supported by the llama backend")
	}
	if _, err := l.resolvePath(id); err != nil {
		return nil, nil, err
	}
	return nil, nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
