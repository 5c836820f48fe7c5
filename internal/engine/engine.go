package engine

import (
	"context"

	"mlxd/pkg/types"
)

// Input is the fully rendered engine input for one generation.
type Input struct {
	Prompt string
	// Image is an optional reference (URL, path or base64) consumed by
	// vision engines. Empty for text-only models.
	Image string
}

// Params captures generation parameters for a single session.
type Params struct {
	MaxTokens   int
	Temperature float64
}

// Engine is one loaded model runtime. An Engine is exclusively owned by a
// registry handle and must be safe to Close exactly once.
type Engine interface {
	// Generate streams raw text fragments for the rendered input. onFragment
	// is invoked once per fragment in generation order; returning an error
	// stops generation and Generate returns that error. Implementations must
	// return when ctx is canceled, but only between fragments: generation is
	// not preemptible mid-token.
	Generate(ctx context.Context, in Input, p Params, onFragment func(string) error) error
	// Close releases the model's resources.
	Close() error
}

// Processor renders chat messages into engine input for its model.
type Processor interface {
	Render(msgs []types.ChatMessage, tools []types.Tool, image string) (Input, error)
}

// Loader loads model weights by id for a given kind.
type Loader interface {
	Load(ctx context.Context, id string, kind types.ModelKind) (Engine, Processor, error)
	// Architectures lists the model families this loader understands,
	// independent of what is currently loaded.
	Architectures() []types.Architecture
}
