package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mlxd/pkg/types"
)

// architectures is the static capability listing of the llama backend.
// Vision families are declared so operators can see what a vision-capable
// build would serve; the current backend only loads the text families.
var architectures = []types.Architecture{
	{Family: "llama", Kind: types.KindText},
	{Family: "mistral", Kind: types.KindText},
	{Family: "phi", Kind: types.KindText},
	{Family: "qwen2", Kind: types.KindText},
	{Family: "gemma", Kind: types.KindText},
	{Family: "llava", Kind: types.KindVision},
	{Family: "paligemma", Kind: types.KindVision},
	{Family: "qwen2_vl", Kind: types.KindVision},
}

// LlamaLoader loads *.gguf model files from a local directory via the
// go-llama.cpp binding (when built with the 'llama' tag).
type LlamaLoader struct {
	modelsDir string
	ctxSize   int
	threads   int
}

// NewLlamaLoader constructs a loader rooted at modelsDir.
func NewLlamaLoader(modelsDir string, ctxSize, threads int) *LlamaLoader {
	return &LlamaLoader{modelsDir: modelsDir, ctxSize: ctxSize, threads: threads}
}

// Architectures lists the model families the llama backend understands.
func (l *LlamaLoader) Architectures() []types.Architecture {
	out := make([]types.Architecture, len(architectures))
	copy(out, architectures)
	return out
}

// resolvePath maps a model id to a weights file under the models directory.
// Absolute paths and ids already carrying the .gguf extension are accepted
// verbatim; otherwise ".gguf" is appended.
func (l *LlamaLoader) resolvePath(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("empty model id")
	}
	p := id
	if !filepath.IsAbs(p) {
		base, err := expandHome(l.modelsDir)
		if err != nil {
			return "", err
		}
		p = filepath.Join(base, p)
	}
	if !strings.HasSuffix(strings.ToLower(p), ".gguf") {
		p += ".gguf"
	}
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("model weights not found: %w", err)
	}
	return p, nil
}

// expandHome expands a leading '~' to the user's home directory.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
