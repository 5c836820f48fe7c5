package registry

import (
	"sync"
	"time"

	"mlxd/internal/engine"
	"mlxd/pkg/types"
)

// Handle is an owned reference to one resident model: the loaded engine plus
// its processor. The registry holds one reference for residency; every
// in-flight session holds its own. The engine is closed when the last
// reference is released, so an evict never interrupts dispatched sessions.
type Handle struct {
	id   string
	kind types.ModelKind
	eng  engine.Engine
	proc engine.Processor

	mu       sync.Mutex
	lastUsed time.Time
	refs     int
}

func newHandle(id string, kind types.ModelKind, eng engine.Engine, proc engine.Processor) *Handle {
	return &Handle{
		id:       id,
		kind:     kind,
		eng:      eng,
		proc:     proc,
		lastUsed: time.Now(),
		refs:     1, // registry residency reference
	}
}

// ID returns the canonical model id.
func (h *Handle) ID() string { return h.id }

// Kind returns the model kind.
func (h *Handle) Kind() types.ModelKind { return h.kind }

// Engine returns the loaded model runtime.
func (h *Handle) Engine() engine.Engine { return h.eng }

// Processor returns the model's pre/post-processing capability.
func (h *Handle) Processor() engine.Processor { return h.proc }

// Touch records a successful dispatch. Informational only; no automatic
// eviction keys off it.
func (h *Handle) Touch() {
	h.mu.Lock()
	h.lastUsed = time.Now()
	h.mu.Unlock()
}

// LastUsed returns the time of the last successful dispatch.
func (h *Handle) LastUsed() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastUsed
}

// Refs returns the current live reference count.
func (h *Handle) Refs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs
}

func (h *Handle) retain() {
	h.mu.Lock()
	h.refs++
	h.mu.Unlock()
}

// Release drops one reference. When the count reaches zero the underlying
// engine is closed and its resources reclaimed. Callers of Acquire must
// Release exactly once when their session ends.
func (h *Handle) Release() {
	h.mu.Lock()
	h.refs--
	closeNow := h.refs == 0
	h.mu.Unlock()
	if closeNow && h.eng != nil {
		_ = h.eng.Close()
	}
}
