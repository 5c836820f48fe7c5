package registry

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"mlxd/internal/engine"
	"mlxd/pkg/types"
)

// Registry is the per-process store of resident model handles. It owns their
// lifecycle: load-on-demand with per-id coalescing, listing, and explicit
// eviction. There is no automatic eviction; operators evict via the API.
type Registry struct {
	mu      sync.RWMutex
	handles map[string]*Handle

	group  singleflight.Group
	loader engine.Loader
	pub    EventPublisher

	// maxResident is a soft cap on resident handles; 0 means unbounded.
	maxResident int

	loadsTotal     atomic.Uint64
	evictionsTotal atomic.Uint64
	startTime      time.Time
}

// Config encapsulates all tunables for Registry construction.
type Config struct {
	Loader      engine.Loader
	MaxResident int
	Publisher   EventPublisher
}

// New constructs a Registry. The registry is created at process start and
// torn down at shutdown; tests construct isolated instances.
func New(cfg Config) *Registry {
	r := &Registry{
		handles:     make(map[string]*Handle),
		loader:      cfg.Loader,
		maxResident: cfg.MaxResident,
		pub:         cfg.Publisher,
		startTime:   time.Now(),
	}
	if r.pub == nil {
		r.pub = noopPublisher{}
	}
	return r
}

// Acquire returns the resident handle for id, loading it first if absent.
// Concurrent callers racing on an unseen id are coalesced: exactly one load
// runs and every caller observes the same handle or the identical failure.
// A resident handle of a different kind yields a kind-mismatch error without
// touching the loader. The returned handle carries a reference the caller
// must Release when its session ends.
func (r *Registry) Acquire(ctx context.Context, id string, kind types.ModelKind) (*Handle, error) {
	for {
		r.mu.RLock()
		h := r.handles[id]
		r.mu.RUnlock()
		if h != nil {
			if h.kind != kind {
				return nil, kindMismatchError{id: id, have: h.kind, want: kind}
			}
			if r.retainLive(h) {
				h.Touch()
				return h, nil
			}
			// Evicted between lookup and retain; fall through to a fresh load.
		}

		v, err, _ := r.group.Do(id, func() (any, error) {
			return r.load(ctx, id, kind)
		})
		if err != nil {
			return nil, err
		}
		h = v.(*Handle)
		if h.kind != kind {
			// A coalesced waiter asked for a different kind than the load
			// that won the flight.
			return nil, kindMismatchError{id: id, have: h.kind, want: kind}
		}
		if r.retainLive(h) {
			h.Touch()
			return h, nil
		}
	}
}

// load performs the single-flight body: re-check residency, enforce the
// resident cap, call the external loader, and publish the handle. A failed
// load leaves no partially-constructed handle visible to waiters.
func (r *Registry) load(ctx context.Context, id string, kind types.ModelKind) (*Handle, error) {
	r.mu.RLock()
	if h := r.handles[id]; h != nil {
		r.mu.RUnlock()
		return h, nil
	}
	resident := len(r.handles)
	r.mu.RUnlock()

	if r.maxResident > 0 && resident >= r.maxResident {
		return nil, capacityError{id: id, limit: r.maxResident}
	}

	r.pub.Publish(Event{Name: "load_start", ModelID: id, Fields: map[string]any{"kind": string(kind)}})
	start := time.Now()
	eng, proc, err := r.loader.Load(ctx, id, kind)
	if err != nil {
		r.pub.Publish(Event{Name: "load_fail", ModelID: id, Fields: map[string]any{"error": err.Error()}})
		return nil, ErrLoadFailed(id, err)
	}
	h := newHandle(id, kind, eng, proc)

	r.mu.Lock()
	r.handles[id] = h
	resident = len(r.handles)
	r.mu.Unlock()

	r.loadsTotal.Add(1)
	loadsMetric.Inc()
	residentMetric.Set(float64(resident))
	r.pub.Publish(Event{Name: "load_ready", ModelID: id, Fields: map[string]any{
		"kind":   string(kind),
		"dur_ms": int(time.Since(start) / time.Millisecond),
	}})
	return h, nil
}

// retainLive adds a reference only while h is still the registered handle for
// its id, so callers never revive a handle a concurrent evict tore down.
func (r *Registry) retainLive(h *Handle) bool {
	r.mu.RLock()
	live := r.handles[h.id] == h
	if live {
		h.retain()
	}
	r.mu.RUnlock()
	return live
}

// List returns a snapshot of resident handles sorted by id.
func (r *Registry) List() []types.ResidentModel {
	r.mu.RLock()
	out := make([]types.ResidentModel, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, types.ResidentModel{ID: h.id, Kind: h.kind})
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Evict removes id from the registry and returns whether a handle existed.
// Sessions already dispatched on the handle keep their own reference; the
// engine is reclaimed once the last reference is released.
func (r *Registry) Evict(id string) bool {
	r.mu.Lock()
	h := r.handles[id]
	if h == nil {
		r.mu.Unlock()
		return false
	}
	delete(r.handles, id)
	resident := len(r.handles)
	r.mu.Unlock()

	r.evictionsTotal.Add(1)
	evictionsMetric.Inc()
	residentMetric.Set(float64(resident))
	r.pub.Publish(Event{Name: "evict", ModelID: id, Fields: map[string]any{}})
	h.Release() // residency reference
	return true
}

// Preload loads a model without keeping a session reference, for the explicit
// model-management surface.
func (r *Registry) Preload(ctx context.Context, id string, kind types.ModelKind) error {
	h, err := r.Acquire(ctx, id, kind)
	if err != nil {
		return err
	}
	h.Release()
	return nil
}

// Architectures lists the loader's static capability set, independent of
// what is currently resident.
func (r *Registry) Architectures() []types.Architecture {
	return r.loader.Architectures()
}

// Ready reports whether the registry can serve loads.
func (r *Registry) Ready() bool { return r.loader != nil }

// Status builds the /status projection.
func (r *Registry) Status() types.StatusResponse {
	r.mu.RLock()
	resident := make([]types.HandleStatus, 0, len(r.handles))
	for _, h := range r.handles {
		resident = append(resident, types.HandleStatus{
			ModelID:  h.id,
			Kind:     h.kind,
			LastUsed: h.LastUsed().Unix(),
			Refs:     h.Refs(),
		})
	}
	r.mu.RUnlock()
	sort.Slice(resident, func(i, j int) bool { return resident[i].ModelID < resident[j].ModelID })
	now := time.Now()
	return types.StatusResponse{
		Resident:       resident,
		MaxResident:    r.maxResident,
		LoadsTotal:     r.loadsTotal.Load(),
		EvictionsTotal: r.evictionsTotal.Load(),
		UptimeSeconds:  int64(now.Sub(r.startTime) / time.Second),
		ServerTimeUnix: now.Unix(),
	}
}
