package session

import (
	"context"
	"errors"

	"mlxd/internal/engine"
	"mlxd/internal/registry"
	"mlxd/pkg/types"
)

// Defaults applied when the request leaves generation parameters unset.
const (
	DefaultMaxTokens   = 100
	DefaultTemperature = 0.2
)

// errBudget stops the engine once the session's token budget is spent.
var errBudget = errors.New("token budget exhausted")

// Session drives one request's generation to completion and exposes it as a
// single ordered event sequence, independent of streaming vs non-streaming
// transport. The session enforces the token budget itself even if the engine
// does not, and reconciles tool-call fragments into per-slot accumulators.
type Session struct {
	handle *registry.Handle
	req    types.ChatCompletionRequest
	params engine.Params
	acc    *accumulator
	steps  int
}

// New prepares a session on an acquired handle. The caller keeps ownership of
// the handle reference and releases it after the session ends.
func New(h *registry.Handle, req types.ChatCompletionRequest) *Session {
	p := engine.Params{MaxTokens: req.MaxTokens, Temperature: req.Temperature}
	if p.MaxTokens <= 0 {
		p.MaxTokens = DefaultMaxTokens
	}
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	return &Session{handle: h, req: req, params: p, acc: newAccumulator()}
}

// Run pumps the engine and invokes emit for every event, strictly in order:
// fragment N is fully processed before fragment N+1 is requested. Exactly one
// terminal event is emitted unless ctx is canceled or the sink fails first.
// Errors returned by emit propagate unchanged; engine failures are emitted as
// a terminal error event and returned as a generation error.
func (s *Session) Run(ctx context.Context, emit func(Event) error) error {
	in, err := s.handle.Processor().Render(s.req.Messages, s.req.Tools, s.req.Image)
	if err != nil {
		_ = emit(Event{Kind: EventEnd, FinishReason: FinishError, Err: err})
		return ErrGeneration(err)
	}

	toolsEnabled := len(s.req.Tools) > 0
	budgetHit := false

	genErr := s.handle.Engine().Generate(ctx, in, s.params, func(frag string) error {
		// Cancellation is honored at fragment boundaries only.
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.steps >= s.params.MaxTokens {
			budgetHit = true
			return errBudget
		}
		s.steps++
		fragmentsMetric.Inc()

		if toolsEnabled {
			if idx, name, ok := engine.ParseToolMarker(frag); ok {
				s.acc.open(idx, name)
				return s.send(emit, Event{Kind: EventToolDelta, Tool: &ToolDelta{Index: idx, Name: name}})
			}
			if frag == engine.ToolEndMarker {
				s.acc.close()
				return nil
			}
			if idx := s.acc.activeIndex(); idx >= 0 {
				s.acc.append(frag)
				return s.send(emit, Event{Kind: EventToolDelta, Tool: &ToolDelta{Index: idx, Arguments: frag}})
			}
		}
		return s.send(emit, Event{Kind: EventText, Text: frag})
	})

	if genErr != nil && !errors.Is(genErr, errBudget) {
		var se sinkError
		if errors.As(genErr, &se) {
			return se.cause
		}
		if ctx.Err() != nil {
			// Client went away or the server is shutting down: stop pulling,
			// emit nothing further.
			return ctx.Err()
		}
		_ = emit(Event{Kind: EventEnd, FinishReason: FinishError, Err: genErr})
		return ErrGeneration(genErr)
	}

	reason := FinishStop
	switch {
	case s.acc.nonEmpty():
		reason = FinishToolCalls
	case budgetHit:
		reason = FinishLength
	}
	completionsMetric.WithLabelValues(reason).Inc()
	if err := emit(Event{Kind: EventEnd, FinishReason: reason}); err != nil {
		return err
	}
	return nil
}

// send wraps sink failures so Run can tell them apart from engine failures.
func (s *Session) send(emit func(Event) error, ev Event) error {
	if err := emit(ev); err != nil {
		return sinkError{cause: err}
	}
	return nil
}

// Calls returns the reconciled tool-call list after Run completes.
func (s *Session) Calls() []types.ToolCall { return s.acc.calls() }

// Usage reports token accounting for the session. Prompt token counts are
// not available from the engine boundary.
func (s *Session) Usage() types.Usage {
	return types.Usage{CompletionTokens: s.steps, TotalTokens: s.steps}
}
