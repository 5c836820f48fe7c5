package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"mlxd/pkg/types"
)

// accumulator reconciles tool-call fragments into per-slot calls. Slots are
// keyed by the index the engine's grammar assigns; several slots may be open
// over the life of a stream (parallel calls), but at most one is active at a
// time: the one the last open/switch marker named.
type accumulator struct {
	slots  map[int]*callSlot
	order  []int
	active int // -1 when routing to text
}

type callSlot struct {
	index  int
	name   string
	args   strings.Builder
	closed bool
}

func newAccumulator() *accumulator {
	return &accumulator{slots: make(map[int]*callSlot), active: -1}
}

// open activates slot index, creating it on first sight. Re-opening an
// existing slot resumes appending to its argument stream.
func (a *accumulator) open(index int, name string) {
	s := a.slots[index]
	if s == nil {
		s = &callSlot{index: index, name: name}
		a.slots[index] = s
		a.order = append(a.order, index)
	}
	s.closed = false
	a.active = index
}

// close marks the active slot complete and routes back to text.
func (a *accumulator) close() {
	if s := a.slots[a.active]; s != nil {
		s.closed = true
	}
	a.active = -1
}

// activeIndex returns the active slot index, or -1 when in text mode.
func (a *accumulator) activeIndex() int { return a.active }

// append adds an argument fragment to the active slot.
func (a *accumulator) append(frag string) {
	if s := a.slots[a.active]; s != nil {
		s.args.WriteString(frag)
	}
}

// nonEmpty reports whether any slot was opened.
func (a *accumulator) nonEmpty() bool { return len(a.slots) > 0 }

// calls produces the reconciled tool-call list in slot order. A slot whose
// argument stream never closed is flagged incomplete; a closed slot whose
// arguments are not valid JSON carries a per-slot error. Neither is fabricated
// into well-formed data.
func (a *accumulator) calls() []types.ToolCall {
	if len(a.slots) == 0 {
		return nil
	}
	order := append([]int(nil), a.order...)
	sort.Ints(order)
	out := make([]types.ToolCall, 0, len(order))
	for _, idx := range order {
		s := a.slots[idx]
		call := types.ToolCall{
			ID:   fmt.Sprintf("call_%d", idx),
			Type: "function",
			Function: types.FunctionCall{
				Name:      s.name,
				Arguments: s.args.String(),
			},
		}
		if !s.closed {
			call.Incomplete = true
			call.Error = "tool call terminated before its argument stream closed"
		} else if !json.Valid([]byte(call.Function.Arguments)) {
			call.Error = "tool call arguments are not valid JSON"
		}
		out = append(out, call)
	}
	return out
}
