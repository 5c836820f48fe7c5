package session

// EventKind discriminates generation events.
type EventKind int

const (
	// EventText is an incremental text delta.
	EventText EventKind = iota
	// EventToolDelta is an incremental tool-call fragment addressed by slot.
	EventToolDelta
	// EventEnd is the single terminal event of a session.
	EventEnd
)

// Finish reasons carried by the terminal event.
const (
	FinishStop      = "stop"
	FinishLength    = "length"
	FinishToolCalls = "tool_calls"
	FinishError     = "error"
)

// ToolDelta is one tool-call fragment: the opening delta carries the function
// name, subsequent deltas carry argument fragments.
type ToolDelta struct {
	Index     int
	Name      string
	Arguments string
}

// Event is one element of a generation session's output sequence. Events are
// strictly ordered; the session fully processes event N before requesting
// fragment N+1 from the engine.
type Event struct {
	Kind EventKind
	// Text is set for EventText.
	Text string
	// Tool is set for EventToolDelta.
	Tool *ToolDelta
	// FinishReason is set for EventEnd: stop, length, tool_calls or error.
	FinishReason string
	// Err carries the cause when FinishReason is error.
	Err error
}
