package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"mlxd/pkg/types"
)

// sseDone is the end-of-stream sentinel recognized by OpenAI clients.
const sseDone = "data: [DONE]\n\n"

// Framer serializes a session's event sequence into the wire format: one SSE
// chunk per delta in streaming mode, or one buffered response object in
// non-streaming mode. Both modes consume the same event sequence; there is no
// separate non-streaming generation path.
type Framer struct {
	model   string
	id      string
	created int64
}

// NewFramer tags all output with the request's model id.
func NewFramer(model string) *Framer {
	now := time.Now()
	return &Framer{
		model:   model,
		id:      fmt.Sprintf("chatcmpl-%d", now.UnixNano()),
		created: now.Unix(),
	}
}

// Stream writes one SSE chunk per event with a monotonically increasing chunk
// index, terminated by the [DONE] sentinel. If ctx is canceled mid-stream the
// session stops pulling at the next fragment boundary and no further chunk —
// sentinel included — is written. Engine failures surface as a terminal error
// chunk before the sentinel, and the generation error is returned for logging.
func (f *Framer) Stream(ctx context.Context, w io.Writer, flush func(), s *Session) error {
	idx := 0
	err := s.Run(ctx, func(ev Event) error {
		chunk := f.chunk(idx, ev)
		idx++
		return writeSSE(w, flush, chunk)
	})
	if err != nil && !IsGeneration(err) {
		return err
	}
	if werr := writeSentinel(w, flush); werr != nil {
		return werr
	}
	return err
}

// Collect consumes the full event sequence and assembles the single response
// object for non-streaming mode.
func (f *Framer) Collect(ctx context.Context, s *Session) (types.ChatCompletionResponse, error) {
	var content strings.Builder
	reason := FinishStop
	err := s.Run(ctx, func(ev Event) error {
		switch ev.Kind {
		case EventText:
			content.WriteString(ev.Text)
		case EventEnd:
			reason = ev.FinishReason
		}
		// Tool deltas are reconciled by the accumulator; the final list is
		// read back once the sequence ends.
		return nil
	})
	if err != nil {
		return types.ChatCompletionResponse{}, err
	}
	return types.ChatCompletionResponse{
		ID:      f.id,
		Object:  "chat.completion",
		Created: f.created,
		Model:   f.model,
		Choices: []types.ChatCompletionChoice{{
			Index:        0,
			Message:      types.ChatMessage{Role: "assistant", Content: content.String()},
			FinishReason: reason,
		}},
		ToolCalls: s.Calls(),
		Usage:     s.Usage(),
	}, nil
}

// chunk converts one event into a wire chunk.
func (f *Framer) chunk(idx int, ev Event) types.ChatCompletionChunk {
	ch := types.ChatCompletionChunk{
		ID:         f.id,
		Object:     "chat.completion.chunk",
		Created:    f.created,
		Model:      f.model,
		ChunkIndex: idx,
		Choices:    []types.ChunkChoice{{Index: 0}},
	}
	if idx == 0 {
		ch.Choices[0].Delta.Role = "assistant"
	}
	switch ev.Kind {
	case EventText:
		ch.Choices[0].Delta.Content = ev.Text
	case EventToolDelta:
		d := types.ToolCallDelta{Index: ev.Tool.Index}
		if ev.Tool.Name != "" {
			d.ID = fmt.Sprintf("call_%d", ev.Tool.Index)
			d.Type = "function"
			d.Function.Name = ev.Tool.Name
		}
		d.Function.Arguments = ev.Tool.Arguments
		ch.Choices[0].Delta.ToolCalls = []types.ToolCallDelta{d}
	case EventEnd:
		ch.Choices[0].FinishReason = ev.FinishReason
		if ev.Err != nil {
			ch.Error = ev.Err.Error()
		}
	}
	return ch
}

func writeSSE(w io.Writer, flush func(), chunk types.ChatCompletionChunk) error {
	b, err := json.Marshal(chunk)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
		return err
	}
	if flush != nil {
		flush()
	}
	return nil
}

func writeSentinel(w io.Writer, flush func()) error {
	if _, err := io.WriteString(w, sseDone); err != nil {
		return err
	}
	if flush != nil {
		flush()
	}
	return nil
}
