package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"mlxd/pkg/types"
)

// textProcessor renders chat messages into a plain prompt for text models.
// Models with native chat templates get them applied inside the backend;
// this is the generic fallback template.
type textProcessor struct {
	modelID string
}

// NewTextProcessor returns the generic text-model processor.
func NewTextProcessor(modelID string) Processor {
	return &textProcessor{modelID: modelID}
}

func (p *textProcessor) Render(msgs []types.ChatMessage, tools []types.Tool, image string) (Input, error) {
	if image != "" {
		return Input{}, fmt.Errorf("text model %q cannot accept an image", p.modelID)
	}
	var b strings.Builder
	if len(tools) > 0 {
		pre, err := toolPreamble(tools)
		if err != nil {
			return Input{}, err
		}
		b.WriteString("<|system|>\n")
		b.WriteString(pre)
		b.WriteString("\n")
	}
	for _, m := range msgs {
		b.WriteString("<|")
		b.WriteString(m.Role)
		b.WriteString("|>\n")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	b.WriteString("<|assistant|>\n")
	return Input{Prompt: b.String()}, nil
}

// toolPreamble builds the system instruction that teaches the model the
// tool-call output grammar and lists the available functions.
func toolPreamble(tools []types.Tool) (string, error) {
	specs := make([]types.Function, 0, len(tools))
	for _, t := range tools {
		specs = append(specs, t.Function)
	}
	js, err := json.Marshal(specs)
	if err != nil {
		return "", fmt.Errorf("marshal tool specs: %w", err)
	}
	var b strings.Builder
	b.WriteString("You have access to the following functions:\n")
	b.Write(js)
	b.WriteString("\nTo call a function, emit ")
	b.WriteString(ToolMarkerPrefix)
	b.WriteString("INDEX:NAME")
	b.WriteString(ToolMarkerSuffix)
	b.WriteString(" on its own, then the JSON arguments, then ")
	b.WriteString(ToolEndMarker)
	b.WriteString(". Use a distinct INDEX per parallel call.")
	return b.String(), nil
}
