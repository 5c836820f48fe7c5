package session

import (
	"strings"

	"mlxd/pkg/types"
)

// Classify determines the model kind a request requires and validates the
// fields that kind demands: vision iff an image is present, text otherwise.
// Unfinished wire features (streamed tool-call deltas, tool_choice) are
// rejected here explicitly rather than silently degraded.
func Classify(req types.ChatCompletionRequest) (types.ModelKind, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", ErrValidation("model is required")
	}
	if len(req.Messages) == 0 {
		return "", ErrValidation("messages must not be empty")
	}
	if req.ToolChoice != "" {
		return "", ErrUnsupported("tool_choice is not supported")
	}
	if len(req.Tools) > 0 && req.Stream {
		return "", ErrUnsupported("OpenAI-compliant streaming of tool calls is not supported; set stream=false when passing tools")
	}
	if strings.TrimSpace(req.Image) != "" {
		return types.KindVision, nil
	}
	return types.KindText, nil
}
