package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// Tool-call output grammar. Engines that support tool calling emit these
// markers as standalone fragments: an open marker switches the active call
// slot, and every fragment until ToolEndMarker (or another open marker)
// belongs to that slot's argument stream. Slot switches are always explicit;
// nothing is inferred from fragment content.
const (
	ToolMarkerPrefix = "<|tool:"
	ToolMarkerSuffix = "|>"
	ToolEndMarker    = "<|tool_end|>"
)

// ToolMarker formats the open/switch marker for a call slot.
func ToolMarker(index int, name string) string {
	return fmt.Sprintf("%s%d:%s%s", ToolMarkerPrefix, index, name, ToolMarkerSuffix)
}

// ParseToolMarker recognizes an open/switch marker fragment. It returns the
// slot index and function name, or ok=false for ordinary text fragments.
func ParseToolMarker(frag string) (index int, name string, ok bool) {
	if !strings.HasPrefix(frag, ToolMarkerPrefix) || !strings.HasSuffix(frag, ToolMarkerSuffix) {
		return 0, "", false
	}
	body := frag[len(ToolMarkerPrefix) : len(frag)-len(ToolMarkerSuffix)]
	idxStr, fn, found := strings.Cut(body, ":")
	if !found || fn == "" {
		return 0, "", false
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 0 {
		return 0, "", false
	}
	return idx, fn, true
}
