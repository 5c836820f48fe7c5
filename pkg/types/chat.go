package types

// ChatMessage is a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Function describes a callable function exposed to the model.
type Function struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	// Parameters is a JSON-schema-like object describing the arguments.
	Parameters map[string]any `json:"parameters"`
}

// Tool wraps a function spec in the OpenAI tool envelope.
type Tool struct {
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// ChatCompletionRequest is the payload for POST /v1/chat/completions.
type ChatCompletionRequest struct {
	// Required model identifier.
	// example: mlx-community/Meta-Llama-3-8B-Instruct-4bit
	Model string `json:"model" example:"mlx-community/Meta-Llama-3-8B-Instruct-4bit"`
	// Ordered conversation messages. Must be non-empty.
	Messages []ChatMessage `json:"messages"`
	// Optional image reference (URL, path or base64). Required for vision
	// models, rejected for text-only models.
	Image string `json:"image,omitempty"`
	// Maximum number of new tokens to generate.
	// example: 100
	MaxTokens int `json:"max_tokens,omitempty" example:"100"`
	// Sampling temperature.
	// example: 0.2
	Temperature float64 `json:"temperature,omitempty" example:"0.2"`
	// If true, stream chunks as server-sent events.
	// example: false
	Stream bool `json:"stream,omitempty" example:"false"`
	// Optional tool/function specs the model may call.
	Tools []Tool `json:"tools,omitempty"`
	// Tool selection strategy. Not supported yet; requests carrying it are
	// rejected at validation time.
	ToolChoice string `json:"tool_choice,omitempty"`
}

// FunctionCall is a completed function invocation emitted by the model.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolCall is one reconciled tool call slot in a final response.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
	// Incomplete marks a call whose argument stream never closed before the
	// engine terminated. The accumulated prefix is kept as-is.
	Incomplete bool `json:"incomplete,omitempty"`
	// Error carries a per-slot problem (e.g. arguments are not valid JSON).
	Error string `json:"error,omitempty"`
}

// ChatCompletionChoice is a single completion choice.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage contains token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionResponse is the non-streaming response object.
type ChatCompletionResponse struct {
	ID        string                 `json:"id"`
	Object    string                 `json:"object"`
	Created   int64                  `json:"created"`
	Model     string                 `json:"model"`
	Choices   []ChatCompletionChoice `json:"choices"`
	ToolCalls []ToolCall             `json:"tool_calls,omitempty"`
	Usage     Usage                  `json:"usage"`
}

// FunctionCallDelta is an incremental fragment of a streamed function call.
type FunctionCallDelta struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCallDelta is a streamed tool-call fragment addressed by call slot.
type ToolCallDelta struct {
	Index    int               `json:"index"`
	ID       string            `json:"id,omitempty"`
	Type     string            `json:"type,omitempty"`
	Function FunctionCallDelta `json:"function"`
}

// ChunkDelta is the incremental payload of one streamed chunk.
type ChunkDelta struct {
	Role      string          `json:"role,omitempty"`
	Content   string          `json:"content,omitempty"`
	ToolCalls []ToolCallDelta `json:"tool_calls,omitempty"`
}

// ChunkChoice is a single choice within a streamed chunk.
type ChunkChoice struct {
	Index        int        `json:"index"`
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason,omitempty"`
}

// ChatCompletionChunk is one streamed event in a chat completion stream.
type ChatCompletionChunk struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	// ChunkIndex increases monotonically within one stream.
	ChunkIndex int           `json:"chunk_index"`
	Choices    []ChunkChoice `json:"choices"`
	// Error carries a terminal mid-stream failure instead of silently
	// truncating the stream.
	Error string `json:"error,omitempty"`
}
