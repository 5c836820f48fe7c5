package types

// LoadModelRequest asks the server to preload a model.
type LoadModelRequest struct {
	// Model identifier to load.
	// example: mlx-community/Meta-Llama-3-8B-Instruct-4bit
	ModelName string `json:"model_name" example:"mlx-community/Meta-Llama-3-8B-Instruct-4bit"`
	// Kind of the model; defaults to "text" when omitted.
	// example: text
	Kind ModelKind `json:"kind,omitempty" example:"text"`
}

// LoadModelResponse reports the outcome of an explicit model load.
type LoadModelResponse struct {
	// Status of the operation.
	// example: success
	Status string `json:"status" example:"success"`
	// Human-readable detail.
	// example: Model added successfully
	Message string `json:"message" example:"Model added successfully"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: messages must not be empty
	Error string `json:"error" example:"messages must not be empty"`
	// Stable machine-readable error kind.
	// example: validation
	Kind string `json:"kind" example:"validation"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// HandleStatus summarizes one resident model handle for /status.
type HandleStatus struct {
	// ID of the resident model.
	// example: mlx-community/Meta-Llama-3-8B-Instruct-4bit
	ModelID string `json:"model_id" example:"mlx-community/Meta-Llama-3-8B-Instruct-4bit"`
	// Kind of the resident model.
	// example: text
	Kind ModelKind `json:"kind" example:"text"`
	// Last time this handle served a request (unix seconds).
	// example: 1700000000
	LastUsed int64 `json:"last_used_unix" example:"1700000000"`
	// Live references held on the handle (registry residency plus
	// in-flight sessions).
	// example: 1
	Refs int `json:"refs" example:"1"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Resident model handles.
	Resident []HandleStatus `json:"resident"`
	// Soft cap on resident models (0 = unbounded).
	// example: 0
	MaxResident int `json:"max_resident" example:"0"`
	// Total number of model loads performed.
	// example: 12
	LoadsTotal uint64 `json:"loads_total" example:"12"`
	// Total number of explicit evictions.
	// example: 3
	EvictionsTotal uint64 `json:"evictions_total" example:"3"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
