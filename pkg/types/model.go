package types

// ModelKind classifies a model by required input shape.
type ModelKind string

const (
	// KindText is a text-only language model.
	KindText ModelKind = "text"
	// KindVision is a vision+text model that requires an image input.
	KindVision ModelKind = "vision"
)

// Valid reports whether k is a known model kind.
func (k ModelKind) Valid() bool {
	return k == KindText || k == KindVision
}

// ResidentModel is one entry in the registry's resident listing.
type ResidentModel struct {
	// Stable identifier for the model (repository path or name).
	// example: mlx-community/Meta-Llama-3-8B-Instruct-4bit
	ID string `json:"id" example:"mlx-community/Meta-Llama-3-8B-Instruct-4bit"`
	// Kind of the model: text or vision.
	// example: text
	Kind ModelKind `json:"kind" example:"text"`
}

// ModelInfo is one model entry in the OpenAI-compliant list format.
type ModelInfo struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	OwnedBy string    `json:"owned_by"`
	Kind    ModelKind `json:"kind,omitempty"`
}

// ModelList is the OpenAI-compliant response for GET /v1/models.
type ModelList struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

// Architecture describes a model family the loader understands, independent
// of what is currently resident.
type Architecture struct {
	// Family name understood by the loader.
	// example: llama
	Family string `json:"family" example:"llama"`
	// Kind of models in this family.
	// example: text
	Kind ModelKind `json:"kind" example:"text"`
}

// SupportedModels groups loader architecture families by kind for
// GET /v1/supported_models.
type SupportedModels struct {
	Vision []string `json:"vlm"`
	Text   []string `json:"lm"`
}
