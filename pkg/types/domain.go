package types

// Model represents a discoverable or loadable LLM model on disk.
type Model struct {
	// Stable identifier for the model.
	// example: tinyllama-q4
	ID string `json:"id" example:"tinyllama-q4"`
	// Human-friendly name.
	// example: TinyLlama (Q4)
	Name string `json:"name" example:"TinyLlama (Q4)"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/TinyLlama.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/TinyLlama.Q4_K_M.gguf"`
	// Quantization level or variant string.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// Optional family (e.g., llama, mistral, phi).
	// example: llama
	Family string `json:"family,omitempty" example:"llama"`
}

// Role identifies the author of a chat message. The set is closed; Valid
// reports membership for callers that accept roles from outside.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleFunction  Role = "function"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant, RoleFunction:
		return true
	}
	return false
}

// ChatMessage is the request/response unit exchanged with the engine.
type ChatMessage struct {
	// Author of the message: system, user, assistant or function.
	// example: user
	Role Role `json:"role" example:"user"`
	// Message text.
	// example: Write a haiku about the ocean.
	Content string `json:"content" example:"Write a haiku about the ocean."`
}
