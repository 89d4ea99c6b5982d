package types

// InitializeRequest is the payload for POST /initialize.
type InitializeRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: tinyllama-q4
	Model string `json:"model,omitempty" example:"tinyllama-q4"`
}

// InitializeResponse reports the outcome of an initialize attempt.
type InitializeResponse struct {
	// True when a live session exists after the call.
	// example: true
	Initialized bool `json:"initialized" example:"true"`
	// Progress state at the end of the attempt.
	InitProgress InitProgress `json:"init_progress"`
}

// GenerateRequest represents a generation request payload. Absent sampling
// parameters are passed through to the engine as unset so its defaults
// apply; temperature alone defaults to 0.7 at the lifecycle layer.
type GenerateRequest struct {
	// Required prompt text.
	// example: Write a haiku about the ocean.
	Prompt string `json:"prompt" example:"Write a haiku about the ocean."`
	// Sampling temperature (higher = more random). A value of 0 is treated
	// as absent and replaced by the 0.7 default, so greedy sampling is not
	// reachable through this field.
	// example: 0.7
	Temperature float64 `json:"temperature,omitempty" example:"0.7"`
	// Maximum number of new tokens to generate.
	// example: 128
	MaxTokens int `json:"max_tokens,omitempty" example:"128"`
	// Nucleus sampling probability.
	// example: 0.9
	TopP float64 `json:"top_p,omitempty" example:"0.9"`
	// Top-K sampling: limit candidates to top K tokens.
	// example: 40
	TopK int `json:"top_k,omitempty" example:"40"`
	// Repetition penalty applied by some backends.
	// example: 1.1
	RepetitionPenalty float64 `json:"repetition_penalty,omitempty" example:"1.1"`
	// Optional stop sequences. Generation stops when any sequence matches.
	// example: ["\n\n","END"]
	Stop []string `json:"stop,omitempty" example:"[\"\\n\\n\",\"END\"]"`
}

// GenerateStatus tags a GenerateResponse as success or error.
type GenerateStatus string

const (
	GenerateSuccess GenerateStatus = "success"
	GenerateError   GenerateStatus = "error"
)

// GenerateResponse is the outcome of one generation call. Exactly one of
// Text and Error is meaningful: Text is empty on error and Error is empty
// on success.
type GenerateResponse struct {
	// Outcome of the call: success or error.
	// example: success
	Status GenerateStatus `json:"status" example:"success"`
	// Generated text. Empty on error.
	Text string `json:"text"`
	// Human-readable failure message. Empty on success.
	Error string `json:"error,omitempty"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Progress state of the current or last initialize attempt.
	InitProgress InitProgress `json:"init_progress"`
	// True when a live session exists.
	// example: true
	Initialized bool `json:"initialized" example:"true"`
	// Host support verdict from the capability probe.
	// example: true
	Supported bool `json:"supported" example:"true"`
	// Probe snapshot, zero-valued until the probe has run.
	SystemInfo SystemInfo `json:"system_info"`
	// Model currently served, empty before a successful initialize.
	// example: tinyllama-q4
	Model string `json:"model,omitempty" example:"tinyllama-q4"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
	// Total initialize attempts since start.
	// example: 2
	InitAttemptsTotal uint64 `json:"init_attempts_total" example:"2"`
	// Total generation calls since start.
	// example: 12
	GenerationsTotal uint64 `json:"generations_total" example:"12"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
