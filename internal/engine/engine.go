package engine

import (
	"context"

	"sessiond/pkg/types"
)

// ProgressReport is one progress event emitted by the engine while a
// session is being created.
type ProgressReport struct {
	Progress float64
	Text     string
}

// Engine abstracts the inference runtime consumed by the lifecycle manager.
// Concrete implementations (e.g., llama.cpp) satisfy this interface; the
// default build ships a stub that fails fast.
type Engine interface {
	// NewSession loads the given model and returns a live session. onProgress
	// may be invoked any number of times before NewSession returns; it is
	// never invoked afterwards. Implementations must return promptly when the
	// context is canceled.
	NewSession(ctx context.Context, modelID string, onProgress func(ProgressReport)) (Session, error)
}

// Session is a live handle to a loaded, ready-to-query model.
type Session interface {
	// Complete runs one chat completion and returns the generated text.
	Complete(ctx context.Context, messages []types.ChatMessage, params CompletionParams) (string, error)
	// Reset clears any conversation state the engine keeps internally.
	Reset(ctx context.Context) error
	// GPUVendor reports the accelerator vendor string, when known.
	GPUVendor(ctx context.Context) (string, error)
	// Close releases resources associated with the session.
	Close() error
}

// CompletionParams captures sampling parameters for one completion. Zero
// values mean "unset": the engine applies its own defaults.
type CompletionParams struct {
	Temperature       float64
	MaxTokens         int
	TopP              float64
	TopK              int
	RepetitionPenalty float64
	Stop              []string
}

// PathResolver maps a model id to an on-disk model path. Engines that load
// weights from disk use it; a nil resolver treats the id itself as the path.
type PathResolver func(modelID string) (string, error)

// unavailableError signals a missing runtime dependency (e.g., a binary
// built without llama support) so callers can report 503 instead of 500.
type unavailableError struct{ msg string }

func (e unavailableError) Error() string { return e.msg }

// ErrUnavailable constructs an unavailableError.
func ErrUnavailable(msg string) error { return unavailableError{msg: msg} }

// IsUnavailable reports whether err indicates a missing/failed runtime dependency.
func IsUnavailable(err error) bool {
	_, ok := err.(unavailableError)
	return ok
}
