//go:build llama

package engine

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"

	"sessiond/pkg/types"
)

// llamaEngine loads models in-process through go-llama.cpp.
type llamaEngine struct {
	ctxSize int
	threads int
	resolve PathResolver
}

// NewLlamaEngine returns the llama.cpp-backed engine.
func NewLlamaEngine(ctxSize, threads int, resolve PathResolver) Engine {
	return &llamaEngine{ctxSize: ctxSize, threads: threads, resolve: resolve}
}

func (e *llamaEngine) NewSession(ctx context.Context, modelID string, onProgress func(ProgressReport)) (Session, error) {
	if strings.TrimSpace(modelID) == "" {
		return nil, errors.New("model id is empty")
	}
	path := modelID
	if e.resolve != nil {
		p, err := e.resolve(modelID)
		if err != nil {
			return nil, err
		}
		path = p
	}
	if onProgress != nil {
		onProgress(ProgressReport{Progress: 0, Text: "Loading model " + modelID})
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// go-llama.cpp exposes no load-progress hook, so the load itself is a
	// single coarse step.
	m, err := llama.New(path, llama.SetContext(e.ctxSize))
	if err != nil {
		return nil, err
	}
	if onProgress != nil {
		onProgress(ProgressReport{Progress: 1, Text: "Model " + modelID + " loaded"})
	}
	threads := e.threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &llamaSession{model: m, threads: threads}, nil
}

// llamaSession owns the loaded model.
type llamaSession struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
}

func (s *llamaSession) Complete(ctx context.Context, messages []types.ChatMessage, params CompletionParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return "", errors.New("llama model not initialized")
	}
	// Stop on context cancellation between tokens.
	s.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	text, err := s.model.Predict(RenderPrompt(messages), predictOptions(params, s.threads)...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (s *llamaSession) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model == nil {
		return errors.New("llama model not initialized")
	}
	// Each Complete renders the full message list, so there is no sticky
	// conversation state to clear beyond the token callback.
	s.model.SetTokenCallback(nil)
	return ctx.Err()
}

func (s *llamaSession) GPUVendor(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The llama.cpp bindings do not surface the accelerator vendor.
	return "", errors.New("gpu vendor not reported by llama backend")
}

func (s *llamaSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func zf(v float64, def float32) float32 {
	if v > 0 {
		return float32(v)
	}
	return def
}

// predictOptions converts CompletionParams into go-llama.cpp options,
// falling back to the binding defaults for unset values.
func predictOptions(params CompletionParams, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetThreads(threads),
		llama.SetTokens(zn(params.MaxTokens, 256)),
		llama.SetTemperature(zf(params.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetTopP(zf(params.TopP, llama.DefaultOptions.TopP)),
		llama.SetTopK(zn(params.TopK, llama.DefaultOptions.TopK)),
		llama.SetPenalty(zf(params.RepetitionPenalty, llama.DefaultOptions.Penalty)),
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
