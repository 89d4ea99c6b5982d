package lifecycle

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"sessiond/internal/engine"
	"sessiond/internal/probe"
	"sessiond/pkg/types"
)

// fakeHost answers the capability questions from fixed fields.
type fakeHost struct {
	wasm, compute, render, shared bool
}

func (f fakeHost) HasWASMRuntime() bool { return f.wasm }
func (f fakeHost) HasGPUCompute() bool  { return f.compute }
func (f fakeHost) HasGPURender() bool   { return f.render }
func (f fakeHost) HasSharedMem() bool   { return f.shared }

func supportedHost() probe.Environment   { return fakeHost{wasm: true, compute: true, shared: true} }
func unsupportedHost() probe.Environment { return fakeHost{} }

// fakeEngine scripts session creation: progress reports, then either an
// error or a fakeSession. afterReport runs after each relayed report so
// tests can observe intermediate manager state.
type fakeEngine struct {
	mu          sync.Mutex
	sessions    int
	reports     []engine.ProgressReport
	err         error
	sess        *fakeSession
	block       chan struct{}
	afterReport func()
}

func (e *fakeEngine) NewSession(ctx context.Context, modelID string, onProgress func(engine.ProgressReport)) (engine.Session, error) {
	e.mu.Lock()
	e.sessions++
	e.mu.Unlock()
	if e.block != nil {
		select {
		case <-e.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	for _, r := range e.reports {
		onProgress(r)
		if e.afterReport != nil {
			e.afterReport()
		}
	}
	if e.err != nil {
		return nil, e.err
	}
	if e.sess == nil {
		e.sess = &fakeSession{text: "ok"}
	}
	return e.sess, nil
}

func (e *fakeEngine) sessionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions
}

type fakeSession struct {
	mu           sync.Mutex
	completes    int
	resets       int
	lastMessages []types.ChatMessage
	lastParams   engine.CompletionParams
	text         string
	completeErr  error
	resetErr     error
	vendor       string
	vendorErr    error
}

func (s *fakeSession) Complete(ctx context.Context, messages []types.ChatMessage, params engine.CompletionParams) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completes++
	s.lastMessages = append([]types.ChatMessage(nil), messages...)
	s.lastParams = params
	if s.completeErr != nil {
		return "", s.completeErr
	}
	return s.text, nil
}

func (s *fakeSession) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resets++
	return s.resetErr
}

func (s *fakeSession) GPUVendor(ctx context.Context) (string, error) {
	if s.vendorErr != nil {
		return "", s.vendorErr
	}
	return s.vendor, nil
}

func (s *fakeSession) Close() error { return nil }

func (s *fakeSession) completeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completes
}

// newTestManager wires a Manager over eng with a fake host environment.
func newTestManager(eng engine.Engine, env probe.Environment, pub EventPublisher) *Manager {
	return NewWithConfig(ManagerConfig{
		Engine:       eng,
		Prober:       probe.New(env, zerolog.Nop()),
		Publisher:    pub,
		Logger:       zerolog.Nop(),
		DefaultModel: "test-model",
	})
}
