//go:build !llama

package engine

// This file provides a no-CGO stub for the llama engine. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real engine lives in llama.go (tagged 'llama').

import (
	"context"
)

// llamaEngine is a stub that satisfies Engine but refuses to create sessions
// without the 'llama' build tag. This avoids any mocked behavior in
// production binaries built without CGO support.
type llamaEngine struct {
	ctxSize int
	threads int
	resolve PathResolver
}

// NewLlamaEngine returns the llama.cpp-backed engine. In this build it fails
// fast on session creation.
func NewLlamaEngine(ctxSize, threads int, resolve PathResolver) Engine {
	return &llamaEngine{ctxSize: ctxSize, threads: threads, resolve: resolve}
}

func (e *llamaEngine) NewSession(ctx context.Context, modelID string, onProgress func(ProgressReport)) (Session, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return nil, ErrUnavailable("llama support not built (missing 'llama' build tag)")
}
