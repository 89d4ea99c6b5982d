package lifecycle

import (
	"context"
	"fmt"
	"time"

	"sessiond/internal/engine"
	"sessiond/pkg/types"
)

// Generate runs one completion against the live session. It never panics
// outward: every failure becomes an error-status response, with the typed
// cause returned alongside so transports can map it (IsNotInitialized and
// friends). A call made before a successful initialize (including while one
// is in flight) is rejected without touching the engine.
func (m *Manager) Generate(ctx context.Context, req types.GenerateRequest) (resp types.GenerateResponse, rerr error) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Str("panic", fmt.Sprint(r)).Msg("generate panicked")
			rerr = fmt.Errorf("generate panicked: %v", r)
			resp = errorResponse(rerr.Error())
		}
	}()

	m.mu.Lock()
	sess := m.session
	ready := m.initialized
	m.generations++
	m.mu.Unlock()

	if !ready || sess == nil {
		m.publisher.Publish(Event{Name: "generate_rejected"})
		generationsTotal.WithLabelValues("rejected").Inc()
		err := ErrNotInitialized()
		return errorResponse(err.Error()), err
	}

	// No multi-turn history is kept here; the engine remembers whatever it
	// remembers internally.
	messages := []types.ChatMessage{
		{Role: types.RoleSystem, Content: m.systemPrompt},
		{Role: types.RoleUser, Content: req.Prompt},
	}
	params := engine.CompletionParams{
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
		TopP:              req.TopP,
		TopK:              req.TopK,
		RepetitionPenalty: req.RepetitionPenalty,
		Stop:              req.Stop,
	}
	if params.Temperature == 0 {
		params.Temperature = defaultTemperature
	}

	start := time.Now()
	text, err := sess.Complete(ctx, messages, params)
	generationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.log.Error().Err(err).Msg("generation failed")
		m.publisher.Publish(Event{Name: "generate_error", ModelID: m.Model(), Fields: map[string]any{"error": err.Error()}})
		generationsTotal.WithLabelValues("error").Inc()
		return errorResponse(err.Error()), err
	}

	m.publisher.Publish(Event{Name: "generate_ok", ModelID: m.Model(), Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
	generationsTotal.WithLabelValues("success").Inc()
	return types.GenerateResponse{Status: types.GenerateSuccess, Text: text}, nil
}

// Model returns the id of the model served by the live session, or "".
func (m *Manager) Model() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

func errorResponse(msg string) types.GenerateResponse {
	return types.GenerateResponse{Status: types.GenerateError, Error: msg}
}
