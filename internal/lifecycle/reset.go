package lifecycle

import "context"

// ResetChat clears the engine's conversation state. Best effort: a no-op
// without a session, and a reset failure is logged and swallowed, never
// surfaced to the caller.
func (m *Manager) ResetChat(ctx context.Context) {
	m.mu.Lock()
	sess := m.session
	m.mu.Unlock()
	if sess == nil {
		return
	}
	if err := sess.Reset(ctx); err != nil {
		m.log.Warn().Err(err).Msg("chat reset failed")
		m.publisher.Publish(Event{Name: "reset_error", ModelID: m.Model(), Fields: map[string]any{"error": err.Error()}})
		return
	}
	m.publisher.Publish(Event{Name: "reset", ModelID: m.Model()})
}
