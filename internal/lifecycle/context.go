package lifecycle

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying m, for handlers and other
// consumers reached through a context chain.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the Manager attached to ctx. It panics when none is
// attached: reading the shared state outside a NewContext scope is a
// configuration error, not a runtime condition to tolerate.
func FromContext(ctx context.Context) *Manager {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	if !ok {
		panic("lifecycle: FromContext called outside a NewContext scope")
	}
	return m
}
