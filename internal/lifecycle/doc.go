// Package lifecycle owns the single inference session and the state machine
// around it: capability gating, the multi-stage initialize attempt with
// progress reporting, and the generate/reset operations. It is structured
// into small files by concern:
//
//   - manager.go: core Manager type, constructor, snapshot/status getters.
//   - config.go: ManagerConfig and package defaults; NewWithConfig applies defaults.
//   - initialize.go: the initialize attempt, in-flight coalescing, progress relay.
//   - generate.go: generation entry point and option defaulting.
//   - reset.go: best-effort chat reset.
//   - errors.go: error types and helpers (IsNotInitialized, IsUnsupported).
//   - events.go: EventPublisher and the noop default.
//   - eventpub_memory.go: in-memory publisher for tests.
//   - hub.go: state broadcast to subscribers (latest-wins delivery).
//   - context.go: attaching/retrieving the Manager on a context.Context.
//   - metrics.go: Prometheus counters and histograms.
//
// The Manager never panics across its public surface: every failure becomes
// a status field plus a human-readable message on the relevant state or
// response object, with the typed cause exposed through Generate's error
// return and InitError. Callers must branch on status or the error type
// (IsNotInitialized, IsUnsupported), never on message text. The one
// deliberate exception is FromContext, which panics on misconfiguration.
package lifecycle
