package lifecycle

import (
	"context"
	"fmt"
	"time"

	"sessiond/internal/engine"
	"sessiond/pkg/types"
)

// Initialize drives one initialize attempt: probe the host if needed, ask
// the engine for a session, and relay its progress events into InitProgress.
// It returns true when a live session exists afterwards.
//
// Calling Initialize when already Ready is a no-op returning true. Calling
// it concurrently with an in-flight attempt coalesces: the later caller
// waits for the in-flight attempt and returns its outcome. A failed attempt
// is retried by calling Initialize again.
func (m *Manager) Initialize(ctx context.Context, modelID string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Str("panic", fmt.Sprint(r)).Msg("initialize panicked")
			m.mu.Lock()
			m.lastInitErr = fmt.Errorf("initialize panicked: %v", r)
			m.mu.Unlock()
			ok = false
		}
	}()

	if modelID == "" {
		modelID = m.defaultModel
	}

	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return true
	}
	if wait := m.initWait; wait != nil {
		m.mu.Unlock()
		select {
		case <-wait:
		case <-ctx.Done():
			return false
		}
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.initialized
	}
	wait := make(chan struct{})
	m.initWait = wait
	m.initAttempts++
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.initWait = nil
		m.mu.Unlock()
		close(wait)
	}()

	return m.initialize(ctx, modelID)
}

// initialize runs the attempt body. The caller holds the in-flight gate, so
// at most one invocation runs at a time.
func (m *Manager) initialize(ctx context.Context, modelID string) bool {
	start := time.Now()
	info := m.Probe()
	if !info.Supported {
		err := ErrUnsupported()
		m.mu.Lock()
		m.lastInitErr = err
		m.progress = types.InitProgress{Text: err.Error(), Status: types.InitError}
		m.broadcastLocked()
		m.mu.Unlock()
		m.log.Warn().Str("model", modelID).Msg("initialize rejected, host unsupported")
		m.publisher.Publish(Event{Name: "init_unsupported", ModelID: modelID})
		initAttemptsTotal.WithLabelValues("unsupported").Inc()
		return false
	}

	m.setProgress(0, "Initializing model "+modelID, types.InitInitializing)
	m.log.Info().Str("model", modelID).Msg("initialize start")
	m.publisher.Publish(Event{Name: "init_start", ModelID: modelID})

	sess, err := m.engine.NewSession(ctx, modelID, m.relayProgress)
	if err != nil {
		// Keep the last reported progress value; only status and text change.
		m.mu.Lock()
		m.lastInitErr = err
		m.progress.Status = types.InitError
		m.progress.Text = "Initialization failed: " + err.Error()
		m.broadcastLocked()
		m.mu.Unlock()
		m.log.Error().Err(err).Str("model", modelID).Msg("initialize failed")
		m.publisher.Publish(Event{Name: "init_error", ModelID: modelID, Fields: map[string]any{"error": err.Error()}})
		initAttemptsTotal.WithLabelValues("error").Inc()
		return false
	}

	m.mu.Lock()
	m.session = sess
	m.initialized = true
	m.model = modelID
	m.lastInitErr = nil
	m.progress = types.InitProgress{Progress: 1, Text: "Model " + modelID + " ready", Status: types.InitSuccess}
	m.broadcastLocked()
	m.mu.Unlock()

	m.enrichGPUVendor(ctx, sess)

	m.log.Info().Str("model", modelID).Dur("dur", time.Since(start)).Msg("initialize ready")
	m.publisher.Publish(Event{Name: "init_ready", ModelID: modelID, Fields: map[string]any{"dur_ms": int(time.Since(start) / time.Millisecond)}})
	initAttemptsTotal.WithLabelValues("success").Inc()
	return true
}

// relayProgress maps an engine progress report into InitProgress. Engine
// values are trusted verbatim within the [0,1] contract, and only apply
// while an attempt is initializing.
func (m *Manager) relayProgress(r engine.ProgressReport) {
	p := r.Progress
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.progress.Status != types.InitInitializing {
		return
	}
	m.progress.Progress = p
	m.progress.Text = r.Text
	m.broadcastLocked()
}

// enrichGPUVendor queries the accelerator vendor string as a best-effort
// enrichment; failure never fails the overall initialize call.
func (m *Manager) enrichGPUVendor(ctx context.Context, sess engine.Session) {
	vendor, err := sess.GPUVendor(ctx)
	if err != nil {
		m.log.Debug().Err(err).Msg("gpu vendor query failed")
		return
	}
	if vendor == "" {
		return
	}
	m.mu.Lock()
	m.sysinfo.GPUVendor = vendor
	m.broadcastLocked()
	m.mu.Unlock()
}

func (m *Manager) setProgress(p float64, text string, status types.InitStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = types.InitProgress{Progress: p, Text: text, Status: status}
	m.broadcastLocked()
}
