package lifecycle

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"sessiond/internal/engine"
	"sessiond/internal/probe"
	"sessiond/pkg/types"
)

// Manager owns the single Session instance (or none), the InitProgress
// state machine, and the generate/reset operations. Exactly one session may
// exist at a time; ownership is exclusive.
type Manager struct {
	mu        sync.Mutex
	engine    engine.Engine
	prober    *probe.Prober
	publisher EventPublisher
	log       zerolog.Logger

	defaultModel string
	systemPrompt string

	probed      bool
	sysinfo     types.SystemInfo
	progress    types.InitProgress
	initialized bool
	session     engine.Session
	model       string
	lastInitErr error

	// initWait is non-nil while an initialize attempt is in flight; it is
	// closed when the attempt settles so concurrent callers can coalesce.
	initWait chan struct{}

	subs    map[int]chan Snapshot
	nextSub int

	startTime    time.Time
	initAttempts uint64
	generations  uint64
}

// Snapshot is a read-only projection of the manager state, re-broadcast to
// subscribers on every mutation.
type Snapshot struct {
	InitProgress types.InitProgress
	Initialized  bool
	Supported    bool
	SystemInfo   types.SystemInfo
	Model        string
}

// New constructs a Manager over eng with package defaults.
func New(eng engine.Engine, defaultModel string) *Manager {
	return NewWithConfig(ManagerConfig{Engine: eng, DefaultModel: defaultModel})
}

// Initialized reports whether a live session exists.
func (m *Manager) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Ready is an alias for Initialized, used by readiness checks.
func (m *Manager) Ready() bool { return m.Initialized() }

// Supported reports the probe verdict; false until the probe has run.
func (m *Manager) Supported() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.probed && m.sysinfo.Supported
}

// SystemInfo returns the probe snapshot, zero-valued before the first probe.
func (m *Manager) SystemInfo() types.SystemInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sysinfo
}

// InitError returns the typed cause of the last failed initialize attempt,
// nil while no attempt has failed. Transports branch on it with
// IsUnsupported and engine.IsUnavailable to pick a status code.
func (m *Manager) InitError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastInitErr
}

// InitProgress returns the progress state of the current or last attempt.
func (m *Manager) InitProgress() types.InitProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.progress
}

// Snapshot returns the current broadcastable state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	return Snapshot{
		InitProgress: m.progress,
		Initialized:  m.initialized,
		Supported:    m.probed && m.sysinfo.Supported,
		SystemInfo:   m.sysinfo,
		Model:        m.model,
	}
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	return types.StatusResponse{
		InitProgress:      m.progress,
		Initialized:       m.initialized,
		Supported:         m.probed && m.sysinfo.Supported,
		SystemInfo:        m.sysinfo,
		Model:             m.model,
		UptimeSeconds:     int64(time.Since(m.startTime) / time.Second),
		ServerTimeUnix:    time.Now().Unix(),
		InitAttemptsTotal: m.initAttempts,
		GenerationsTotal:  m.generations,
	}
}

// Probe runs the capability probe if it has not been evaluated yet and
// returns the (possibly cached) snapshot.
func (m *Manager) Probe() types.SystemInfo {
	m.mu.Lock()
	if m.probed {
		defer m.mu.Unlock()
		return m.sysinfo
	}
	m.mu.Unlock()

	info := m.prober.Probe()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.probed {
		m.probed = true
		// Keep a vendor string learned from an earlier session.
		info.GPUVendor = m.sysinfo.GPUVendor
		m.sysinfo = info
		m.broadcastLocked()
	}
	return m.sysinfo
}

// Close tears the manager down: the session is dropped and subscribers are
// closed. The manager must not be used afterwards.
func (m *Manager) Close() {
	m.mu.Lock()
	sess := m.session
	m.session = nil
	m.initialized = false
	for id, ch := range m.subs {
		delete(m.subs, id)
		close(ch)
	}
	m.mu.Unlock()
	if sess != nil {
		if err := sess.Close(); err != nil {
			m.log.Warn().Err(err).Msg("session close failed")
		}
	}
}
