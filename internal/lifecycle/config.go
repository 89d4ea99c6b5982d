package lifecycle

import (
	"time"

	"github.com/rs/zerolog"

	"sessiond/internal/engine"
	"sessiond/internal/probe"
	"sessiond/pkg/types"
)

// Defaults applied when corresponding ManagerConfig fields are unset.
const (
	defaultSystemPrompt = "You are a helpful AI assistant running locally on the user's machine."
	defaultTemperature  = 0.7
	defaultEngineCtx    = 2048
)

// ManagerConfig encapsulates all collaborators and tunables for Manager
// construction. Zero values mean "use the package default".
type ManagerConfig struct {
	Engine       engine.Engine
	Prober       *probe.Prober
	Publisher    EventPublisher
	Logger       zerolog.Logger
	DefaultModel string
	// SystemPrompt is prefixed to every generation request.
	SystemPrompt string
}

// NewWithConfig constructs a Manager from ManagerConfig.
func NewWithConfig(cfg ManagerConfig) *Manager {
	m := &Manager{
		engine:       cfg.Engine,
		prober:       cfg.Prober,
		publisher:    cfg.Publisher,
		log:          cfg.Logger,
		defaultModel: cfg.DefaultModel,
		systemPrompt: cfg.SystemPrompt,
		progress:     types.InitProgress{Status: types.InitNotStarted},
		subs:         make(map[int]chan Snapshot),
		startTime:    time.Now(),
	}
	if m.engine == nil {
		m.engine = engine.NewLlamaEngine(defaultEngineCtx, 0, nil)
	}
	if m.prober == nil {
		m.prober = probe.New(nil, m.log)
	}
	if m.publisher == nil {
		m.publisher = noopPublisher{}
	}
	if m.systemPrompt == "" {
		m.systemPrompt = defaultSystemPrompt
	}
	return m
}
