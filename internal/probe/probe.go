// Package probe determines whether the host can run the inference engine's
// compute backend. The check runs through an Environment so tests can fake
// hosts; the verdict is a one-shot SystemInfo snapshot that callers persist.
package probe

import (
	"fmt"

	"github.com/rs/zerolog"

	"sessiond/pkg/types"
)

// Environment answers the individual host capability questions. Methods may
// panic on broken hosts; Probe recovers and fails closed.
type Environment interface {
	// HasWASMRuntime reports whether a WASM execution facility exists. Without
	// one the engine cannot run at all, regardless of GPU backends.
	HasWASMRuntime() bool
	// HasGPUCompute reports whether a GPU compute interface is present.
	HasGPUCompute() bool
	// HasGPURender reports whether a legacy GPU rendering interface is
	// present, via a real backend handle or an offscreen surface query.
	HasGPURender() bool
	// HasSharedMem reports whether a shared-memory cross-worker buffer
	// primitive exists. Informational only.
	HasSharedMem() bool
}

// Prober runs the capability check against an Environment.
type Prober struct {
	env Environment
	log zerolog.Logger
}

// New returns a Prober over env. A nil env means the real host.
func New(env Environment, log zerolog.Logger) *Prober {
	if env == nil {
		env = HostEnvironment{}
	}
	return &Prober{env: env, log: log}
}

// Probe inspects the host once and returns the snapshot. It never panics
// outward: any failure while probing is logged and treated as unsupported.
func (p *Prober) Probe() (info types.SystemInfo) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Str("panic", fmt.Sprint(r)).Msg("capability probe failed, treating host as unsupported")
			info = types.SystemInfo{}
		}
	}()

	if !p.env.HasWASMRuntime() {
		p.log.Warn().Msg("no wasm execution facility, host unsupported")
		return types.SystemInfo{}
	}

	info.GPUComputeAvailable = p.env.HasGPUCompute()
	info.GPURenderAvailable = p.env.HasGPURender()
	info.SharedMemAvailable = p.env.HasSharedMem()
	info.Supported = info.GPUComputeAvailable || info.GPURenderAvailable

	p.log.Info().
		Bool("supported", info.Supported).
		Bool("gpu_compute", info.GPUComputeAvailable).
		Bool("gpu_render", info.GPURenderAvailable).
		Bool("shared_mem", info.SharedMemAvailable).
		Msg("capability probe complete")
	return info
}
