package types

// InitStatus is the phase of the current (or last) initialize attempt.
type InitStatus string

const (
	InitNotStarted   InitStatus = "not-started"
	InitInitializing InitStatus = "initializing"
	InitSuccess      InitStatus = "success"
	InitError        InitStatus = "error"
)

// InitProgress tracks one initialize attempt: fractional completion plus a
// human-readable description of the current phase. Progress is in [0,1] and
// never decreases while Status is InitInitializing.
type InitProgress struct {
	// Fraction of initialization completed, 0..1.
	// example: 0.42
	Progress float64 `json:"progress" example:"0.42"`
	// Human-readable description of the current phase or error.
	// example: Fetching model weights
	Text string `json:"text" example:"Fetching model weights"`
	// Phase of the attempt: not-started, initializing, success, error.
	// example: initializing
	Status InitStatus `json:"status" example:"initializing"`
}

// SystemInfo is an immutable snapshot of what the capability probe found on
// the host. GPUVendor is filled in lazily, after a session has been created
// at least once.
type SystemInfo struct {
	// Whether the host can run the engine at all.
	// example: true
	Supported bool `json:"supported" example:"true"`
	// A GPU compute interface is present.
	// example: true
	GPUComputeAvailable bool `json:"gpu_compute_available" example:"true"`
	// A legacy GPU rendering interface is present.
	// example: false
	GPURenderAvailable bool `json:"gpu_render_available" example:"false"`
	// A shared-memory cross-worker buffer primitive exists. Informational
	// only; does not gate support.
	// example: true
	SharedMemAvailable bool `json:"shared_mem_available" example:"true"`
	// Accelerator vendor string reported by the engine, empty until a
	// session has started.
	// example: NVIDIA
	GPUVendor string `json:"gpu_vendor,omitempty" example:"NVIDIA"`
}
