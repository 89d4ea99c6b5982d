package probe

import (
	"testing"

	"github.com/rs/zerolog"
)

// fakeEnv answers the capability questions from fixed fields.
type fakeEnv struct {
	wasm, compute, render, shared bool
	panicOn                       string
}

func (f fakeEnv) HasWASMRuntime() bool {
	if f.panicOn == "wasm" {
		panic("wasm check exploded")
	}
	return f.wasm
}

func (f fakeEnv) HasGPUCompute() bool {
	if f.panicOn == "compute" {
		panic("compute check exploded")
	}
	return f.compute
}

func (f fakeEnv) HasGPURender() bool { return f.render }
func (f fakeEnv) HasSharedMem() bool { return f.shared }

func TestProbeNoWASMIsUnsupported(t *testing.T) {
	p := New(fakeEnv{wasm: false, compute: true, render: true, shared: true}, zerolog.Nop())
	info := p.Probe()
	if info.Supported {
		t.Fatalf("expected unsupported without a wasm runtime")
	}
	if info.GPUComputeAvailable || info.GPURenderAvailable {
		t.Fatalf("graphics backends must not be probed without a wasm runtime: %+v", info)
	}
}

func TestProbeSupportIsComputeOrRender(t *testing.T) {
	cases := []struct {
		name            string
		compute, render bool
		wantSupported   bool
	}{
		{"compute only", true, false, true},
		{"render only", false, true, true},
		{"both", true, true, true},
		{"neither", false, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := New(fakeEnv{wasm: true, compute: tc.compute, render: tc.render}, zerolog.Nop())
			info := p.Probe()
			if info.Supported != tc.wantSupported {
				t.Fatalf("supported=%v want %v", info.Supported, tc.wantSupported)
			}
			if info.GPUComputeAvailable != tc.compute || info.GPURenderAvailable != tc.render {
				t.Fatalf("backend flags not recorded verbatim: %+v", info)
			}
		})
	}
}

func TestProbeSharedMemDoesNotGateSupport(t *testing.T) {
	p := New(fakeEnv{wasm: true, compute: true, shared: false}, zerolog.Nop())
	if info := p.Probe(); !info.Supported || info.SharedMemAvailable {
		t.Fatalf("shared memory must be informational only: %+v", info)
	}
}

func TestProbeFailsClosedOnPanic(t *testing.T) {
	for _, stage := range []string{"wasm", "compute"} {
		p := New(fakeEnv{wasm: true, compute: true, panicOn: stage}, zerolog.Nop())
		info := p.Probe()
		if info.Supported {
			t.Fatalf("panic in %s check must yield unsupported", stage)
		}
	}
}
