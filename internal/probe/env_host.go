package probe

import (
	"os"
	"os/exec"
	"path/filepath"
)

// HostEnvironment inspects the real machine. Every check degrades to false
// on error; operators can force individual answers through SESSIOND_FORCE_*
// environment variables ("1"/"0") when autodetection misreads a host.
type HostEnvironment struct{}

func forced(name string) (bool, bool) {
	switch os.Getenv(name) {
	case "1":
		return true, true
	case "0":
		return false, true
	}
	return false, false
}

// HasWASMRuntime looks for a standalone WASM runtime on PATH.
func (HostEnvironment) HasWASMRuntime() bool {
	if v, ok := forced("SESSIOND_FORCE_WASM"); ok {
		return v
	}
	for _, bin := range []string{"wasmtime", "wasmer", "wazero", "node"} {
		if _, err := exec.LookPath(bin); err == nil {
			return true
		}
	}
	return false
}

// HasGPUCompute looks for a GPU compute interface: DRM render nodes, an
// NVIDIA character device, or installed Vulkan ICDs.
func (HostEnvironment) HasGPUCompute() bool {
	if v, ok := forced("SESSIOND_FORCE_GPU_COMPUTE"); ok {
		return v
	}
	if matches, err := filepath.Glob("/dev/dri/renderD*"); err == nil && len(matches) > 0 {
		return true
	}
	if _, err := os.Stat("/dev/nvidia0"); err == nil {
		return true
	}
	for _, dir := range []string{"/usr/share/vulkan/icd.d", "/etc/vulkan/icd.d"} {
		if matches, err := filepath.Glob(filepath.Join(dir, "*.json")); err == nil && len(matches) > 0 {
			return true
		}
	}
	return false
}

// HasGPURender looks for a legacy rendering interface: a display server to
// hand out surfaces, or GL/EGL libraries for headless offscreen contexts.
func (HostEnvironment) HasGPURender() bool {
	if v, ok := forced("SESSIOND_FORCE_GPU_RENDER"); ok {
		return v
	}
	if os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != "" {
		return true
	}
	for _, dir := range []string{"/usr/lib", "/usr/lib64", "/usr/lib/x86_64-linux-gnu", "/usr/lib/aarch64-linux-gnu"} {
		for _, lib := range []string{"libEGL.so*", "libGL.so*"} {
			if matches, err := filepath.Glob(filepath.Join(dir, lib)); err == nil && len(matches) > 0 {
				return true
			}
		}
	}
	return false
}

// HasSharedMem reports whether a writable shared-memory mount exists.
func (HostEnvironment) HasSharedMem() bool {
	if v, ok := forced("SESSIOND_FORCE_SHARED_MEM"); ok {
		return v
	}
	f, err := os.CreateTemp("/dev/shm", "sessiond-probe-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
