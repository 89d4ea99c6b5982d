package blackbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) (int, func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	cleanup := func() { _ = ln.Close() }
	var port int
	fmt.Sscanf(portStr, "%d", &port)
	return port, cleanup
}

func projectRootFromThisFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	// this file: <root>/tests/blackbox/blackbox_test.go
	bbDir := filepath.Dir(thisFile)
	return filepath.Dir(filepath.Dir(bbDir))
}

func buildBinary(t *testing.T) string {
	t.Helper()
	root := projectRootFromThisFile(t)
	outDir := t.TempDir()
	binPath := filepath.Join(outDir, "sessiond")
	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/sessiond")
	cmd.Dir = root
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("go build failed: %v\n%s", err, string(out))
	}
	return binPath
}

func createTempModelsDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir
}

type serverProc struct {
	base string // http base URL, e.g. http://127.0.0.1:18080
}

func startServer(t *testing.T, bin, modelsDir, defaultModel string, port int) *serverProc {
	t.Helper()
	addr := fmt.Sprintf(":%d", port)
	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	args := []string{"--addr", addr, "--models-dir", modelsDir}
	if defaultModel != "" {
		args = append(args, "--model", defaultModel)
	}
	cmd := exec.Command(bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() { _ = cmd.Process.Kill() })
	// Wait for healthz
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(50 * time.Millisecond)
	}
	return &serverProc{base: base}
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func postJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

// The default build carries the stub engine, so a session can never become
// live. Everything asserted here is environment-independent: health, the
// not-initialized contracts, and the probe/status surfaces.
func TestBlackbox_Surface(t *testing.T) {
	bin := buildBinary(t)
	modelsDir := createTempModelsDir(t, "alpha.gguf")
	port, release := findFreePort(t)
	release()
	sp := startServer(t, bin, modelsDir, "alpha", port)

	// /readyz before any initialize
	resp, body := get(t, sp.base+"/readyz")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz initial %d %s", resp.StatusCode, string(body))
	}

	// /generate before initialize is rejected without touching the engine
	resp, body = postJSON(t, sp.base+"/generate", []byte(`{"prompt":"hi"}`))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("/generate expected 409, got %d %s", resp.StatusCode, string(body))
	}
	var gen struct {
		Status string `json:"status"`
		Text   string `json:"text"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &gen); err != nil {
		t.Fatalf("/generate json: %v body=%s", err, string(body))
	}
	if gen.Status != "error" || gen.Text != "" || gen.Error == "" {
		t.Fatalf("/generate unexpected body: %+v", gen)
	}

	// /reset is best-effort and always succeeds
	resp, body = postJSON(t, sp.base+"/reset", nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("/reset expected 204, got %d %s", resp.StatusCode, string(body))
	}

	// /probe returns a snapshot either way
	resp, body = get(t, sp.base+"/probe")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/probe %d %s", resp.StatusCode, string(body))
	}
	var info struct {
		Supported bool `json:"supported"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		t.Fatalf("/probe json: %v body=%s", err, string(body))
	}

	// /initialize cannot produce a live session in a stub build: the host is
	// unsupported or the engine is unavailable, and both map to 503.
	resp, body = postJSON(t, sp.base+"/initialize", []byte(`{}`))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/initialize expected 503, got %d %s", resp.StatusCode, string(body))
	}
	var init struct {
		Initialized  bool `json:"initialized"`
		InitProgress struct {
			Status string `json:"status"`
		} `json:"init_progress"`
	}
	if err := json.Unmarshal(body, &init); err != nil {
		t.Fatalf("/initialize json: %v body=%s", err, string(body))
	}
	if init.Initialized || init.InitProgress.Status != "error" {
		t.Fatalf("/initialize unexpected body: %+v", init)
	}

	// /status reflects the failed attempt
	resp, body = get(t, sp.base+"/status")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/status %d %s", resp.StatusCode, string(body))
	}
	var st struct {
		Initialized       bool   `json:"initialized"`
		InitAttemptsTotal uint64 `json:"init_attempts_total"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("/status json: %v body=%s", err, string(body))
	}
	if st.Initialized {
		t.Fatalf("expected initialized=false, body=%s", string(body))
	}
	if st.InitAttemptsTotal < 1 {
		t.Fatalf("expected at least one recorded attempt, body=%s", string(body))
	}
}
