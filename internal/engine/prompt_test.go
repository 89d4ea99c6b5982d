package engine

import (
	"strings"
	"testing"

	"sessiond/pkg/types"
)

func TestRenderPromptOrdersRoles(t *testing.T) {
	out := RenderPrompt([]types.ChatMessage{
		{Role: types.RoleSystem, Content: "Be terse."},
		{Role: types.RoleUser, Content: "hi"},
	})
	sysIdx := strings.Index(out, "Be terse.")
	userIdx := strings.Index(out, "User: hi")
	if sysIdx < 0 || userIdx < 0 {
		t.Fatalf("missing message content in prompt: %q", out)
	}
	if sysIdx > userIdx {
		t.Fatalf("system message must precede user message: %q", out)
	}
	if !strings.HasSuffix(out, "Assistant:") {
		t.Fatalf("prompt must end with assistant cue: %q", out)
	}
}

func TestRenderPromptEmpty(t *testing.T) {
	if out := RenderPrompt(nil); out != "Assistant:" {
		t.Fatalf("expected bare assistant cue, got %q", out)
	}
}
