package engine

import (
	"strings"

	"sessiond/pkg/types"
)

// RenderPrompt flattens a chat message list into a single instruct-style
// prompt for backends that take raw text. System messages become a leading
// block; the trailing assistant cue invites the completion.
func RenderPrompt(messages []types.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			b.WriteString("<<SYS>>\n")
			b.WriteString(m.Content)
			b.WriteString("\n<</SYS>>\n\n")
		case types.RoleUser:
			b.WriteString("User: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		case types.RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		case types.RoleFunction:
			b.WriteString("Function: ")
			b.WriteString(m.Content)
			b.WriteString("\n")
		}
	}
	b.WriteString("Assistant:")
	return b.String()
}
