package tool

import (
	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// Tool is one supported AI coding tool. Each tool knows its own config
// paths and how to scan its on-disk configuration into a ToolConfig.
type Tool interface {
	Name() state.ToolName
	DisplayName() string
	ConfigPath() string
	Scan() *state.ToolConfig
}

// BaseTool carries the fields shared by every tool implementation.
type BaseTool struct {
	name        state.ToolName
	displayName string
	paths       Paths
}

func (b *BaseTool) Name() state.ToolName { return b.name }
func (b *BaseTool) DisplayName() string  { return b.displayName }

// All returns the supported tools in their fixed comparison order.
func All(p Paths) []Tool {
	return []Tool{NewCopilot(p), NewClaude(p), NewCodex(p)}
}

// ByName returns the tool with the given name.
func ByName(p Paths, name state.ToolName) (Tool, bool) {
	for _, t := range All(p) {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}
