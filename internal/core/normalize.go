// Package core implements the reconciliation engine: canonical and
// per-tool scanning, pure comparators, report building, and the batched
// fix applier.
package core

import "strings"

// NormalizeMCPName is the sole join key for MCP server matching across
// config stores: lowercase with every rune outside [a-z0-9] stripped, so
// "GitHub-MCP", "github_mcp" and "github mcp" all compare equal.
func NormalizeMCPName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
