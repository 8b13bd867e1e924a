package tool

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// Codex implements the Tool interface for the OpenAI Codex CLI.
type Codex struct {
	BaseTool
}

// NewCodex creates a configured Codex tool.
func NewCodex(p Paths) *Codex {
	return &Codex{BaseTool{name: state.ToolCodex, displayName: "OpenAI Codex CLI", paths: p}}
}

func (c *Codex) ConfigPath() string { return c.paths.CodexConfigTOML() }

// Scan reads Codex's config.toml, prompts directory, and skills.
func (c *Codex) Scan() *state.ToolConfig {
	cfg := &state.ToolConfig{
		Tool:       state.ToolCodex,
		ConfigPath: c.ConfigPath(),
		ExtraInfo:  make(map[string]string),
	}

	doc := readTOMLDoc(c.paths.CodexConfigTOML())
	if m, ok := doc["model"].(string); ok {
		cfg.Model = m
	}
	if v, ok := doc["personality"].(string); ok {
		cfg.ExtraInfo["personality"] = v
	}
	if v, ok := doc["model_reasoning_effort"].(string); ok {
		cfg.ExtraInfo["reasoning_effort"] = v
	}

	if servers, ok := doc["mcp_servers"].(map[string]any); ok {
		names := make([]string, 0, len(servers))
		for name := range servers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			table, ok := servers[name].(map[string]any)
			if !ok {
				continue
			}
			cfg.MCPServers = append(cfg.MCPServers, mcpServerFromTOML(name, table))
		}
	}

	cfg.Commands = ScanCommandsDir(c.paths.CodexPromptsDir(), false)
	cfg.Skills = ScanSkillDirs(c.paths.CodexSkillsDir())
	return cfg
}

// mcpServerFromTOML decodes one [mcp_servers.X] table. A url key means
// an HTTP transport; otherwise command/args describe a stdio server.
func mcpServerFromTOML(name string, table map[string]any) state.McpServer {
	srv := state.McpServer{Name: name, ServerType: state.ServerStdio, Enabled: true}
	if url, ok := table["url"].(string); ok && url != "" {
		srv.ServerType = state.ServerHTTP
		srv.URL = url
	}
	if cmd, ok := table["command"].(string); ok {
		srv.Command = cmd
	}
	if args, ok := table["args"].([]any); ok {
		for _, a := range args {
			if s, ok := a.(string); ok {
				srv.Args = append(srv.Args, s)
			}
		}
	}
	if enabled, ok := table["enabled"].(bool); ok {
		srv.Enabled = enabled
	}
	return srv
}

// readTOMLDoc parses a TOML file into a generic map. Missing or
// malformed files degrade to an empty document.
func readTOMLDoc(path string) map[string]any {
	content, err := readConfigFile(path)
	if err != nil || content == "" {
		return map[string]any{}
	}
	var doc map[string]any
	if err := toml.Unmarshal([]byte(content), &doc); err != nil {
		log.Debug().Str("path", path).Err(err).Msg("malformed TOML, treating as empty")
		return map[string]any{}
	}
	return doc
}

// WriteCodexMCP merges the given canonical servers into Codex's
// config.toml mcp_servers tables, preserving every unrelated setting.
// Codex owns its config file, so a missing file is never created.
func WriteCodexMCP(p Paths, servers []state.McpServer, dryRun bool) string {
	target := p.CodexConfigTOML()
	if !pathExists(target) {
		return fmt.Sprintf("Skipped: %s does not exist", target)
	}

	doc := readTOMLDoc(target)
	tables, ok := doc["mcp_servers"].(map[string]any)
	if !ok {
		tables = map[string]any{}
	}

	written := 0
	for _, srv := range servers {
		if !srv.EnabledForTool(state.ToolCodex) {
			continue
		}
		tables[srv.Name] = codexMCPEntry(srv)
		written++
	}
	doc["mcp_servers"] = tables
	total := len(tables)

	if dryRun {
		return fmt.Sprintf("Would merge %d servers into %s (total: %d)", written, target, total)
	}

	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Sprintf("Error serializing %s: %v", target, err)
	}
	if err := writeConfigFile(target, string(out)); err != nil {
		return fmt.Sprintf("Error writing %s: %v", target, err)
	}
	return fmt.Sprintf("Wrote %d MCP servers to %s", written, target)
}

// codexMCPEntry builds the Codex-format TOML table for one server.
func codexMCPEntry(srv state.McpServer) map[string]any {
	entry := map[string]any{}
	if srv.URL != "" {
		entry["url"] = srv.URL
		entry["enabled"] = srv.Enabled
	}
	if srv.Command != "" {
		entry["command"] = srv.Command
	}
	if len(srv.Args) > 0 {
		entry["args"] = srv.Args
	}
	if len(srv.Env) > 0 {
		entry["env"] = srv.Env
	}
	return entry
}

// WriteCodexPrompt renders a canonical command into Codex's flat prompts
// layout (prompts/ns-slug.md) with its frontmatter subset.
func WriteCodexPrompt(p Paths, cmd state.Command, dryRun bool) string {
	stem := cmd.Slug
	if cmd.Namespace != "" {
		stem = cmd.Namespace + "-" + cmd.Slug
	}
	path := filepath.Join(p.CodexPromptsDir(), stem+".md")

	if dryRun {
		return "Would write " + path
	}

	var b strings.Builder
	b.WriteString("---\n")
	if cmd.Description != "" {
		fmt.Fprintf(&b, "description: %s\n", cmd.Description)
	}
	if cmd.ArgumentHint != "" {
		fmt.Fprintf(&b, "argument-hint: %s\n", cmd.ArgumentHint)
	}
	b.WriteString("---\n\n")
	b.WriteString(cmd.Body)
	b.WriteString("\n")

	if err := writeConfigFile(path, b.String()); err != nil {
		return fmt.Sprintf("Error writing %s: %v", path, err)
	}
	return "Wrote " + path
}
