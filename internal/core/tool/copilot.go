package tool

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// Copilot implements the Tool interface for the GitHub Copilot CLI.
type Copilot struct {
	BaseTool
}

// NewCopilot creates a configured Copilot tool.
func NewCopilot(p Paths) *Copilot {
	return &Copilot{BaseTool{name: state.ToolCopilot, displayName: "GitHub Copilot CLI", paths: p}}
}

func (c *Copilot) ConfigPath() string { return c.paths.CopilotConfigJSON() }

// Scan reads Copilot's MCP config, marketplace info, and the skills and
// agents contributed by installed plugins.
func (c *Copilot) Scan() *state.ToolConfig {
	cfg := &state.ToolConfig{
		Tool:       state.ToolCopilot,
		ConfigPath: c.ConfigPath(),
		ExtraInfo:  make(map[string]string),
	}

	// MCP servers from mcp-config.json.
	mcpDoc := ReadJSONDoc(c.paths.CopilotMCPConfigJSON())
	gjson.Get(mcpDoc, "mcpServers").ForEach(func(key, value gjson.Result) bool {
		cfg.MCPServers = append(cfg.MCPServers, mcpServerFromJSON(key.String(), value))
		return true
	})

	// Marketplace / plugin counts from config.json.
	configDoc := ReadJSONDoc(c.paths.CopilotConfigJSON())
	cfg.ExtraInfo["marketplaces"] = strconv.Itoa(jsonCount(gjson.Get(configDoc, "marketplaces")))
	cfg.ExtraInfo["installed_plugins"] = strconv.Itoa(jsonCount(gjson.Get(configDoc, "installed_plugins")))

	// Skills and agents contributed by installed plugins.
	pluginsRoot := c.paths.CopilotInstalledPlugins()
	_ = filepath.WalkDir(pluginsRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || d.Name() != "plugin.json" {
			return nil
		}
		pluginDir := filepath.Dir(path)
		cfg.Skills = append(cfg.Skills, ScanSkillDirs(filepath.Join(pluginDir, "skills"))...)

		agentsDir := filepath.Join(pluginDir, "agents")
		_ = filepath.WalkDir(agentsDir, func(apath string, ad os.DirEntry, aerr error) error {
			if aerr != nil || ad.IsDir() || !strings.HasSuffix(apath, ".md") {
				return nil
			}
			name := strings.TrimSuffix(filepath.Base(apath), ".md")
			cfg.Agents = append(cfg.Agents, state.Agent{Name: name, Path: apath, Format: "markdown"})
			return nil
		})
		return nil
	})

	return cfg
}

// mcpServerFromJSON decodes one mcpServers entry into a typed record.
// Unknown server types fall back to http at this boundary so comparators
// never see raw strings.
func mcpServerFromJSON(name string, value gjson.Result) state.McpServer {
	serverType, err := state.ParseServerType(value.Get("type").String())
	if err != nil {
		serverType = state.ServerHTTP
	}
	srv := state.McpServer{
		Name:       name,
		ServerType: serverType,
		URL:        value.Get("url").String(),
		Command:    value.Get("command").String(),
		Enabled:    true,
	}
	for _, a := range value.Get("args").Array() {
		srv.Args = append(srv.Args, a.String())
	}
	if headers := value.Get("headers"); headers.IsObject() {
		srv.Headers = make(map[string]string)
		headers.ForEach(func(k, v gjson.Result) bool {
			srv.Headers[k.String()] = v.String()
			return true
		})
	}
	if tools := value.Get("tools"); tools.IsArray() {
		for _, t := range tools.Array() {
			srv.Tools = append(srv.Tools, t.String())
		}
	} else {
		srv.Tools = []string{"*"}
	}
	return srv
}

// WriteCopilotMCP merges the given canonical servers into Copilot's
// mcp-config.json, preserving entries the writer doesn't own. One
// batched call per fix run; returns a description of what was (or would
// be) done, or an error description on write failure.
func WriteCopilotMCP(p Paths, servers []state.McpServer, dryRun bool) string {
	target := p.CopilotMCPConfigJSON()
	content := ReadJSONDoc(target)

	existing := jsonCount(gjson.Get(content, "mcpServers"))
	if !gjson.Get(content, "mcpServers").IsObject() {
		content, _ = sjson.SetRaw(content, "mcpServers", "{}")
		existing = 0
	}

	written := 0
	for _, srv := range servers {
		if !srv.EnabledForTool(state.ToolCopilot) {
			continue
		}
		entryJSON, err := json.Marshal(copilotMCPEntry(srv))
		if err != nil {
			continue
		}
		newContent, err := sjson.SetRaw(content, "mcpServers."+escapeJSONKey(srv.Name), string(entryJSON))
		if err != nil {
			return fmt.Sprintf("Error writing MCP entry %s: %v", srv.Name, err)
		}
		content = newContent
		written++
	}

	total := jsonCount(gjson.Get(content, "mcpServers"))
	if dryRun {
		return fmt.Sprintf("Would merge %d servers into %s (preserving %d existing)", written, target, existing)
	}

	if err := writeConfigFile(target, prettyJSON(content)); err != nil {
		return fmt.Sprintf("Error writing %s: %v", target, err)
	}
	return fmt.Sprintf("Merged %d servers into %s (total: %d)", written, target, total)
}

// copilotMCPEntry builds the Copilot-format JSON value for one server.
func copilotMCPEntry(srv state.McpServer) map[string]any {
	tools := srv.Tools
	if len(tools) == 0 {
		tools = []string{"*"}
	}
	entry := map[string]any{
		"tools": tools,
		"type":  string(srv.ServerType),
	}
	if srv.URL != "" {
		entry["url"] = srv.URL
	}
	if len(srv.Headers) > 0 {
		entry["headers"] = srv.Headers
	}
	if srv.Command != "" {
		entry["command"] = srv.Command
	}
	if len(srv.Args) > 0 {
		entry["args"] = srv.Args
	}
	return entry
}

// escapeJSONKey escapes a key for use with gjson/sjson path syntax.
func escapeJSONKey(key string) string {
	needsEscape := strings.ContainsAny(key, ".*?#")
	if needsEscape {
		var b strings.Builder
		for _, c := range key {
			if c == '.' || c == '*' || c == '?' || c == '#' {
				b.WriteByte('\\')
			}
			b.WriteRune(c)
		}
		return b.String()
	}
	return key
}

// CheckCopilotAdditionalDirs verifies that Copilot's config.json lists a
// directory resolving to the canonical skills dir (or the agents root
// while a skills subdirectory exists beneath it).
func CheckCopilotAdditionalDirs(p Paths) state.InfraCheck {
	return checkAdditionalDirs(p, p.CopilotConfigJSON(), "Copilot")
}

// FixCopilotAdditionalDirs appends the canonical skills directory to
// Copilot's additionalDirectories, preserving the rest of the document.
func FixCopilotAdditionalDirs(p Paths, dryRun bool) string {
	return fixAdditionalDirs(p, p.CopilotConfigJSON(), "copilot", dryRun)
}
