package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/agentsync-dev/agentsync/internal/core/state"
	"github.com/agentsync-dev/agentsync/internal/core/tool"
)

// ScanCanonical reads the full canonical state from the agents directory:
// MCP server definitions, shared skills with lock-file provenance,
// commands, product workflow trees, and the plugins available in the
// skills-hub checkout.
func ScanCanonical(p tool.Paths) *state.CanonicalState {
	return &state.CanonicalState{
		AgentsDir:        p.AgentsDir,
		MCPServers:       scanCanonicalMCP(p),
		Skills:           scanCanonicalSkills(p),
		Commands:         tool.ScanCommandsDir(p.CanonicalCommandsDir(), true),
		ProductWorkflows: scanProductWorkflows(p),
		AvailablePlugins: scanAvailablePlugins(p),
		SkillLock:        readSkillLock(p),
	}
}

// readSkillLock loads .skill-lock.json as a raw document. The skills map
// inside it feeds per-skill provenance; the whole document rides along in
// the canonical state so `check --json` consumers see it unmodified.
func readSkillLock(p tool.Paths) map[string]any {
	var lock map[string]any
	if err := json.Unmarshal([]byte(tool.ReadJSONDoc(p.SkillLockJSON())), &lock); err != nil {
		return nil
	}
	if len(lock) == 0 {
		return nil
	}
	return lock
}

func scanCanonicalMCP(p tool.Paths) []state.McpServer {
	doc := tool.ReadJSONDoc(p.MCPJSON())
	var servers []state.McpServer
	gjson.Get(doc, "servers").ForEach(func(key, value gjson.Result) bool {
		serverType, err := state.ParseServerType(value.Get("type").String())
		if err != nil {
			serverType = state.ServerHTTP
		}
		srv := state.McpServer{
			Name:       key.String(),
			ServerType: serverType,
			URL:        value.Get("url").String(),
			Command:    value.Get("command").String(),
			Headers:    stringMap(value.Get("headers")),
			Env:        stringMap(value.Get("env")),
			Enabled:    true,
		}
		for _, a := range value.Get("args").Array() {
			srv.Args = append(srv.Args, a.String())
		}
		if tools := value.Get("tools"); tools.IsArray() {
			for _, t := range tools.Array() {
				srv.Tools = append(srv.Tools, t.String())
			}
		} else {
			srv.Tools = []string{"*"}
		}
		// Unknown tool names in enabled_for are dropped, not errors.
		for _, raw := range value.Get("enabled_for").Array() {
			if t, err := state.ParseToolName(raw.String()); err == nil {
				srv.EnabledFor = append(srv.EnabledFor, t)
			}
		}
		servers = append(servers, srv)
		return true
	})
	return servers
}

func stringMap(v gjson.Result) map[string]string {
	if !v.IsObject() {
		return nil
	}
	m := make(map[string]string)
	v.ForEach(func(k, val gjson.Result) bool {
		m[k.String()] = val.String()
		return true
	})
	return m
}

// scanCanonicalSkills enumerates agents/skills, joining provenance
// metadata from the .skill-lock.json skills map.
func scanCanonicalSkills(p tool.Paths) []state.Skill {
	entries, err := os.ReadDir(p.CanonicalSkillsDir())
	if err != nil {
		return nil
	}

	lockDoc := tool.ReadJSONDoc(p.SkillLockJSON())

	var skills []state.Skill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		skillPath := filepath.Join(p.CanonicalSkillsDir(), name)

		desc := ""
		if data, err := os.ReadFile(filepath.Join(skillPath, tool.SkillFile)); err == nil {
			fm, _ := tool.ParseFrontmatter(string(data))
			desc = tool.FrontString(fm, "description")
		}

		lock := gjson.Get(lockDoc, "skills").Get(gjsonKey(name))
		source := lock.Get("source").String()
		if source == "" {
			source = "local"
		}
		sourceType := lock.Get("sourceType").String()
		if sourceType == "" {
			sourceType = "local"
		}
		skills = append(skills, state.Skill{
			Name:        name,
			Path:        skillPath,
			Description: desc,
			Source:      source,
			SourceType:  sourceType,
			SourceURL:   lock.Get("sourceUrl").String(),
			SkillPath:   lock.Get("skillPath").String(),
			FolderHash:  lock.Get("skillFolderHash").String(),
			InstalledAt: lock.Get("installedAt").String(),
			UpdatedAt:   lock.Get("updatedAt").String(),
		})
	}
	return skills
}

// gjsonKey escapes a map key for gjson path lookup.
func gjsonKey(key string) string {
	if !strings.ContainsAny(key, ".*?#") {
		return key
	}
	var b strings.Builder
	for _, c := range key {
		if c == '.' || c == '*' || c == '?' || c == '#' {
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// scanProductWorkflows reads the product-specific workflow trees under
// the agents root. Shared content directories are skipped; every other
// non-hidden directory is a product.
func scanProductWorkflows(p tool.Paths) []state.ProductWorkflow {
	skip := map[string]bool{".claude": true, "skills": true, "tools": true, "commands": true}

	entries, err := os.ReadDir(p.AgentsDir)
	if err != nil {
		return nil
	}

	var workflows []state.ProductWorkflow
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || skip[name] {
			continue
		}
		root := filepath.Join(p.AgentsDir, name)
		wf := state.ProductWorkflow{Name: name, Path: root}

		for _, path := range globSuffix(filepath.Join(root, "agents"), ".agent.md") {
			agentName := strings.TrimSuffix(filepath.Base(path), ".agent.md")
			wf.Agents = append(wf.Agents, state.Agent{Name: agentName, Path: path, Format: "markdown"})
		}
		wf.Prompts = globSuffix(filepath.Join(root, "prompts"), ".md")
		wf.Instructions = globSuffix(filepath.Join(root, "instructions"), ".md")
		wf.Skills = tool.ScanSkillDirs(filepath.Join(root, "skills"))

		wf.CopilotPluginInstalled, wf.CopilotPluginVersion = detectInstalledPlugin(p, name)
		workflows = append(workflows, wf)
	}
	return workflows
}

// globSuffix collects files under dir matching the suffix, recursively,
// in sorted order.
func globSuffix(dir, suffix string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, suffix) {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)
	return files
}

// detectInstalledPlugin checks the Copilot installed-plugins hub dir for
// a plugin whose name overlaps the workflow name, using the same token
// heuristic as the plugins comparator: compound names like "lsnext" are
// split at known product suffixes before matching.
func detectInstalledPlugin(p tool.Paths, workflow string) (bool, string) {
	hubDir := filepath.Join(p.CopilotInstalledPlugins(), "ia-skills-hub")
	entries, err := os.ReadDir(hubDir)
	if err != nil {
		return false, ""
	}

	slug := strings.ToLower(workflow)
	slug = strings.ReplaceAll(slug, "next", "-next")
	slug = strings.ReplaceAll(slug, "studio", "-studio")
	tokens := strings.Split(slug, "-")

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(hubDir, entry.Name(), "plugin.json")
		doc := tool.ReadJSONDoc(manifest)
		pluginName := strings.ToLower(gjson.Get(doc, "name").String())
		if pluginName == "" {
			continue
		}
		for _, token := range tokens {
			if len(token) > 3 && strings.Contains(pluginName, token) {
				return true, gjson.Get(doc, "version").String()
			}
		}
	}
	return false, ""
}

// scanAvailablePlugins enumerates {hub}/plugins/*/plugin.json in the
// skills-hub checkout. An empty SkillsHubDir yields no plugins.
func scanAvailablePlugins(p tool.Paths) []state.Plugin {
	if p.SkillsHubDir == "" {
		return nil
	}
	pluginsDir := filepath.Join(p.SkillsHubDir, "plugins")
	entries, err := os.ReadDir(pluginsDir)
	if err != nil {
		return nil
	}

	var plugins []state.Plugin
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(pluginsDir, entry.Name())
		manifest := filepath.Join(path, "plugin.json")
		if _, err := os.Stat(manifest); err != nil {
			continue
		}
		doc := tool.ReadJSONDoc(manifest)
		name := gjson.Get(doc, "name").String()
		if name == "" {
			name = entry.Name()
		}
		plugins = append(plugins, state.Plugin{
			Name:        name,
			Path:        path,
			Description: gjson.Get(doc, "description").String(),
			Version:     gjson.Get(doc, "version").String(),
			Category:    gjson.Get(doc, "category").String(),
		})
	}
	return plugins
}

// ScanTools scans the enabled subset of tools into a config map.
func ScanTools(p tool.Paths, enabled []state.ToolName) map[state.ToolName]*state.ToolConfig {
	configs := make(map[state.ToolName]*state.ToolConfig, len(enabled))
	for _, name := range enabled {
		if t, ok := tool.ByName(p, name); ok {
			configs[name] = t.Scan()
		}
	}
	return configs
}

// CheckInfra runs the three infrastructure checks the skills comparator
// consumes. This is the only place those checks touch the filesystem.
func CheckInfra(p tool.Paths) state.InfraState {
	return state.InfraState{
		ClaudeSkillsLink:      tool.CheckClaudeSkillsLink(p),
		ClaudeAdditionalDirs:  tool.CheckClaudeAdditionalDirs(p),
		CopilotAdditionalDirs: tool.CheckCopilotAdditionalDirs(p),
	}
}
