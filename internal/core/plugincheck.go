package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

var requiredPluginKeys = []string{"name", "description", "version"}

// ValidatePlugins scans installed plugin directories under dir and
// validates their plugin.json and .mcp.json manifests. Plugins may sit
// at any depth (root/plugin/ or root/source/plugin/).
func ValidatePlugins(dir string) []state.PluginValidation {
	var results []state.PluginValidation
	for _, pluginDir := range discoverPluginDirs(dir) {
		v := state.PluginValidation{
			Name: filepath.Base(pluginDir),
			Path: pluginDir,
		}

		pluginJSON := filepath.Join(pluginDir, "plugin.json")
		if isFile(pluginJSON) {
			v.HasPluginJSON = true
			valid, errs := validatePluginJSON(pluginJSON)
			v.PluginJSONValid = valid
			v.Errors = append(v.Errors, errs...)
		}

		mcpJSON := filepath.Join(pluginDir, ".mcp.json")
		if isFile(mcpJSON) {
			v.HasMCPJSON = true
			valid, errs := validateMCPJSON(mcpJSON)
			v.MCPJSONValid = valid
			v.Errors = append(v.Errors, errs...)
		}

		results = append(results, v)
	}
	return results
}

// discoverPluginDirs finds directories containing plugin.json or
// .mcp.json, deduplicated and sorted.
func discoverPluginDirs(root string) []string {
	seen := make(map[string]bool)
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == "plugin.json" || name == ".mcp.json" {
			seen[filepath.Dir(path)] = true
		}
		return nil
	})

	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func validatePluginJSON(path string) (bool, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, []string{fmt.Sprintf("Cannot read file: %v", err)}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, []string{fmt.Sprintf("Invalid JSON: %v", err)}
	}

	var errors []string
	for _, key := range requiredPluginKeys {
		if _, ok := doc[key]; !ok {
			errors = append(errors, "Missing required key: "+key)
		}
	}

	// Referenced content paths must exist relative to the plugin dir.
	pluginDir := filepath.Dir(path)
	for _, field := range []string{"agents", "commands", "skills"} {
		val, ok := doc[field]
		if !ok {
			continue
		}
		refs, ok := val.([]any)
		if !ok {
			refs = []any{val}
		}
		for _, ref := range refs {
			s, ok := ref.(string)
			if !ok {
				continue
			}
			if _, err := os.Stat(filepath.Join(pluginDir, s)); err != nil {
				errors = append(errors, fmt.Sprintf("%s reference not found: %s", field, s))
			}
		}
	}

	return len(errors) == 0, errors
}

func validateMCPJSON(path string) (bool, []string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, []string{fmt.Sprintf("Cannot read file: %v", err)}
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, []string{fmt.Sprintf("Invalid JSON: %v", err)}
	}

	var errors []string
	servers, ok := doc["servers"]
	if !ok {
		servers, ok = doc["mcpServers"]
	}
	if !ok || servers == nil {
		return false, []string{"No 'servers' or 'mcpServers' key found"}
	}

	table, ok := servers.(map[string]any)
	if !ok {
		return false, []string{"'servers' should be a JSON object"}
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cfg, ok := table[name].(map[string]any)
		if !ok {
			errors = append(errors, fmt.Sprintf("Server '%s' config is not an object", name))
			continue
		}
		url, _ := cfg["url"].(string)
		command, _ := cfg["command"].(string)
		if url == "" && command == "" {
			errors = append(errors, fmt.Sprintf("Server '%s' missing both 'url' and 'command'", name))
		}
	}

	return len(errors) == 0, errors
}
