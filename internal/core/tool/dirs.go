package tool

import (
	"fmt"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// checkAdditionalDirs verifies that a tool's settings document grants
// access to the canonical skills directory through
// permissions.additionalDirectories. An entry passes when it resolves
// (symlinks followed) to the skills dir itself, or to the agents root
// while a skills subdirectory exists beneath it.
func checkAdditionalDirs(p Paths, configPath, displayName string) state.InfraCheck {
	skillsDir := p.CanonicalSkillsDir()
	if !dirExists(skillsDir) {
		return state.InfraCheck{OK: true, Detail: fmt.Sprintf("No canonical skills directory at %s", skillsDir)}
	}

	doc := ReadJSONDoc(configPath)
	dirs := gjson.Get(doc, "permissions.additionalDirectories")
	if !dirs.IsArray() || len(dirs.Array()) == 0 {
		return state.InfraCheck{OK: false, Detail: fmt.Sprintf("%s has no additionalDirectories covering %s", displayName, skillsDir)}
	}

	for _, entry := range dirs.Array() {
		if dirGrantsSkillsAccess(p, ExpandPath(entry.String())) {
			return state.InfraCheck{OK: true, Detail: fmt.Sprintf("%s grants access via %s", displayName, entry.String())}
		}
	}
	return state.InfraCheck{OK: false, Detail: fmt.Sprintf("%s has no additionalDirectories covering %s", displayName, skillsDir)}
}

func dirGrantsSkillsAccess(p Paths, dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	skillsResolved, err := filepath.EvalSymlinks(p.CanonicalSkillsDir())
	if err != nil {
		return false
	}
	if resolved == skillsResolved {
		return true
	}
	agentsResolved, err := filepath.EvalSymlinks(p.AgentsDir)
	if err != nil {
		return false
	}
	return resolved == agentsResolved && dirExists(filepath.Join(agentsResolved, "skills"))
}

// fixAdditionalDirs appends the canonical skills directory to the
// tool's permissions.additionalDirectories, creating the permissions
// object when absent and leaving the rest of the document intact.
func fixAdditionalDirs(p Paths, configPath, toolLabel string, dryRun bool) string {
	skillsDir := p.CanonicalSkillsDir()

	doc := ReadJSONDoc(configPath)
	dirs := gjson.Get(doc, "permissions.additionalDirectories")
	if dirs.IsArray() {
		for _, entry := range dirs.Array() {
			if dirGrantsSkillsAccess(p, ExpandPath(entry.String())) {
				return fmt.Sprintf("Already valid: %s grants access via %s", toolLabel, entry.String())
			}
		}
	}

	if dryRun {
		return fmt.Sprintf("Would add %s to %s additionalDirectories", skillsDir, toolLabel)
	}

	updated, err := sjson.Set(doc, "permissions.additionalDirectories.-1", skillsDir)
	if err != nil {
		return fmt.Sprintf("Error updating %s: %v", configPath, err)
	}
	pretty := prettyJSON(updated)
	if err := writeConfigFile(configPath, pretty); err != nil {
		return fmt.Sprintf("Error writing %s: %v", configPath, err)
	}
	return fmt.Sprintf("Added %s to %s additionalDirectories", skillsDir, toolLabel)
}
