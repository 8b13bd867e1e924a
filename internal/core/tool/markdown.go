package tool

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/agentsync-dev/agentsync/internal/core/state"
)

// SkillFile is the manifest file marking a directory as a skill.
const SkillFile = "SKILL.md"

// BodyHash is the drift-detection digest for command bodies: SHA-256 of
// the whitespace-normalized text (trimmed, CRLF→LF), first 16 hex chars.
func BodyHash(body string) string {
	normalized := strings.TrimSpace(strings.ReplaceAll(body, "\r\n", "\n"))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}

// ParseFrontmatter splits a YAML frontmatter block from a markdown body.
// Returns (nil, full text) when no frontmatter fence is present; a
// malformed YAML block also degrades to the full text.
func ParseFrontmatter(text string) (map[string]any, string) {
	if !strings.HasPrefix(text, "---") {
		return nil, text
	}
	end := strings.Index(text[3:], "\n---")
	if end == -1 {
		return nil, text
	}
	block := text[3 : 3+end]
	body := strings.TrimSpace(text[3+end+4:])

	var fm map[string]any
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil {
		log.Debug().Err(err).Msg("malformed frontmatter, treating file as plain body")
		return nil, text
	}
	return fm, body
}

// FrontString extracts a string-valued frontmatter field.
func FrontString(fm map[string]any, key string) string {
	if s, ok := fm[key].(string); ok {
		return s
	}
	return ""
}

// FrontStringList extracts a list-valued frontmatter field, accepting
// either a YAML list or a comma-separated string.
func FrontStringList(fm map[string]any, key string) []string {
	switch v := fm[key].(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		var out []string
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return nil
}

// ScanCommandsDir reads markdown command/prompt files under baseDir.
// With namespaceFromFolder the namespace is the immediate parent folder
// (Claude and canonical layout); otherwise the filename stem is split on
// the first hyphen, Codex style ("opsx-explore.md" → opsx/explore).
func ScanCommandsDir(baseDir string, namespaceFromFolder bool) []state.Command {
	var commands []state.Command

	var files []string
	_ = filepath.WalkDir(baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			files = append(files, path)
		}
		return nil
	})
	sort.Strings(files)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fm, body := ParseFrontmatter(string(data))

		stem := strings.TrimSuffix(filepath.Base(path), ".md")
		var ns, slug string
		if namespaceFromFolder {
			slug = stem
			if parent := filepath.Dir(path); parent != filepath.Clean(baseDir) {
				ns = filepath.Base(parent)
			}
		} else {
			if before, after, found := strings.Cut(stem, "-"); found {
				ns, slug = before, after
			} else {
				slug = stem
			}
		}

		var syncTo []state.ToolName
		for _, raw := range FrontStringList(fm, "sync_to") {
			if t, err := state.ParseToolName(raw); err == nil {
				syncTo = append(syncTo, t)
			}
		}

		commands = append(commands, state.Command{
			Name:         FrontString(fm, "name"),
			Slug:         slug,
			Namespace:    ns,
			Description:  FrontString(fm, "description"),
			Category:     FrontString(fm, "category"),
			Tags:         FrontStringList(fm, "tags"),
			ArgumentHint: FrontString(fm, "argument-hint"),
			SyncTo:       syncTo,
			Body:         body,
			BodyHash:     BodyHash(body),
			SourcePath:   path,
		})
	}
	return commands
}

// ScanSkillDirs enumerates immediate subdirectories of dir containing a
// SKILL.md, reading the description from its frontmatter.
func ScanSkillDirs(dir string) []state.Skill {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var skills []state.Skill
	for _, entry := range entries {
		skillPath := filepath.Join(dir, entry.Name())
		// Follows symlinked skill folders, which ReadDir reports as non-dirs.
		if !dirExists(skillPath) {
			continue
		}
		manifest := filepath.Join(skillPath, SkillFile)
		if !pathExists(manifest) {
			continue
		}
		desc := ""
		if data, err := os.ReadFile(manifest); err == nil {
			fm, _ := ParseFrontmatter(string(data))
			desc = FrontString(fm, "description")
		}
		skills = append(skills, state.Skill{
			Name:        entry.Name(),
			Path:        skillPath,
			Description: desc,
		})
	}
	return skills
}
