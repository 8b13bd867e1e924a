package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// readConfigFile reads a config file. Returns empty string if not found.
func readConfigFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

// writeConfigFile writes content atomically, creating parent directories.
func writeConfigFile(path string, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// prettyJSON reformats a JSON document with 2-space indentation and a
// trailing newline, matching how the tools' own CLIs write their files.
func prettyJSON(doc string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(doc), "", "  "); err != nil {
		return doc
	}
	return buf.String() + "\n"
}

// jsonCount returns the element count of a JSON array or object value.
func jsonCount(v gjson.Result) int {
	if v.IsArray() {
		return len(v.Array())
	}
	if v.IsObject() {
		return len(v.Map())
	}
	return 0
}

// ReadJSONDoc reads a JSON/JSONC file and returns standardized JSON text.
// Missing files and malformed content degrade to an empty document; the
// comparator layer never sees parse errors.
func ReadJSONDoc(path string) string {
	content, err := readConfigFile(path)
	if err != nil || content == "" {
		return "{}"
	}
	std, err := hujson.Standardize([]byte(content))
	if err != nil {
		log.Debug().Str("path", path).Err(err).Msg("malformed JSON, treating as empty")
		return "{}"
	}
	return string(std)
}
