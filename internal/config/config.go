// Package config decodes design and materials override files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads path and decodes it into out. Format is detected by
// extension (.yaml/.yml or .json) or, failing that, by content (a leading
// "{" means JSON).
func LoadFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return Decode(data, filepath.Ext(path), out)
}

// Decode parses config bytes into out. ext is the file extension as a format
// hint; empty means detect from content.
func Decode(data []byte, ext string, out any) error {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse config yaml: %w", err)
		}
		return nil
	case ".json":
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse config json: %w", err)
		}
		return nil
	}
	if strings.HasPrefix(strings.TrimSpace(string(data)), "{") {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parse config json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}
