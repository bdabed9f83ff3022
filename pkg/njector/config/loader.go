package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for a file extension or format name
// with no decoder.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Format names accepted by FromReader.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var decoders = map[string]func([]byte) (Config, error){
	FormatYAML: FromYAML,
	FormatJSON: FromJSON,
}

// FormatFor maps a file path to a format name by extension.
// Returns "" for unknown extensions.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return ""
}

// FromFile loads a settings file. The format follows the extension
// (.yaml, .yml or .json).
func FromFile(path string) (Config, error) {
	format := FormatFor(path)
	if format == "" {
		return Config{}, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open settings file: %w", err)
	}
	defer f.Close()

	return FromReader(f, format)
}

// FromReader decodes settings from r. ${VAR} and $VAR references are
// expanded from the environment before decoding.
func FromReader(r io.Reader, format string) (Config, error) {
	decode, ok := decoders[format]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read settings: %w", err)
	}

	return decode([]byte(os.ExpandEnv(string(data))))
}

// FromYAML decodes YAML. An empty document yields an empty Config.
func FromYAML(data []byte) (Config, error) {
	m := map[string]any{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode yaml settings: %w", err)
	}
	return New(m), nil
}

// FromJSON decodes a JSON object.
func FromJSON(data []byte) (Config, error) {
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("decode json settings: %w", err)
	}
	return New(m), nil
}
