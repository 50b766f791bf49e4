package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a settings document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for a file extension or Format that
// cannot be decoded.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// FormatOf picks the Format for path from its extension, ignoring case.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// FromFile decodes the settings document at path.
func FromFile(path string) (Config, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return Decode(data, format)
}

// Decode parses data as a document in format. Empty input is an empty Config.
func Decode(data []byte, format Format) (Config, error) {
	var unmarshal func([]byte, any) error
	switch format {
	case FormatYAML:
		unmarshal = yaml.Unmarshal
	case FormatJSON:
		unmarshal = json.Unmarshal
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return New(nil), nil
	}

	var m map[string]any
	if err := unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", format, err)
	}
	return New(m), nil
}

// FromYAML decodes a YAML document.
func FromYAML(data []byte) (Config, error) {
	return Decode(data, FormatYAML)
}

// FromJSON decodes a JSON document.
func FromJSON(data []byte) (Config, error) {
	return Decode(data, FormatJSON)
}
