// Package loader reads scene and rule resources in YAML, JSON or TOML.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyInput is returned when there is nothing to decode.
var ErrEmptyInput = errors.New("empty input")

// Format names a supported serialization.
type Format string

const (
	FormatAuto Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

var (
	tomlSectionPattern  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// FormatFromPath picks a format from the file extension, or FormatAuto.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	default:
		return FormatAuto
	}
}

// DetectFormat guesses the format of raw input.
// TOML is checked before JSON because [section] headers look like arrays.
func DetectFormat(input string) Format {
	trimmed := strings.TrimSpace(input)
	if isLikelyTOML(trimmed) {
		return FormatTOML
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		if json.Valid([]byte(trimmed)) {
			return FormatJSON
		}
	}
	return FormatYAML
}

// LoadRoot parses input into a generic tree, auto-detecting the format.
func LoadRoot(input string) (any, error) {
	var out any
	if err := Decode([]byte(input), FormatAuto, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFile reads a file and parses it into a generic tree.
func LoadFile(path string) (any, error) {
	var out any
	if err := DecodeFile(path, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadText reads a scene file as text. A file that does not exist yet reads
// as empty with missing set, so the editor can create it on save.
func ReadText(path string) (text string, missing bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", true, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), false, nil
}

// DecodeFile decodes a file into out, choosing the decoder by extension and
// falling back to content detection.
func DecodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Decode(data, FormatFromPath(path), out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode decodes data of the given format into out.
func Decode(data []byte, format Format, out any) error {
	input := strings.TrimSpace(string(data))
	if input == "" {
		return ErrEmptyInput
	}
	if format == FormatAuto {
		format = DetectFormat(input)
	}
	switch format {
	case FormatJSON:
		if err := json.Unmarshal([]byte(input), out); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal([]byte(input), out); err != nil {
			return fmt.Errorf("invalid TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal([]byte(input), out); err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// isLikelyTOML heuristic: returns true if the input looks like TOML.
// Detects TOML by looking for section headers [name] or key = value patterns
// that are distinct from YAML syntax.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++

		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}
