package loader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
	"gopkg.in/yaml.v3"
)

// Format identifies the payload encoding.
type Format string

const (
	FormatUnknown Format = ""
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// DetectFormat infers the encoding from a file extension.
func DetectFormat(location string) Format {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// IsSchemaFile reports whether path carries a supported extension.
func IsSchemaFile(path string) bool {
	return DetectFormat(path) != FormatUnknown
}

// parse decodes data using hint, falling back from JSON to YAML when the hint
// is unknown. With repair enabled, malformed JSON is passed through
// jsonrepair before giving up.
func parse(data []byte, hint Format, repair bool, location string) (any, Format, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, FormatUnknown, fmt.Errorf("loader: %s is empty", location)
	}

	switch hint {
	case FormatJSON:
		value, err := parseJSON(data, repair)
		if err != nil {
			return nil, FormatJSON, fmt.Errorf("loader: parse %s: %w", location, err)
		}
		return value, FormatJSON, nil
	case FormatYAML:
		value, err := parseYAML(data)
		if err != nil {
			return nil, FormatYAML, fmt.Errorf("loader: parse %s: %w", location, err)
		}
		return value, FormatYAML, nil
	}

	if value, err := parseJSON(data, false); err == nil {
		return value, FormatJSON, nil
	}
	if value, err := parseYAML(data); err == nil {
		return value, FormatYAML, nil
	}
	if repair {
		if value, err := parseJSON(data, true); err == nil {
			return value, FormatJSON, nil
		}
	}
	return nil, FormatUnknown, fmt.Errorf("loader: parse %s: invalid JSON or YAML", location)
}

func parseJSON(data []byte, repair bool) (any, error) {
	var out any
	err := json.Unmarshal(data, &out)
	if err == nil {
		return out, nil
	}
	if !repair {
		return nil, err
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return nil, fmt.Errorf("%w (repair failed: %v)", err, repairErr)
	}
	if err := json.Unmarshal([]byte(repaired), &out); err != nil {
		return nil, fmt.Errorf("unmarshal repaired JSON: %w", err)
	}
	return out, nil
}

func parseYAML(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
