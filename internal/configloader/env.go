package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/quickbook/pkg/config"
)

// envVarPrefix is the prefix for all quickbook environment variables.
const envVarPrefix = "QUICKBOOK_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INCLUDE_PATH":        {"include_paths", envTypeSlice, "Include directories, separated by the path list separator"},
	"DEFINES":             {"defines", envTypeSlice, "Comma-separated macro definitions (name=value)"},
	"PRETTY_PRINT":        {"pretty_print", envTypeBool, "Reformat the output: true or false"},
	"SELF_LINKED_HEADERS": {"self_linked_headers", envTypeBool, "Headings link to themselves: true or false"},
	"INDENT":              {"indent", envTypeInt, "Indentation step of pretty printed output"},
	"LINEWIDTH":           {"linewidth", envTypeInt, "Width pretty printed text is wrapped at"},
	"IMAGE_LOCATION":      {"image_location", envTypeString, "Where images are looked up"},
	"XINCLUDE_BASE":       {"xinclude_base", envTypeString, "Directory xinclude paths are relative to"},
	"DEPS_FORMAT":         {"deps_format", envTypeString, "Dependency list format: deps, checked or escaped"},
	"DIAGNOSTIC_FORMAT":   {"diagnostic_format", envTypeString, "Diagnostic format: gnu or ms"},
	"COLOR":               {"color", envTypeString, "Coloured output: auto, always or never"},
	"STRICT":              {"strict", envTypeBool, "Count warnings as errors: true or false"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with QUICKBOOK_ (e.g., QUICKBOOK_INDENT).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(cfg, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeSlice:
		sep := ","
		if mapping.field == "include_paths" {
			sep = string(os.PathListSeparator)
		}
		return setSliceField(cfg, mapping.field, parseSliceValue(value, sep))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a string into a slice. Each element is trimmed
// of whitespace and empty elements are dropped.
func parseSliceValue(value, sep string) []string {
	if value == "" {
		return nil
	}

	parts := strings.Split(value, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "image_location":
		cfg.ImageLocation = value
	case "xinclude_base":
		cfg.XIncludeBase = value
	case "deps_format":
		cfg.DepsFormat = value
	case "diagnostic_format":
		cfg.DiagnosticFormat = config.DiagnosticFormat(value)
	case "color":
		cfg.Color = config.ColorMode(value)
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setBoolField sets a boolean field on the config by field path.
func setBoolField(cfg *config.Config, field string, value bool) error {
	switch field {
	case "pretty_print":
		cfg.PrettyPrint = config.Bool(value)
	case "self_linked_headers":
		cfg.SelfLinkedHeaders = config.Bool(value)
	case "strict":
		cfg.Strict = config.Bool(value)
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "indent":
		cfg.Indent = config.Int(value)
	case "linewidth":
		cfg.LineWidth = config.Int(value)
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// setSliceField sets a slice field on the config by field path.
func setSliceField(cfg *config.Config, field string, value []string) error {
	switch field {
	case "include_paths":
		cfg.IncludePaths = value
	case "defines":
		cfg.Defines = value
	default:
		return fmt.Errorf("unknown slice field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
