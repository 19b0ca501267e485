package configloader

import (
	"fmt"
	"os"
	"strconv"
)

// envVarPrefix is the prefix for all turbocop environment variables.
const envVarPrefix = "TURBOCOP_"

// envFieldType represents the type of a settings field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
)

// envMapping defines an environment variable to settings field mapping.
type envMapping struct {
	field string
	typ   envFieldType
	help  string
}

// envMappings maps environment variable names (without prefix) to fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"CACHE_DIR": {field: "cache_dir", typ: envTypeString, help: "Root directory of the result cache"},
	"CACHE":     {field: "cache", typ: envTypeBool, help: "Default for --cache: true or false"},
	"JOBS":      {field: "jobs", typ: envTypeInt, help: "Number of parallel workers (0 = auto)"},
}

// EnvSettings holds run settings read from the environment. These never
// enter the merged configuration tree.
type EnvSettings struct {
	// CacheDir overrides the cache root when non-empty.
	CacheDir string

	// Cache is the default for --cache when set.
	Cache *bool

	// Jobs overrides the worker count when positive.
	Jobs int
}

// LoadEnv reads TURBOCOP_* environment variables.
func LoadEnv() (EnvSettings, error) {
	var settings EnvSettings

	for envSuffix, mapping := range envMappings {
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(&settings, mapping, value, envVar); err != nil {
			return EnvSettings{}, err
		}
	}

	return settings, nil
}

// applyEnvValue applies a single environment variable value to settings.
func applyEnvValue(settings *EnvSettings, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(settings, mapping.field, value)
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return setBoolField(settings, mapping.field, b)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(settings, mapping.field, i)
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

func setStringField(settings *EnvSettings, field, value string) error {
	switch field {
	case "cache_dir":
		settings.CacheDir = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

func setBoolField(settings *EnvSettings, field string, value bool) error {
	switch field {
	case "cache":
		settings.Cache = &value
	default:
		return fmt.Errorf("unknown boolean field: %s", field)
	}
	return nil
}

func setIntField(settings *EnvSettings, field string, value int) error {
	switch field {
	case "jobs":
		settings.Jobs = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// ListEnvVars returns all supported environment variables with their
// descriptions.
func ListEnvVars() map[string]string {
	out := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		out[envVarPrefix+suffix] = mapping.help
	}
	return out
}
