package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when the config file extension is not recognised.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// Load reads and parses a configuration file from the given path.
//
// The decoder is chosen by extension: .json, .yaml and .yml go through the
// YAML decoder (JSON is valid YAML), .toml through the TOML decoder.
// Environment variable references are substituted before decoding:
//   - ${VAR_NAME} - Replaced with the value of VAR_NAME, or empty string if not set
//   - ${VAR_NAME:-default} - Replaced with VAR_NAME value, or default if VAR_NAME not set
//
// Only the process settings are validated here. The presence rules are
// checked later by Validate, and a violation there never prevents loading.
func Load(path string) (*Config, error) {
	// #nosec G304 -- Config file path is expected to be user-provided
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	content := SubstituteEnv(string(data))

	config, err := decode(path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.ValidateSettings(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func decode(path, content string) (*Config, error) {
	var config Config

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json", ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(content), &config); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(content, &config); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return &config, nil
}
