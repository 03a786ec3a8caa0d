package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigExists is returned by InitConfig and InitConfigToPath when the
// target file exists and force is false.
var ErrConfigExists = errors.New("configuration file already exists")

const sampleHeader = `# essentials configuration file
#
# Every value below is the built-in default. Delete what you do not need to
# override. Environment variables take precedence over this file, e.g.
#   ESSENTIALS_LOGGING_LEVEL=DEBUG
#   ESSENTIALS_SERVER_PORT=8080
#   ESSENTIALS_DELAY_DELAY=500ms
#
# Durations use Go syntax: 500ms, 2s, 1m30s.

`

// InitConfig writes a sample configuration file to the default location
// and returns its path.
func InitConfig(force bool) (string, error) {
	path := GetDefaultConfigPath()
	if err := InitConfigToPath(path, force); err != nil {
		return "", err
	}
	return path, nil
}

// InitConfigToPath writes a sample configuration file to path. An existing
// file is only replaced when force is true.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
		}
	}

	data, err := GenerateSample()
	if err != nil {
		return err
	}
	return writeConfigFile(path, data)
}

// GenerateSample returns the commented default configuration as YAML.
func GenerateSample() ([]byte, error) {
	body, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default config: %w", err)
	}
	return append([]byte(sampleHeader), body...), nil
}
