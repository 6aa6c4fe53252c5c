// Package config loads the optional bulkurl.yaml project file. Values act
// as defaults below environment variables and CLI flags.
package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ProjectConfig mirrors bulkurl.yaml.
type ProjectConfig struct {
	URLFormat       string   `yaml:"url_format,omitempty"`
	FilenameFormat  string   `yaml:"filename_format,omitempty"`
	InputType       string   `yaml:"input_type,omitempty"`
	Meta            []string `yaml:"meta,omitempty"`
	ExcludeAutometa *string  `yaml:"exclude_autometa,omitempty"`
	MissingValue    string   `yaml:"missing_value,omitempty"`
	IfExists        string   `yaml:"ifexists,omitempty"`
	Message         string   `yaml:"message,omitempty"`
	Connection      string   `yaml:"connection,omitempty"`
}

// ConfigFileName is looked up in the dataset directory.
const ConfigFileName = "bulkurl.yaml"

// Load reads the project config from datasetPath.
func Load(datasetPath string) (*ProjectConfig, error) {
	configPath := filepath.Join(datasetPath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
