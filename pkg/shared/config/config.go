package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config is the application configuration loaded from a YAML file. Any
// command-line flag overrides the value loaded here.
type Config struct {
	Logger Logger `yaml:"logger"`
	Link   Link   `yaml:"link"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Link holds defaults for the link command.
type Link struct {
	Title          string `yaml:"title"`
	DefectURLBase  string `yaml:"defect_url_base"`
	CheckerURLBase string `yaml:"checker_url_base"`
}

// ValidateConfigPath checks that the given path points at a readable file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration file. A missing file is not an error:
// the zero configuration is returned and defaults apply.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}

	return config, nil
}
