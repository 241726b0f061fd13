package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the external command that drafts task text.
type Config struct {
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
	Dir         string            `yaml:"dir" json:"dir"`
	Timeout     time.Duration     `yaml:"timeout" json:"timeout"`
}

// ParseCommand builds a Config from a command line. Arguments are split on
// whitespace; quoting is not supported.
func ParseCommand(line string) (Config, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Config{}, fmt.Errorf("empty generator command")
	}
	return Config{Command: fields[0], Args: fields[1:]}, nil
}

// LoadConfig reads a generator config file. Files ending in .json are decoded
// as JSON, everything else as YAML.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read generator config: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	if cfg.Command == "" {
		return Config{}, fmt.Errorf("%s: command is required", filepath.Base(path))
	}
	return cfg, nil
}
