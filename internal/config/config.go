// Package config loads the YAML scenario file accepted by cmd/bailey's
// -config flag, an alternative to passing -scenario/-arg on the command line.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScenarioConfig names one scenario run: which scenario to build (see
// internal/scenario.Names) and, for scenarios that take one, its integer
// argument.
type ScenarioConfig struct {
	Scenario string `yaml:"scenario"`
	Arg      int32  `yaml:"arg"`
}

// Load reads and parses a ScenarioConfig from path.
func Load(path string) (*ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Scenario == "" {
		return nil, fmt.Errorf("config %s: missing required field \"scenario\"", path)
	}
	return &cfg, nil
}
