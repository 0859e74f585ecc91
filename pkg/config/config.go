package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gobf/pkg/machine"
)

// Config holds the settings shared by the command-line front ends.
type Config struct {
	// Underflow is "error" or "clamp".
	Underflow     string `yaml:"underflow"`
	// StepsPerFrame bounds how many instructions the desktop runs per frame.
	StepsPerFrame int    `yaml:"steps_per_frame"`
	Window        Window `yaml:"window"`
	Verbose       bool   `yaml:"verbose"`
}

type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func Default() *Config {
	return &Config{
		Underflow:     "error",
		StepsPerFrame: 10000,
		Window: Window{
			Width:  640,
			Height: 360,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.UnderflowPolicy(); err != nil {
		return err
	}
	if c.StepsPerFrame <= 0 {
		return fmt.Errorf("steps_per_frame must be positive, got %d", c.StepsPerFrame)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

func (c *Config) UnderflowPolicy() (machine.UnderflowPolicy, error) {
	return machine.ParseUnderflowPolicy(c.Underflow)
}
