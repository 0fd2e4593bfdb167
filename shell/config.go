package shell

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/eventify/eventify"
)

const (
	defaultPrompt      = ">"
	defaultHistorySize = 100
)

// Config holds initialization parameters for the shell and the subject it
// wraps.
type Config struct {
	Policy eventify.Policy `json:"policy" yaml:"policy"`
	// Marked names the commands marked for instrumentation.
	Marked []string `json:"marked,omitempty" yaml:"marked,omitempty" env:"EVENTIFY_MARKED" envSeparator:","`
	// Observers names observability observers to attach.
	Observers []string `json:"observers,omitempty" yaml:"observers,omitempty" env:"EVENTIFY_OBSERVERS" envSeparator:","`
	// Delivery is "stop" or "isolate".
	Delivery string `json:"delivery,omitempty" yaml:"delivery,omitempty" env:"EVENTIFY_DELIVERY"`
	// Echo prints every event in "text" or "json" format when set.
	Echo        string `json:"echo,omitempty" yaml:"echo,omitempty" env:"EVENTIFY_ECHO"`
	Prompt      string `json:"prompt,omitempty" yaml:"prompt,omitempty" env:"EVENTIFY_PROMPT"`
	HistorySize int    `json:"history_size,omitempty" yaml:"history_size,omitempty" env:"EVENTIFY_HISTORY_SIZE"`
}

// DefaultConfig returns a Config that instruments every command and stops
// delivery at the first observer failure.
func DefaultConfig() Config {
	return Config{
		Delivery:    string(eventify.DeliveryStop),
		Prompt:      defaultPrompt,
		HistorySize: defaultHistorySize,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if len(source.Policy.AllowList) > 0 {
		c.Policy.AllowList = source.Policy.AllowList
	}
	if source.Policy.MarkedOnly {
		c.Policy.MarkedOnly = true
	}
	if len(source.Marked) > 0 {
		c.Marked = source.Marked
	}
	if len(source.Observers) > 0 {
		c.Observers = source.Observers
	}
	if source.Delivery != "" {
		c.Delivery = source.Delivery
	}
	if source.Echo != "" {
		c.Echo = source.Echo
	}
	if source.Prompt != "" {
		c.Prompt = source.Prompt
	}
	if source.HistorySize > 0 {
		c.HistorySize = source.HistorySize
	}
}

// Markers returns the marker side table for the configured Marked names.
func (c *Config) Markers() eventify.Markers {
	return eventify.Mark(c.Marked...)
}

// LoadConfig reads a YAML (.yaml, .yml) or JSON config file, merges it with
// defaults, and returns the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// ApplyEnv overrides c with any EVENTIFY_* environment variables that are set.
func ApplyEnv(c *Config) error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
