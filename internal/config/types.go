package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete cloudguard configuration file.
type Config struct {
	Version   int           `yaml:"version" mapstructure:"version"`
	ServerURL string        `yaml:"server_url" mapstructure:"server_url"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	PageSize  int           `yaml:"page_size" mapstructure:"page_size"`
	Poll      PollConfig    `yaml:"poll" mapstructure:"poll"`
	Output    OutputConfig  `yaml:"output" mapstructure:"output"`
}

// PollConfig controls how often cached server resources are refreshed.
// Decisions poll faster than the rest: they are the signal operators
// watch for.
type PollConfig struct {
	Instances time.Duration `yaml:"instances" mapstructure:"instances"`
	Metrics   time.Duration `yaml:"metrics" mapstructure:"metrics"`
	Decisions time.Duration `yaml:"decisions" mapstructure:"decisions"`
}

// OutputConfig controls terminal output behavior.
type OutputConfig struct {
	// Color mode: "auto", "always", or "never".
	Color string `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return &Config{
		Version:   CurrentConfigVersion,
		ServerURL: "http://localhost:5000/api",
		Timeout:   10 * time.Second,
		PageSize:  20,
		Poll: PollConfig{
			Instances: 30 * time.Second,
			Metrics:   30 * time.Second,
			Decisions: 15 * time.Second,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}
