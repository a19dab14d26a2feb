package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/avirajkale50/cloud-guardian/internal/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigDirName is the directory under ~/.config holding all client state.
	ConfigDirName = "cloudguard"
	// ConfigFileName is the config file name inside the config directory.
	ConfigFileName = "config.yaml"
	// EnvPrefix is the prefix for environment variable overrides,
	// e.g. CLOUDGUARD_SERVER_URL.
	EnvPrefix = "CLOUDGUARD"
)

// Dir returns the cloudguard config directory (~/.config/cloudguard),
// creating nothing. An empty string means the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", ConfigDirName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFileName)
}

// Load reads config from the given path, falling back to defaults for any
// missing fields. An empty path uses the default location; a missing file at
// the default location is not an error. A `.env` file in the working
// directory is loaded first so its values are visible as env overrides.
func Load(path string) (*Config, error) {
	// Ignore a missing .env; only explicit config paths are required to exist.
	_ = godotenv.Load()

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Explicit binds so env-only values survive Unmarshal.
	for _, key := range []string{
		"server_url", "timeout", "page_size",
		"poll.instances", "poll.metrics", "poll.decisions",
		"output.color",
	} {
		_ = v.BindEnv(key)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				if explicit {
					return nil, errors.WrapWithCode(err, errors.ErrConfig,
						"Config file not found: "+path,
						"Run 'cloudguard config init' to create one, or check the --config path")
				}
				// Default location, no file: env + defaults only.
				return unmarshal(v, path)
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML: "+path)
		}
	}

	return unmarshal(v, path)
}

// Write saves the config as YAML at the given path, creating parent
// directories as needed. Used by 'cloudguard config init'.
func Write(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"Cannot determine config location",
			"Set HOME, or pass an explicit path with --config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to create config directory",
			"Check permissions on "+filepath.Dir(path))
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config", "")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write config file",
			"Check permissions on "+path)
	}

	return nil
}

// setDefaults registers defaults so env-only and partial configs work.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("server_url", def.ServerURL)
	v.SetDefault("timeout", def.Timeout.String())
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("poll.instances", def.Poll.Instances.String())
	v.SetDefault("poll.metrics", def.Poll.Metrics.String())
	v.SetDefault("poll.decisions", def.Poll.Decisions.String())
	v.SetDefault("output.color", def.Output.Color)
}

func unmarshal(v *viper.Viper, path string) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
