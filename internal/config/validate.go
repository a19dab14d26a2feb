package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/avirajkale50/cloud-guardian/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config version %d is newer than this client understands (max %d)", cfg.Version, CurrentConfigVersion),
			"Update cloudguard, or regenerate the config with 'cloudguard config init'")
	}

	if strings.TrimSpace(cfg.ServerURL) == "" {
		return errors.New(errors.ErrConfig,
			"server_url is empty",
			"Set server_url in the config file or export CLOUDGUARD_SERVER_URL")
	}

	u, err := url.Parse(cfg.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("server_url %q is not a valid http(s) URL", cfg.ServerURL),
			"Use a full URL like http://localhost:5000/api")
	}

	if cfg.PageSize < 1 || cfg.PageSize > 100 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("page_size %d is out of range", cfg.PageSize),
			"Use a page size between 1 and 100")
	}

	if cfg.Timeout <= 0 {
		return errors.New(errors.ErrConfig,
			"timeout must be positive",
			"Use a duration like 10s or 1m")
	}

	for name, d := range map[string]interface{ Seconds() float64 }{
		"poll.instances": cfg.Poll.Instances,
		"poll.metrics":   cfg.Poll.Metrics,
		"poll.decisions": cfg.Poll.Decisions,
	} {
		if d.Seconds() < 1 {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("%s interval is too short", name),
				"Minimum poll interval is 1s to avoid hammering the service")
		}
	}

	switch cfg.Output.Color {
	case "auto", "always", "never":
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("output.color %q is not recognized", cfg.Output.Color),
			"Use one of: auto, always, never")
	}

	return nil
}
