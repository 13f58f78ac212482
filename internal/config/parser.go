package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	apperrors "github.com/alexisbeaulieu97/conservancy/pkg/errors"
)

// Environment variables applied after the file is parsed.
const (
	EnvAddress          = "CONSERVANCY_ADDRESS"
	EnvLogLevel         = "CONSERVANCY_LOG_LEVEL"
	EnvRevalidateSecret = "CONSERVANCY_REVALIDATE_SECRET"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads the configuration at path on top of Default, applies environment
// overrides and validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.NewParseError(path, 0, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, apperrors.NewParseError(path, extractLine(err), err)
		}
	}

	applyEnv(cfg, lookup)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvAddress); ok && v != "" {
		cfg.Server.Address = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(EnvRevalidateSecret); ok {
		cfg.Cache.RevalidateSecret = v
	}
}

// IsNotExist reports whether err is a load failure caused by a missing file.
func IsNotExist(err error) bool {
	var parseErr *apperrors.ParseError
	return errors.As(err, &parseErr) && errors.Is(parseErr.Err, os.ErrNotExist)
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
