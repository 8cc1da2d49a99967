package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pevans/adwatch/apperr"
)

// DefaultPath is the optional config file looked up in the working
// directory.
const DefaultPath = "adwatch.yaml"

// Load returns the built-in configuration overlaid with the YAML file at
// path. A missing file is not an error: the defaults are returned as-is.
// Fields absent from the file keep their defaults; headers are merged into
// the default header set.
func Load(path string) (Config, error) {
	cfg := Default()

	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, apperr.New(apperr.KindRead, "read config file", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, apperr.New(apperr.KindDecode, "parse config file", path, fmt.Errorf("failed to parse config file: %w", err))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, apperr.New(apperr.KindConfig, "validate config file", path, err)
	}

	return cfg, nil
}
