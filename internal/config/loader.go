package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for config files whose extension is
// neither TOML nor YAML.
var ErrUnsupportedFormat = errors.New("unsupported config format")

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadMap reads one config file into a raw map, choosing the decoder by
// file extension (.toml, .yaml, .yml). A missing file yields a nil map and
// no error so optional layers can be listed unconditionally.
func LoadMap(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return raw, nil
}

// Load reads and validates a layered configuration: defaults first, then
// each file in order, later files overriding earlier ones.
func Load(paths ...string) (*Config, error) {
	merged, err := defaultLayer()
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		layer, err := LoadMap(path)
		if err != nil {
			return nil, err
		}
		merged = DeepMerge(merged, layer)
	}

	cfg := &Config{}
	if err := decodeInto(merged, cfg); err != nil {
		return nil, err
	}
	if cfg.Keymap == nil {
		cfg.Keymap = map[string]string{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// defaultLayer renders the built-in configuration as a raw map so it can
// be merged under the file layers.
func defaultLayer() (map[string]any, error) {
	data, err := toml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding default config: %w", err)
	}
	return raw, nil
}

// decodeInto applies a merged raw map onto a Config by round-tripping it
// through the TOML codec, so TOML and YAML layers decode identically.
func decodeInto(raw map[string]any, cfg *Config) error {
	data, err := toml.Marshal(raw)
	if err != nil {
		return fmt.Errorf("merging config layers: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return &ParseError{Path: "<merged>", Message: err.Error(), Err: err}
	}
	return nil
}
