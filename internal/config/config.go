// Package config loads the embedding configuration: executable languages,
// an optional Lua classifier script, presentation tags and keymap
// overrides. Files may be TOML or YAML; multiple files merge in order with
// later files overriding earlier ones, and a watcher reloads the merged
// result on change.
package config

import (
	"fmt"
	"sort"

	"inlay/internal/keys"
)

// Config is the root configuration.
type Config struct {
	// Languages configures language detection and execution.
	Languages LanguagesConfig `toml:"languages" yaml:"languages"`

	// Editor configures the embedded editor presentation.
	Editor EditorConfig `toml:"editor" yaml:"editor"`

	// Keymap maps action names to chord notation, overriding the built-in
	// table. Example: keymap.exit = "Shift-Enter".
	Keymap map[string]string `toml:"keymap" yaml:"keymap"`
}

// LanguagesConfig configures language detection and execution.
type LanguagesConfig struct {
	// Executable lists languages the run affordance is offered for.
	// Matching is loose: case and diacritics are ignored.
	Executable []string `toml:"executable" yaml:"executable"`

	// Classifier is an optional path to a Lua classifier script defining
	// classify(attrs, text).
	Classifier string `toml:"classifier" yaml:"classifier"`
}

// EditorConfig configures the embedded editor presentation.
type EditorConfig struct {
	// Border is the border style tag for embedded editors.
	Border string `toml:"border" yaml:"border"`

	// Classes lists style classes applied to embedded editors.
	Classes []string `toml:"classes" yaml:"classes"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Languages: LanguagesConfig{
			Executable: []string{"r", "python", "sql"},
		},
		Editor: EditorConfig{
			Border: "rounded",
		},
		Keymap: map[string]string{},
	}
}

// Validate checks the configuration for values that cannot work: keymap
// overrides must parse as chords on every platform they can resolve on.
func (c *Config) Validate() error {
	for action, notation := range c.Keymap {
		for _, goos := range []string{"linux", "darwin"} {
			if _, err := keys.ParseFor(notation, goos); err != nil {
				return fmt.Errorf("keymap override %q: %w", action, err)
			}
		}
	}
	return nil
}

// KeymapSpecs converts the keymap overrides into chord specs, suitable for
// appending after a default table. Specs are ordered by action name so
// resolution is deterministic.
func (c *Config) KeymapSpecs() []keys.Spec {
	actions := make([]string, 0, len(c.Keymap))
	for action := range c.Keymap {
		actions = append(actions, action)
	}
	sort.Strings(actions)

	specs := make([]keys.Spec, 0, len(actions))
	for _, action := range actions {
		specs = append(specs, keys.Spec{Action: action, Chord: c.Keymap[action]})
	}
	return specs
}
