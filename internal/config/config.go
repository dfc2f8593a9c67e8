// Package config loads xg's optional TOML configuration file, following the
// same decode-into-struct pattern dekarrin-tunaq uses for its world and
// server TOML files (internal/tqw/marshaling.go, server/config.go): a plain
// struct with TOML-tagged fields, defaulted before decode so a partial file
// only overrides what it mentions.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the emitter and generator defaults a full run of xg needs
// beyond what a single grammar file specifies. CLI flags (see cmd/xg)
// override whatever a config file sets.
type Config struct {
	// Emit controls the code emitter (emit.Options' source of defaults).
	Emit EmitConfig `toml:"emit"`

	// Sentence controls the random sentence generator's defaults.
	Sentence SentenceConfig `toml:"sentence"`
}

// EmitConfig mirrors emit.Options' fields in TOML-loadable form.
type EmitConfig struct {
	// DebugTrace gates emission of the #ifndef NDEBUG symbol-name and
	// production-text tables (spec.md §4.6, SPEC_FULL.md §4).
	DebugTrace bool `toml:"debug_trace"`

	// SplitThreshold is the state count above which the generator warns
	// that the emitted function is large enough to consider splitting it
	// (spec.md §9's "Stack-growing emission" note); the emitter itself always
	// writes a single function. Zero means never warn.
	SplitThreshold int `toml:"split_threshold"`
}

// SentenceConfig mirrors sentence.Generator's construction parameters.
type SentenceConfig struct {
	// Budget is the default recursion budget passed to Generate.
	Budget int `toml:"budget"`

	// Seed seeds the generator's RNG for reproducible output. Zero means
	// "unset"; the CLI falls back to a time-seeded source in that case,
	// exactly as sentence.New(g, nil) does.
	Seed int64 `toml:"seed"`
}

// Default returns the configuration used when no --config file is given.
func Default() Config {
	return Config{
		Emit: EmitConfig{
			DebugTrace:     true,
			SplitThreshold: 2000,
		},
		Sentence: SentenceConfig{
			Budget: 64,
		},
	}
}

// Load reads and decodes the TOML file at path on top of Default(), so a
// file that only sets e.g. [sentence].seed leaves every other default
// field untouched.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
