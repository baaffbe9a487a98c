// Package config loads the optional otterc.yaml build profile and merges it
// under explicit CLI flags (SPEC_FULL.md §2).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile is the decoded shape of otterc.yaml: defaults for the codegen
// options a caller would otherwise have to repeat on every invocation.
type Profile struct {
	OptLevel string `yaml:"opt_level"`
	EmitIR   bool   `yaml:"emit_ir"`
	LTO      bool   `yaml:"lto"`
}

// Load reads path and decodes it as a Profile. A missing file is not an
// error — it yields the zero Profile, since the CLI's own flag defaults
// apply in that case.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Profile{}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}

// MergeOptLevel returns the flag value if it was explicitly set, otherwise
// the profile's opt_level, otherwise def.
func MergeOptLevel(flagSet bool, flagValue string, p Profile, def string) string {
	if flagSet {
		return flagValue
	}
	if p.OptLevel != "" {
		return p.OptLevel
	}
	return def
}
