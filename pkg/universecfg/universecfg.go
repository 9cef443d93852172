// Copyright 2025 Certen Protocol
//
// Universe bounds override loader.
//
// Adapted from pkg/config's AnchorConfig YAML loader (LoadAnchorConfig,
// substituteEnvVars): same pattern -- read a YAML file, substitute
// ${VAR_NAME} / ${VAR_NAME:-default} references against the environment,
// unmarshal -- narrowed from the anchor file's dozen settings blocks down
// to the one thing the reasoning executor's universes actually need to
// override (SPEC_FULL.md section 4.2.1, resolving the "can bounds be
// overridden" open question).
package universecfg

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/certen/semtrace/internal/universe"
)

// File is the on-disk shape of a universe bounds override file:
//
//	rational:
//	  den_max: 200
//	  num_abs_max: 200
//	triangle:
//	  bound: 20
type File struct {
	Rational *RationalSettings `yaml:"rational"`
	Triangle *TriangleSettings `yaml:"triangle"`
}

// RationalSettings overrides universe.RationalBox.
type RationalSettings struct {
	DenMax    int32 `yaml:"den_max"`
	NumAbsMax int32 `yaml:"num_abs_max"`
}

// TriangleSettings overrides the triangle side bound.
type TriangleSettings struct {
	Bound int32 `yaml:"bound"`
}

// envVarPattern matches ${VAR_NAME} or ${VAR_NAME:-default}, exactly as
// pkg/config's anchor loader does.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultValue := ""
		if len(groups) >= 4 {
			defaultValue = groups[3]
		}
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads a bounds override file from path, substituting environment
// variables first. A zero field in the file leaves the corresponding
// default bound untouched.
func Load(path string) (universe.Bounds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return universe.Bounds{}, fmt.Errorf("universecfg: reading %s: %w", path, err)
	}
	expanded := substituteEnvVars(string(data))

	var f File
	if err := yaml.Unmarshal([]byte(expanded), &f); err != nil {
		return universe.Bounds{}, fmt.Errorf("universecfg: parsing %s: %w", path, err)
	}

	bounds := universe.DefaultBounds()
	if f.Rational != nil {
		if f.Rational.DenMax != 0 {
			bounds.RationalBox.DenMax = f.Rational.DenMax
		}
		if f.Rational.NumAbsMax != 0 {
			bounds.RationalBox.NumAbsMax = f.Rational.NumAbsMax
		}
	}
	if f.Triangle != nil && f.Triangle.Bound != 0 {
		bounds.TriangleBound = f.Triangle.Bound
	}
	return bounds, nil
}
