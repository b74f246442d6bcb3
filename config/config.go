// Package config provides target platform descriptions for the rewrite
// engine: the few knobs that are not carried by the rule table itself.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retargetlab/relower/api"
)

// Platform describes the target conventions the engine needs beyond the
// rule table: how wide a stack slot is and which register anchors the
// composed location expressions.
type Platform struct {
	Name         string `yaml:"name"`
	WordSize     int    `yaml:"wordSize"`
	BaseRegister string `yaml:"baseRegister"`
}

// Default returns the 16-bit platform the stock rule tables target.
func Default() Platform {
	return Platform{
		Name:         "x86-16",
		WordSize:     2,
		BaseRegister: "bp",
	}
}

// LoadPlatformFile reads a platform description from a YAML file. Missing
// fields fall back to the defaults.
func LoadPlatformFile(path string) (Platform, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Platform{}, fmt.Errorf("load platform file: %w", err)
	}

	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Platform{}, fmt.Errorf("load platform file %s: %w", path, err)
	}
	if p.WordSize < 1 {
		return Platform{}, fmt.Errorf("load platform file %s: word size %d", path, p.WordSize)
	}
	if p.BaseRegister == "" {
		return Platform{}, fmt.Errorf("load platform file %s: empty base register", path)
	}

	return p, nil
}

// MakeDriver builds a driver configured for this platform.
func (p Platform) MakeDriver(name string) api.Driver {
	return api.NewDriverBuilder().
		WithWordSize(p.WordSize).
		WithBaseRegister(p.BaseRegister).
		Build(name)
}
