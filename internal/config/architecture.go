package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Architecture is the caller-supplied description of the machine a checked
// program will run on. The analyzer refuses any unit whose cost bound is
// above CostCeiling.
type Architecture struct {
	// Name identifies the architecture in diagnostics and stored artifacts.
	Name string `yaml:"name,omitempty"`

	// CostCeiling is the largest admissible whole-unit cost, inclusive.
	// Defaults to DefaultCostCeiling when omitted.
	CostCeiling uint64 `yaml:"cost_ceiling"`

	// MaxGenericDepth bounds how deeply type arguments may themselves be
	// applied generics, e.g. List<List<Int, 2>, 3> has depth 2.
	// Defaults to DefaultMaxGenericDepth when omitted.
	MaxGenericDepth int `yaml:"max_generic_depth,omitempty"`
}

// DefaultArchitecture returns an Architecture with every limit at its
// default.
func DefaultArchitecture() *Architecture {
	a := &Architecture{Name: "default"}
	a.setDefaults()
	return a
}

// LoadArchitecture reads and parses an architecture YAML file.
func LoadArchitecture(path string) (*Architecture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading architecture %s: %w", path, err)
	}
	return ParseArchitecture(data, path)
}

// ParseArchitecture parses architecture YAML from bytes.
// The path argument is used only for error messages.
func ParseArchitecture(data []byte, path string) (*Architecture, error) {
	var arch Architecture
	if err := yaml.Unmarshal(data, &arch); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := arch.validate(path); err != nil {
		return nil, err
	}
	arch.setDefaults()
	return &arch, nil
}

// validate checks the configuration for semantic errors.
func (a *Architecture) validate(path string) error {
	if a.MaxGenericDepth < 0 {
		return fmt.Errorf("%s: max_generic_depth must not be negative", path)
	}
	return nil
}

// WithDefaults returns a copy of a with every unset limit at its default.
func (a *Architecture) WithDefaults() *Architecture {
	c := *a
	c.setDefaults()
	return &c
}

// setDefaults fills in default values for optional fields.
func (a *Architecture) setDefaults() {
	if a.CostCeiling == 0 {
		a.CostCeiling = DefaultCostCeiling
	}
	if a.MaxGenericDepth == 0 {
		a.MaxGenericDepth = DefaultMaxGenericDepth
	}
	if a.Name == "" {
		a.Name = "default"
	}
}
