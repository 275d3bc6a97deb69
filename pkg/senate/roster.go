// Package senate classifies candidates as sitting senators using a fixed
// roster keyed by Senate class. The roster is versioned configuration data,
// embedded by default and replaceable at runtime, so seat changes are data
// updates rather than code changes.
package senate

import (
	_ "embed"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/electionwatch/fecrecon/pkg/errors"
)

//go:embed roster.yaml
var embeddedRoster []byte

// Class identifies one of the three Senate classes.
type Class string

// The three Senate classes, a third of the chamber each.
const (
	ClassI   Class = "I"
	ClassII  Class = "II"
	ClassIII Class = "III"
)

// classOrder fixes the lookup order. Rosters are disjoint by state in
// correct data, so order should not matter; it is fixed anyway so that
// overlapping source data still classifies deterministically.
var classOrder = []Class{ClassI, ClassII, ClassIII}

// Senator is one roster entry.
type Senator struct {
	Surname string `yaml:"surname"`
	State   string `yaml:"state"`
}

// Roster is the full sitting-senator dataset.
type Roster struct {
	Version string              `yaml:"version"`
	Classes map[Class][]Senator `yaml:"classes"`
}

// Validate checks the roster for structural problems.
func (r *Roster) Validate() error {
	if len(r.Classes) == 0 {
		return errors.NewValidationError("classes", nil, "roster has no classes")
	}
	for class, senators := range r.Classes {
		if class != ClassI && class != ClassII && class != ClassIII {
			return errors.NewValidationError("class", string(class), "unknown Senate class")
		}
		for _, s := range senators {
			if s.Surname == "" {
				return errors.NewValidationError("surname", s, "must not be empty")
			}
			if len(s.State) != 2 {
				return errors.NewValidationError("state", s.State, "must be a two-letter code")
			}
		}
	}
	return nil
}

// ParseRoster parses roster YAML.
func ParseRoster(data []byte) (*Roster, error) {
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, errors.WrapParse("yaml", "roster", err)
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return &roster, nil
}

// EmbeddedRoster returns the roster compiled into the binary.
func EmbeddedRoster() (*Roster, error) {
	return ParseRoster(embeddedRoster)
}

// LoadRosterFile loads a roster from a YAML file, overriding the embedded
// data.
func LoadRosterFile(path string) (*Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	return ParseRoster(data)
}
