package senate

import (
	"strings"

	"golang.org/x/text/cases"
)

// Classifier answers whether a free-text candidate name in a given state
// belongs to a sitting senator, and if so which class the seat is in.
type Classifier struct {
	roster *Roster
	fold   cases.Caser
}

// NewClassifier creates a classifier over the given roster.
func NewClassifier(roster *Roster) *Classifier {
	return &Classifier{
		roster: roster,
		fold:   cases.Fold(),
	}
}

// Default creates a classifier over the embedded roster.
func Default() (*Classifier, error) {
	roster, err := EmbeddedRoster()
	if err != nil {
		return nil, err
	}
	return NewClassifier(roster), nil
}

// Version returns the roster's data version.
func (c *Classifier) Version() string {
	return c.roster.Version
}

// Classify matches a roster surname case-insensitively as a substring of
// the candidate name, conditioned on an exact state match. Classes are
// checked in the fixed order I, II, III; the first match wins. Returns
// (false, "") when no roster entry matches.
func (c *Classifier) Classify(name, state string) (bool, Class) {
	foldedName := c.fold.String(name)
	state = strings.ToUpper(strings.TrimSpace(state))

	for _, class := range classOrder {
		for _, senator := range c.roster.Classes[class] {
			if !strings.EqualFold(senator.State, state) {
				continue
			}
			if strings.Contains(foldedName, c.fold.String(senator.Surname)) {
				return true, class
			}
		}
	}
	return false, ""
}

// Senators returns the roster entries for a class, or every entry when
// class is empty.
func (c *Classifier) Senators(class Class) []Senator {
	if class != "" {
		return c.roster.Classes[class]
	}
	var all []Senator
	for _, cl := range classOrder {
		all = append(all, c.roster.Classes[cl]...)
	}
	return all
}
