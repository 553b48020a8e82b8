package content

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// Genre is a named set of world motifs.
type Genre struct {
	Name   string   `yaml:"name"`
	Motifs []string `yaml:"motifs"`
}

// Tables holds every phrase list the generator draws from.
type Tables struct {
	Genres         []Genre             `yaml:"genres"`
	Incidents      []string            `yaml:"incidents"`
	Clues          []string            `yaml:"clues"`
	AllyFirstNames []string            `yaml:"ally_first_names"`
	AllyLastNames  []string            `yaml:"ally_last_names"`
	Terrains       []string            `yaml:"terrains"`
	Forces         []string            `yaml:"forces"`
	Endings        map[string][]string `yaml:"endings"`
}

// ParseTables decodes and validates a YAML phrase table.
func ParseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode phrase tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("invalid phrase tables: %w", err)
	}
	return &t, nil
}

// Validate reports every empty list the generator would need to draw from.
func (t *Tables) Validate() error {
	var errs []error
	if len(t.Genres) == 0 {
		errs = append(errs, errors.New("no genres"))
	}
	for _, g := range t.Genres {
		if len(g.Motifs) == 0 {
			errs = append(errs, fmt.Errorf("genre %q has no motifs", g.Name))
		}
	}
	lists := []struct {
		name  string
		items []string
	}{
		{"incidents", t.Incidents},
		{"clues", t.Clues},
		{"ally_first_names", t.AllyFirstNames},
		{"ally_last_names", t.AllyLastNames},
		{"terrains", t.Terrains},
		{"forces", t.Forces},
	}
	for _, l := range lists {
		if len(l.items) == 0 {
			errs = append(errs, fmt.Errorf("%s is empty", l.name))
		}
	}
	for _, style := range []string{"hopeful", "tragic", "twist"} {
		if len(t.Endings[style]) == 0 {
			errs = append(errs, fmt.Errorf("no %s endings", style))
		}
	}
	return errors.Join(errs...)
}

// closestGenre matches genre by exact name, then by a shared three-letter
// prefix, and otherwise returns the first genre in the table.
func (t *Tables) closestGenre(genre string) Genre {
	k := strings.ToLower(strings.TrimSpace(genre))
	for _, g := range t.Genres {
		if g.Name == k {
			return g
		}
	}
	prefix := k
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	for _, g := range t.Genres {
		if strings.HasPrefix(g.Name, prefix) {
			return g
		}
	}
	return t.Genres[0]
}
