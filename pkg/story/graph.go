package story

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Graph holds every node of a materialized story, keyed by id.
// The engine always reads nodes through the graph so that an ending
// replaced in place is seen immediately.
type Graph map[string]*Node

// Edge is one declared choice transition.
type Edge struct {
	From   string
	Key    string
	Label  string
	Target string
}

// Get returns the node for id.
func (g Graph) Get(id string) (*Node, bool) {
	n, ok := g[id]
	return n, ok
}

// Validate checks the graph against the fixed node set.
// All violations are reported together.
func (g Graph) Validate() error {
	var errs []error

	for _, id := range NodeIDs {
		if _, ok := g[id]; !ok {
			errs = append(errs, fmt.Errorf("missing node %q", id))
		}
	}

	for _, id := range slices.Sorted(maps.Keys(g)) {
		n := g[id]
		if !slices.Contains(NodeIDs, id) {
			errs = append(errs, fmt.Errorf("unexpected node %q", id))
		}
		if n == nil {
			errs = append(errs, fmt.Errorf("node %q is nil", id))
			continue
		}
		if n.ID != id {
			errs = append(errs, fmt.Errorf("node stored under %q has id %q", id, n.ID))
		}
		if n.IsEnding && len(n.Choices) > 0 {
			errs = append(errs, fmt.Errorf("ending %q has %d choices", id, len(n.Choices)))
		}
		if !n.IsEnding && len(n.Choices) == 0 {
			errs = append(errs, fmt.Errorf("node %q has no choices", id))
		}
		for _, key := range n.ChoiceKeys() {
			target := n.Choices[key].Target
			if _, ok := g[target]; !ok {
				errs = append(errs, fmt.Errorf("choice %s on %q targets unknown node %q", key, id, target))
			}
		}
	}

	return errors.Join(errs...)
}

// Edges lists every choice transition, ordered by node id then key.
func (g Graph) Edges() []Edge {
	var edges []Edge
	for _, id := range slices.Sorted(maps.Keys(g)) {
		n := g[id]
		if n == nil {
			continue
		}
		for _, key := range n.ChoiceKeys() {
			c := n.Choices[key]
			edges = append(edges, Edge{From: id, Key: key, Label: c.Label, Target: c.Target})
		}
	}
	return edges
}
