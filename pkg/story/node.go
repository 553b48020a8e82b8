package story

import (
	"maps"
	"slices"
	"strings"
)

// Node ids. The set is fixed; content providers must produce exactly these.
const (
	Opening       = "opening"
	Omen          = "omen"
	StudyRunes    = "study_runes"
	Ally          = "ally"
	Onward        = "onward"
	HiddenPath    = "hidden_path"
	Climax        = "climax"
	EndingHopeful = "ending_hopeful"
	EndingTragic  = "ending_tragic"
	EndingTwist   = "ending_twist"
)

// NodeIDs lists every node id in story order.
var NodeIDs = []string{
	Opening, Omen, StudyRunes, Ally, Onward, HiddenPath, Climax,
	EndingHopeful, EndingTragic, EndingTwist,
}

const (
	TagHidden = "hidden"
	TagEnding = "ending"
)

// Choice is one lettered option on a node.
type Choice struct {
	Label  string `json:"label"`
	Target string `json:"target"` // node id
}

// Node is a single narrative beat.
type Node struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Choices  map[string]Choice `json:"choices,omitempty"` // keyed "A", "B", "C"
	IsEnding bool              `json:"is_ending,omitempty"`
	Tags     []string          `json:"tags,omitempty"`
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	return slices.Contains(n.Tags, tag)
}

// ChoiceKeys returns the choice keys in display order.
func (n *Node) ChoiceKeys() []string {
	return slices.Sorted(maps.Keys(n.Choices))
}

// Choice looks up a choice by key. Keys are compared upper-cased.
func (n *Node) Choice(key string) (Choice, bool) {
	c, ok := n.Choices[strings.ToUpper(key)]
	return c, ok
}

// EndingStyle selects one of the three endings.
type EndingStyle string

const (
	Hopeful EndingStyle = "hopeful"
	Tragic  EndingStyle = "tragic"
	Twist   EndingStyle = "twist"
)

// EndingStyles lists the styles in the order a random pick draws from.
var EndingStyles = []EndingStyle{Hopeful, Twist, Tragic}

// ParseEndingStyle normalizes s. Anything unrecognized becomes Twist.
func ParseEndingStyle(s string) EndingStyle {
	switch EndingStyle(strings.ToLower(strings.TrimSpace(s))) {
	case Hopeful:
		return Hopeful
	case Tragic:
		return Tragic
	default:
		return Twist
	}
}

// EndingID returns the node id for an ending style.
func EndingID(style EndingStyle) string {
	return "ending_" + string(style)
}
