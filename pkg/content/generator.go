// Package content produces the text and choices for every story node.
// Output depends only on the world state it is given; all randomness
// comes from a generator seeded with the world seed.
package content

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/jwebster45206/storybook/pkg/story"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Provider materializes story graphs for a world state.
type Provider interface {
	Materialize(ws *state.WorldState) story.Graph
	RegenerateEnding(style story.EndingStyle, ws *state.WorldState) *story.Node
}

// Generator is the default Provider, backed by phrase tables.
type Generator struct {
	tables *Tables
	caser  cases.Caser
}

var _ Provider = (*Generator)(nil)

// NewGenerator returns a generator using the embedded phrase tables.
func NewGenerator() *Generator {
	g, err := NewGeneratorFromYAML(defaultTables)
	if err != nil {
		panic(fmt.Sprintf("embedded phrase tables: %v", err))
	}
	return g
}

// NewGeneratorFromYAML returns a generator using custom phrase tables.
func NewGeneratorFromYAML(data []byte) (*Generator, error) {
	t, err := ParseTables(data)
	if err != nil {
		return nil, err
	}
	return &Generator{
		tables: t,
		caser:  cases.Title(language.English),
	}, nil
}

// Genres lists the genre names in table order.
func (g *Generator) Genres() []string {
	names := make([]string, len(g.tables.Genres))
	for i, genre := range g.tables.Genres {
		names[i] = genre.Name
	}
	return names
}

// newRand seeds a PCG source from the world seed and a stream selector.
func newRand(seed uint32, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), stream))
}

func pick(r *rand.Rand, items []string) string {
	return items[r.IntN(len(items))]
}

// Materialize builds the full node set. Nodes draw from one random
// stream in a fixed order, so equal states give equal graphs.
func (g *Generator) Materialize(ws *state.WorldState) story.Graph {
	r := newRand(ws.WorldSeed, 0)

	graph := story.Graph{
		story.Opening:    g.opening(r, ws),
		story.Omen:       g.omen(r, ws),
		story.StudyRunes: g.studyRunes(ws),
		story.Ally:       g.ally(r),
		story.Onward:     g.onward(r),
		story.HiddenPath: g.hiddenPath(),
		story.Climax:     g.climax(r, ws),
	}
	for _, style := range []story.EndingStyle{story.Hopeful, story.Tragic, story.Twist} {
		graph[story.EndingID(style)] = g.RegenerateEnding(style, ws)
	}
	return graph
}

// RegenerateEnding builds the ending node for style. Each style has its
// own random stream, so rebuilding one ending never shifts another.
func (g *Generator) RegenerateEnding(style story.EndingStyle, ws *state.WorldState) *story.Node {
	style = story.ParseEndingStyle(string(style))
	r := newRand(ws.WorldSeed, endingStream(style))

	var b strings.Builder
	fmt.Fprintf(&b, "After all trials, %s and %s face the consequences. ", ws.Protagonist, ws.Companion)
	b.WriteString(pick(r, g.tables.Endings[string(style)]))
	if len(ws.Inventory) > 0 {
		fmt.Fprintf(&b, " Among their belongings: %s.", strings.Join(ws.Inventory, ", "))
	}
	fmt.Fprintf(&b, "\n\nThis chapter closes in a %s way.", style)

	return &story.Node{
		ID:       story.EndingID(style),
		Text:     b.String(),
		IsEnding: true,
		Tags:     []string{story.TagEnding, string(style)},
	}
}

func endingStream(style story.EndingStyle) uint64 {
	switch style {
	case story.Hopeful:
		return 1
	case story.Tragic:
		return 2
	default:
		return 3
	}
}

func (g *Generator) opening(r *rand.Rand, ws *state.WorldState) *story.Node {
	world := g.capitalize(pick(r, g.tables.closestGenre(ws.Genre).Motifs)) + "."
	hook := pick(r, g.tables.Incidents)
	return &story.Node{
		ID: story.Opening,
		Text: fmt.Sprintf("In a %s %s world, %s travels with %s. %s %s\n\nWhat will you do?",
			ws.Tone, ws.Genre, ws.Protagonist, ws.Companion, world, hook),
		Choices: map[string]story.Choice{
			"A": {Label: "Investigate the omen", Target: story.Omen},
			"B": {Label: "Seek an ally in the nearest settlement", Target: story.Ally},
			"C": {Label: "Ignore it and press onward", Target: story.Onward},
		},
	}
}

func (g *Generator) omen(r *rand.Rand, ws *state.WorldState) *story.Node {
	return &story.Node{
		ID: story.Omen,
		Text: fmt.Sprintf("The air shivers as runes flicker across the path. %s whispers about old tales. You notice %s.\n\nWill you:",
			ws.Companion, pick(r, g.tables.Clues)),
		Choices: map[string]story.Choice{
			"A": {Label: "Study the runes closely", Target: story.StudyRunes},
			"B": {Label: "Mark the site and retreat for now", Target: story.Opening},
			"C": {Label: "Touch the brightest rune", Target: story.Onward},
		},
	}
}

func (g *Generator) studyRunes(ws *state.WorldState) *story.Node {
	return &story.Node{
		ID: story.StudyRunes,
		Text: fmt.Sprintf("As %s studies the runes, %s gasps. The symbols rearrange themselves into a path only visible under moonlight, pulsing gently toward a hidden direction.\n\nWhat will you do next?",
			ws.Protagonist, ws.Companion),
		Choices: map[string]story.Choice{
			"A": {Label: "Follow the glowing path", Target: story.HiddenPath},
			"B": {Label: "Step back and take in the whole omen", Target: story.Omen},
			"C": {Label: "Erase one and see what happens", Target: story.Climax},
		},
	}
}

func (g *Generator) ally(r *rand.Rand) *story.Node {
	name := pick(r, g.tables.AllyFirstNames) + " " + pick(r, g.tables.AllyLastNames)
	return &story.Node{
		ID: story.Ally,
		Text: fmt.Sprintf("At the settlement, a wary figure named %s offers guidance for a price. They speak of a hidden way only the persistent may find.\n\nChoose:",
			name),
		Choices: map[string]story.Choice{
			"A": {Label: "Barter a keepsake for their map", Target: story.Onward},
			"B": {Label: "Earn trust by helping with a local problem", Target: story.Omen},
			"C": {Label: "Refuse and chart your own route", Target: story.Onward},
		},
	}
}

func (g *Generator) onward(r *rand.Rand) *story.Node {
	return &story.Node{
		ID: story.Onward,
		Text: fmt.Sprintf("You press onward into %s. The path splits before a stone arch. Beneath the moss, faint grooves suggest something is missing.\n\nDo you:",
			pick(r, g.tables.Terrains)),
		Choices: map[string]story.Choice{
			"A": {Label: "Search the area for a fitting object", Target: story.Climax},
			"B": {Label: "Force your way through the arch", Target: story.Climax},
			"C": {Label: "Set camp and wait for signs", Target: story.Omen},
		},
	}
}

func (g *Generator) hiddenPath() *story.Node {
	return &story.Node{
		ID:   story.HiddenPath,
		Text: "You feel a shift in the world: a narrow passage reveals itself where shadows overlap. Few ever notice this place. A hush falls as if the story itself is holding its breath.\n\nProceed?",
		Choices: map[string]story.Choice{
			"A": {Label: "Enter the hidden passage", Target: story.Climax},
			"B": {Label: "Mark it and return later", Target: story.Opening},
			"C": {Label: "Call out into the dark", Target: story.Ally},
		},
		Tags: []string{story.TagHidden},
	}
}

func (g *Generator) climax(r *rand.Rand, ws *state.WorldState) *story.Node {
	return &story.Node{
		ID: story.Climax,
		Text: fmt.Sprintf("At last, you confront %s. Threads of fate tighten around %s.\nThe outcome turns on a single choice.\n\nChoose your stand:",
			pick(r, g.tables.Forces), ws.Protagonist),
		Choices: map[string]story.Choice{
			"A": {Label: "Appeal with empathy", Target: story.EndingHopeful},
			"B": {Label: "Outwit with a bold gambit", Target: story.EndingTwist},
			"C": {Label: "Defy at any cost", Target: story.EndingTragic},
		},
	}
}

// capitalize title-cases the first word and leaves the rest untouched.
func (g *Generator) capitalize(s string) string {
	first, rest, found := strings.Cut(s, " ")
	first = g.caser.String(first)
	if !found {
		return first
	}
	return first + " " + rest
}
