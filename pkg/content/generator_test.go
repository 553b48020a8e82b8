package content

import (
	"strings"
	"testing"

	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/jwebster45206/storybook/pkg/story"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_MaterializeProducesFixedNodeSet(t *testing.T) {
	g := NewGenerator()

	for _, genre := range []string{"fantasy", "sci-fi", "mystery", "western", ""} {
		t.Run("genre="+genre, func(t *testing.T) {
			ws := state.NewWorldState(genre, "", "", "")
			graph := g.Materialize(ws)

			require.Len(t, graph, len(story.NodeIDs))
			for _, id := range story.NodeIDs {
				n, ok := graph.Get(id)
				require.True(t, ok, "missing %s", id)
				assert.Equal(t, id, n.ID)
				assert.NotEmpty(t, n.Text)
			}
			assert.NoError(t, graph.Validate())
			assert.True(t, graph[story.HiddenPath].HasTag(story.TagHidden))
		})
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	g := NewGenerator()
	ws1 := state.NewWorldState("mystery", "grim", "Sable", "Wick")
	ws2 := state.NewWorldState("mystery", "grim", "Sable", "Wick")

	assert.Equal(t, g.Materialize(ws1), g.Materialize(ws2))
	assert.Equal(t, g.Materialize(ws1), g.Materialize(ws1), "repeated calls must match")

	for _, style := range story.EndingStyles {
		assert.Equal(t, g.RegenerateEnding(style, ws1), g.RegenerateEnding(style, ws2))
	}
}

func TestGenerator_NoStateMutation(t *testing.T) {
	g := NewGenerator()
	ws := state.NewWorldState("", "", "", "")
	ws.AddItem("stone key")
	ws.SetFlag("key", 1)
	before := *ws
	beforeInv := append([]string(nil), ws.Inventory...)

	g.Materialize(ws)
	g.RegenerateEnding(story.Tragic, ws)

	assert.Equal(t, before.WorldSeed, ws.WorldSeed)
	assert.Equal(t, beforeInv, ws.Inventory)
	assert.Equal(t, map[string]int{"key": 1}, ws.Flags)
}

func TestGenerator_TextUsesWorldState(t *testing.T) {
	g := NewGenerator()
	ws := state.NewWorldState("sci-fi", "serene", "Ona", "Pell")
	graph := g.Materialize(ws)

	opening := graph[story.Opening].Text
	assert.Contains(t, opening, "In a serene sci-fi world, Ona travels with Pell.")
	assert.Contains(t, graph[story.Omen].Text, "Pell whispers about old tales")
	assert.Contains(t, graph[story.Climax].Text, "around Ona")

	var motifFound bool
	for _, m := range g.tables.closestGenre("sci-fi").Motifs {
		if strings.Contains(opening, g.capitalize(m)+".") {
			motifFound = true
		}
	}
	assert.True(t, motifFound, "opening should include a sci-fi motif")
}

func TestGenerator_RegenerateEnding(t *testing.T) {
	g := NewGenerator()
	ws := state.NewWorldState("", "", "", "")

	n := g.RegenerateEnding(story.Hopeful, ws)
	assert.Equal(t, story.EndingHopeful, n.ID)
	assert.True(t, n.IsEnding)
	assert.Empty(t, n.Choices)
	assert.Equal(t, []string{story.TagEnding, "hopeful"}, n.Tags)
	assert.Contains(t, n.Text, "After all trials, Ari and Rook face the consequences.")
	assert.Contains(t, n.Text, "This chapter closes in a hopeful way.")
	assert.NotContains(t, n.Text, "Among their belongings")

	ws.AddItem("cryptic map")
	n = g.RegenerateEnding(story.Hopeful, ws)
	assert.Contains(t, n.Text, "Among their belongings: cryptic map.")

	bogus := g.RegenerateEnding(story.EndingStyle("bogus"), ws)
	assert.Equal(t, story.EndingTwist, bogus.ID)
}

func TestClosestGenre(t *testing.T) {
	tables, err := ParseTables(defaultTables)
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"fantasy", "fantasy"},
		{" Mystery ", "mystery"},
		{"science fiction", "sci-fi"},
		{"myst", "mystery"},
		{"western", "fantasy"},
		{"", "fantasy"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tables.closestGenre(tt.in).Name)
		})
	}
}

func TestNewGeneratorFromYAML(t *testing.T) {
	t.Run("malformed", func(t *testing.T) {
		_, err := NewGeneratorFromYAML([]byte("genres: [unclosed"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode phrase tables")
	})

	t.Run("missing lists", func(t *testing.T) {
		_, err := NewGeneratorFromYAML([]byte("genres:\n  - name: noir\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `genre "noir" has no motifs`)
		assert.Contains(t, err.Error(), "terrains is empty")
		assert.Contains(t, err.Error(), "no twist endings")
	})

	t.Run("custom tables", func(t *testing.T) {
		data := []byte(`
genres:
  - name: noir
    motifs: [rain never stops on these streets]
incidents: [A stranger leaves a wet envelope.]
clues: [a matchbook from a closed club]
ally_first_names: [Lou]
ally_last_names: [Marlow]
terrains: [the docks]
forces: [the Commissioner]
endings:
  hopeful: [The rain stops.]
  tragic: [The rain wins.]
  twist: [It was never raining.]
`)
		g, err := NewGeneratorFromYAML(data)
		require.NoError(t, err)

		ws := state.NewWorldState("noir", "grim", "Vic", "Dot")
		graph := g.Materialize(ws)
		assert.Contains(t, graph[story.Opening].Text, "Rain never stops on these streets.")
		assert.Contains(t, graph[story.Ally].Text, "Lou Marlow")
		assert.Contains(t, graph[story.Onward].Text, "the docks")
		assert.Contains(t, graph[story.Climax].Text, "the Commissioner")
		assert.Contains(t, graph[story.EndingTwist].Text, "It was never raining.")
	})
}

func TestGenerator_Genres(t *testing.T) {
	assert.Equal(t, []string{"fantasy", "sci-fi", "mystery"}, NewGenerator().Genres())
}
