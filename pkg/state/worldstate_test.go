package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorldState_Defaults(t *testing.T) {
	tests := []struct {
		name                                  string
		genre, tone, protagonist, companion   string
		wantGenre, wantTone, wantProt, wantCo string
	}{
		{
			name:      "all blank",
			wantGenre: DefaultGenre, wantTone: DefaultTone, wantProt: DefaultProtagonist, wantCo: DefaultCompanion,
		},
		{
			name:  "whitespace only",
			genre: "  ", tone: "\t", protagonist: " ", companion: "\n",
			wantGenre: DefaultGenre, wantTone: DefaultTone, wantProt: DefaultProtagonist, wantCo: DefaultCompanion,
		},
		{
			name:  "all provided",
			genre: "mystery", tone: "grim", protagonist: "Sable", companion: "Wick",
			wantGenre: "mystery", wantTone: "grim", wantProt: "Sable", wantCo: "Wick",
		},
		{
			name:  "trimmed",
			genre: " sci-fi ", tone: "serene", protagonist: "Ona", companion: "",
			wantGenre: "sci-fi", wantTone: "serene", wantProt: "Ona", wantCo: DefaultCompanion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorldState(tt.genre, tt.tone, tt.protagonist, tt.companion)
			assert.Equal(t, tt.wantGenre, ws.Genre)
			assert.Equal(t, tt.wantTone, ws.Tone)
			assert.Equal(t, tt.wantProt, ws.Protagonist)
			assert.Equal(t, tt.wantCo, ws.Companion)
			assert.Equal(t, DeriveSeed(ws.Genre, ws.Tone, ws.Protagonist, ws.Companion), ws.WorldSeed)
			assert.Empty(t, ws.Inventory)
			assert.Empty(t, ws.Flags)
		})
	}
}

func TestDeriveSeed(t *testing.T) {
	a := DeriveSeed("fantasy", "whimsical", "Ari", "Rook")
	b := DeriveSeed("fantasy", "whimsical", "Ari", "Rook")
	c := DeriveSeed("fantasy", "whimsical", "Ari", "Raven")

	assert.Equal(t, a, b, "same inputs should give the same seed")
	assert.NotEqual(t, a, c, "different companion should change the seed")
	assert.Less(t, a, uint32(1<<31-1))
	assert.Less(t, c, uint32(1<<31-1))

	// Field boundaries are part of the key.
	assert.NotEqual(t, DeriveSeed("ab", "c", "d", "e"), DeriveSeed("a", "bc", "d", "e"))
}

func TestWorldState_Flags(t *testing.T) {
	ws := &WorldState{}

	_, ok := ws.Flag("steps")
	assert.False(t, ok)
	assert.False(t, ws.HasFlagOtherThan("steps"))

	assert.Equal(t, 1, ws.Increment("steps"))
	assert.Equal(t, 2, ws.Increment("steps"))
	assert.False(t, ws.HasFlagOtherThan("steps"), "only steps is present")

	ws.SetFlag("map", 0)
	v, ok := ws.Flag("map")
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.True(t, ws.HasFlagOtherThan("steps"), "presence counts even at zero")
}

func TestWorldState_Inventory(t *testing.T) {
	ws := NewWorldState("", "", "", "")
	assert.Equal(t, "(empty)", ws.DescribeInventory())

	ws.AddItem("cryptic map")
	ws.AddItem("stone key")
	ws.AddItem("cryptic map")

	assert.Equal(t, []string{"cryptic map", "stone key", "cryptic map"}, ws.Inventory)
	assert.Equal(t, "cryptic map, stone key, cryptic map", ws.DescribeInventory())
}

func TestWorldState_Summary(t *testing.T) {
	ws := NewWorldState("", "", "", "")
	assert.Equal(t,
		"Genre: fantasy, tone: whimsical. Protagonist: Ari with Rook. Inventory: nothing. Flags: map[]",
		ws.Summary())

	ws.AddItem("stone key")
	ws.SetFlag("steps", 2)
	ws.SetFlag("key", 1)
	assert.Equal(t,
		"Genre: fantasy, tone: whimsical. Protagonist: Ari with Rook. Inventory: stone key. Flags: map[key:1 steps:2]",
		ws.Summary())
}
