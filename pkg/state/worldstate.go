package state

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Defaults applied when seed input is left blank.
const (
	DefaultGenre       = "fantasy"
	DefaultTone        = "whimsical"
	DefaultProtagonist = "Ari"
	DefaultCompanion   = "Rook"
)

// seedModulus keeps world seeds inside a signed 31-bit range.
const seedModulus = 1<<31 - 1

// WorldState is the mutable data of one storybook session.
// Only the story engine mutates it after construction.
type WorldState struct {
	Genre       string         `json:"genre"`
	Tone        string         `json:"tone"`
	Protagonist string         `json:"protagonist"`
	Companion   string         `json:"companion"`
	WorldSeed   uint32         `json:"world_seed"`
	Inventory   []string       `json:"inventory,omitempty"` // insertion order, duplicates allowed
	Flags       map[string]int `json:"flags,omitempty"`     // event counters, created on first write
}

// NewWorldState builds a fresh state from seed answers. Blank answers
// fall back to the defaults, and the world seed is derived from the result.
func NewWorldState(genre, tone, protagonist, companion string) *WorldState {
	genre = orDefault(genre, DefaultGenre)
	tone = orDefault(tone, DefaultTone)
	protagonist = orDefault(protagonist, DefaultProtagonist)
	companion = orDefault(companion, DefaultCompanion)

	return &WorldState{
		Genre:       genre,
		Tone:        tone,
		Protagonist: protagonist,
		Companion:   companion,
		WorldSeed:   DeriveSeed(genre, tone, protagonist, companion),
		Inventory:   make([]string, 0),
		Flags:       make(map[string]int),
	}
}

// DeriveSeed hashes "genre|tone|protagonist|companion" into a world seed
// in [0, 2^31-1). The same four strings always give the same seed.
func DeriveSeed(genre, tone, protagonist, companion string) uint32 {
	key := strings.Join([]string{genre, tone, protagonist, companion}, "|")
	return uint32(xxhash.Sum64String(key) % seedModulus)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

// Flag returns the counter for key and whether it has ever been set.
func (ws *WorldState) Flag(key string) (int, bool) {
	v, ok := ws.Flags[key]
	return v, ok
}

// Increment bumps the counter for key and returns the new value.
func (ws *WorldState) Increment(key string) int {
	if ws.Flags == nil {
		ws.Flags = make(map[string]int)
	}
	ws.Flags[key]++
	return ws.Flags[key]
}

// SetFlag stores value under key.
func (ws *WorldState) SetFlag(key string, value int) {
	if ws.Flags == nil {
		ws.Flags = make(map[string]int)
	}
	ws.Flags[key] = value
}

// HasFlagOtherThan reports whether any flag key besides the given one is present.
// Presence is what counts, not the stored value.
func (ws *WorldState) HasFlagOtherThan(key string) bool {
	for k := range ws.Flags {
		if k != key {
			return true
		}
	}
	return false
}

// AddItem appends item to the inventory.
func (ws *WorldState) AddItem(item string) {
	ws.Inventory = append(ws.Inventory, item)
}

// DescribeInventory lists the carried items, or "(empty)".
func (ws *WorldState) DescribeInventory() string {
	if len(ws.Inventory) == 0 {
		return "(empty)"
	}
	return strings.Join(ws.Inventory, ", ")
}

// DescribeFlags renders flags as map[k:v ...] with keys in sorted order.
func (ws *WorldState) DescribeFlags() string {
	keys := slices.Sorted(maps.Keys(ws.Flags))
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%d", k, ws.Flags[k]))
	}
	return "map[" + strings.Join(parts, " ") + "]"
}

// Summary is the one-paragraph view shown by the state command.
func (ws *WorldState) Summary() string {
	collected := "nothing"
	if len(ws.Inventory) > 0 {
		collected = strings.Join(ws.Inventory, ", ")
	}
	return fmt.Sprintf("Genre: %s, tone: %s. Protagonist: %s with %s. Inventory: %s. Flags: %s",
		ws.Genre, ws.Tone, ws.Protagonist, ws.Companion, collected, ws.DescribeFlags())
}
