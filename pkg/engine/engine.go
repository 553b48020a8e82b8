// Package engine runs the storybook state machine: it resolves player input
// against the current node, applies side effects to the world state and
// funnels play toward the climax.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/storybook/internal/logger"
	"github.com/jwebster45206/storybook/pkg/content"
	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/jwebster45206/storybook/pkg/story"
)

// SecretKeyword unlocks the hidden path from any node.
const SecretKeyword = "whisper"

// Flag keys written by the engine.
const (
	FlagSecret   = "secret"
	FlagStudies  = "studies"
	FlagSteps    = "steps"
	FlagMap      = "map"
	FlagKey      = "key"
	FlagReckless = "reckless"
	FlagWounded  = "wounded"
)

const (
	// FunnelSteps is the step count at which play is pushed to the climax.
	FunnelSteps = 4
	// StudiesToUnlock is how many omen studies open the hidden path.
	StudiesToUnlock = 2
)

// Control signals returned by Step. Neither is a failure.
var (
	ErrQuit    = errors.New("quit requested")
	ErrRestart = errors.New("restart requested")
)

// Engine owns one story session.
type Engine struct {
	ws        *state.WorldState
	graph     story.Graph
	provider  content.Provider
	currentID string
	sessionID uuid.UUID
	notice    string
	baseLog   *slog.Logger
	log       *slog.Logger
}

// New materializes a story for ws and positions it at the opening node.
func New(ws *state.WorldState, provider content.Provider, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	e := &Engine{
		provider: provider,
		baseLog:  log,
	}
	e.install(ws)
	e.log.Info("Story session started",
		"genre", ws.Genre,
		"tone", ws.Tone,
		"world_seed", ws.WorldSeed)
	return e
}

func (e *Engine) install(ws *state.WorldState) {
	if ws.Flags == nil {
		ws.Flags = make(map[string]int)
	}
	e.ws = ws
	e.graph = e.provider.Materialize(ws)
	e.currentID = story.Opening
	e.sessionID = uuid.New()
	e.log = logger.WithSessionID(e.baseLog, e.sessionID.String())
}

// State returns the live world state.
func (e *Engine) State() *state.WorldState { return e.ws }

// Graph returns the live node mapping.
func (e *Engine) Graph() story.Graph { return e.graph }

// SessionID identifies the current story. It changes on restart.
func (e *Engine) SessionID() uuid.UUID { return e.sessionID }

// CurrentID returns the id of the current node.
func (e *Engine) CurrentID() string { return e.currentID }

// Current returns the current node, always read through the graph.
func (e *Engine) Current() *story.Node {
	node, ok := e.graph.Get(e.currentID)
	if !ok {
		e.log.Warn("Current node missing, falling back to climax", "node", e.currentID)
		e.currentID = story.Climax
		return e.graph[story.Climax]
	}
	return node
}

// TakeNotice returns informational text from the last command and clears it.
func (e *Engine) TakeNotice() string {
	n := e.notice
	e.notice = ""
	return n
}

// Step resolves one line of player input. It returns the node to render,
// or nil when the input was not understood. ErrQuit and ErrRestart are
// returned for the matching commands.
func (e *Engine) Step(input string) (*story.Node, error) {
	input = strings.TrimSpace(input)

	if IsCommand(input) {
		if err := e.Exec(ParseCommand(input)); err != nil {
			return nil, err
		}
		return e.Current(), nil
	}

	if strings.EqualFold(input, SecretKeyword) {
		n := e.ws.Increment(FlagSecret)
		e.log.Info("Secret keyword unlocked hidden path", "from", e.currentID, "secret", n)
		e.currentID = story.HiddenPath
		return e.Current(), nil
	}

	if e.currentID == story.Omen && strings.EqualFold(input, "A") {
		studies := e.ws.Increment(FlagStudies)
		if studies >= StudiesToUnlock {
			e.log.Info("Repeated study unlocked hidden path", "studies", studies)
			e.currentID = story.HiddenPath
			return e.Current(), nil
		}
	}

	node := e.Current()
	key := strings.ToUpper(input)
	choice, ok := node.Choices[key]
	if !ok {
		e.log.Debug("Input not understood", "node", node.ID, "input", input)
		return nil, nil
	}

	e.applySideEffects(node.ID, key)
	e.log.Debug("Choice taken", "from", node.ID, "choice", key, "to", choice.Target)
	e.currentID = choice.Target
	return e.funnel(), nil
}

// applySideEffects mutates the world state for the (node, choice) pairs that carry one.
func (e *Engine) applySideEffects(nodeID, key string) {
	switch {
	case nodeID == story.Ally && key == "A":
		e.ws.AddItem("cryptic map")
		e.ws.SetFlag(FlagMap, 1)
	case nodeID == story.Onward && key == "A":
		e.ws.AddItem("stone key")
		e.ws.SetFlag(FlagKey, 1)
	case nodeID == story.Omen && key == "C":
		e.ws.SetFlag(FlagReckless, 1)
	case nodeID == story.Onward && key == "B":
		e.ws.SetFlag(FlagWounded, 1)
	}
}

// funnel counts a generic step and pushes play to the climax once enough
// steps have passed and some other event has been recorded.
func (e *Engine) funnel() *story.Node {
	steps := e.ws.Increment(FlagSteps)

	node, ok := e.graph.Get(e.currentID)
	if !ok {
		e.log.Warn("Choice target missing, falling back to climax", "node", e.currentID)
		e.currentID = story.Climax
		return e.graph[story.Climax]
	}

	if !node.IsEnding &&
		!node.HasTag(story.TagHidden) &&
		steps >= FunnelSteps &&
		e.ws.HasFlagOtherThan(FlagSteps) {
		e.log.Info("Funneling to climax", "from", node.ID, "steps", steps)
		e.currentID = story.Climax
		return e.graph[story.Climax]
	}
	return node
}

// RewriteEnding regenerates one ending in place and moves to it.
// Unrecognized styles become twist.
func (e *Engine) RewriteEnding(style string) *story.Node {
	s := story.ParseEndingStyle(style)
	id := story.EndingID(s)
	e.graph[id] = e.provider.RegenerateEnding(s, e.ws)
	e.currentID = id
	e.log.Info("Ending rewritten", "style", string(s))
	return e.Current()
}

// RestartWith replaces the world state and rebuilds the whole story.
func (e *Engine) RestartWith(ws *state.WorldState) {
	prev := e.sessionID
	e.install(ws)
	e.log.Info("Story restarted",
		"previous_session_id", prev.String(),
		"genre", ws.Genre,
		"tone", ws.Tone,
		"world_seed", ws.WorldSeed)
}

// Exec runs a parsed command against the current node.
func (e *Engine) Exec(cmd Command) error {
	switch cmd.Type {
	case CmdHelp:
		e.notice = HelpText
	case CmdState:
		e.notice = e.ws.Summary()
	case CmdInv:
		e.notice = e.ws.DescribeInventory()
	case CmdRewrite:
		e.RewriteEnding(cmd.Arg(0, string(story.Twist)))
	case CmdRestart:
		return ErrRestart
	case CmdSeeds:
		e.notice = fmt.Sprintf("You can type :restart to regenerate the whole story with new seeds. Current seed: %d", e.ws.WorldSeed)
	case CmdQuit:
		return ErrQuit
	case CmdNone:
		// ignored
	}
	return nil
}
