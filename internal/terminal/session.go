// Package terminal is the line-oriented storybook front end. It reads one
// line at a time, hands it to the engine and prints the resulting node.
package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/jwebster45206/storybook/pkg/content"
	"github.com/jwebster45206/storybook/pkg/engine"
	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/jwebster45206/storybook/pkg/story"
	"github.com/muesli/reflow/wordwrap"
)

const (
	Banner = "AI-Like Interactive Storybook\n" +
		"You shape the tale by choosing paths, discovering secrets, and rewriting endings."
	ControlsLine  = "(Type A/B/C to choose, or commands like :help, :state, :inv, :rewrite)"
	ChoicePrompt  = "Your choice (A/B/C, :command, or 'whisper' for hidden): "
	EndingPrompt  = "You reached an ending. Type :rewrite [style], :restart, or press Enter to continue: "
	NotUnderstood = "I didn't understand that. Try A/B/C, a command (like :help), or 'whisper'."
	Goodbye       = "Goodbye."
	DefaultWidth  = 88
)

// Seed collection prompts.
const (
	SeedIntro         = "Let's set up your story world. Leave blank for defaults."
	GenrePrompt       = "Genre (fantasy/sci-fi/mystery): "
	TonePrompt        = "Tone (whimsical/grim/serene): "
	ProtagonistPrompt = "Protagonist name: "
	CompanionPrompt   = "Companion name: "
)

// HintLine tells the player about the secret keyword.
var HintLine = fmt.Sprintf("Hint: type '%s' at any time to seek hidden paths.", engine.SecretKeyword)

// Session runs one interactive storybook over a reader/writer pair.
type Session struct {
	in       *bufio.Scanner
	out      io.Writer
	provider content.Provider
	width    int
	rng      *rand.Rand
	log      *slog.Logger
	seeds    *state.WorldState
}

type Option func(*Session)

// WithWidth sets the wrap width.
func WithWidth(width int) Option {
	return func(s *Session) {
		if width > 0 {
			s.width = width
		}
	}
}

// WithRand sets the source used to pick a random ending style.
func WithRand(r *rand.Rand) Option {
	return func(s *Session) { s.rng = r }
}

// WithLogger sets the logger handed to the engine.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// WithSeeds skips the first seed prompt and starts from ws.
func WithSeeds(ws *state.WorldState) Option {
	return func(s *Session) { s.seeds = ws }
}

func New(in io.Reader, out io.Writer, provider content.Provider, opts ...Option) *Session {
	s := &Session{
		in:       bufio.NewScanner(in),
		out:      out,
		provider: provider,
		width:    DefaultWidth,
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run plays until the player quits or input runs out. Quitting is not an error.
func (s *Session) Run() error {
	s.println(Banner)

	ws := s.seeds
	if ws == nil {
		var err error
		if ws, err = s.CollectSeeds(); err != nil {
			return s.finish(err)
		}
	}
	eng := engine.New(ws, s.provider, s.log)

	for {
		node := eng.Current()
		s.render(node)

		if node.IsEnding {
			if err := s.endingTurn(eng); err != nil {
				return s.finish(err)
			}
			continue
		}

		line, err := s.prompt(ChoicePrompt)
		if err != nil {
			return s.finish(err)
		}
		if err := s.turn(eng, line); err != nil {
			return s.finish(err)
		}
	}
}

// turn sends one line to the engine and reports the outcome.
func (s *Session) turn(eng *engine.Engine, line string) error {
	next, err := eng.Step(line)
	switch {
	case errors.Is(err, engine.ErrRestart):
		ws, err := s.CollectSeeds()
		if err != nil {
			return err
		}
		eng.RestartWith(ws)
		return nil
	case err != nil:
		return err
	}

	if notice := eng.TakeNotice(); notice != "" {
		s.println(notice)
	}
	if next == nil {
		s.println(NotUnderstood)
	}
	return nil
}

// endingTurn handles input on an ending node: a command line, or an empty
// line to rewrite a random ending.
func (s *Session) endingTurn(eng *engine.Engine) error {
	line, err := s.prompt(EndingPrompt)
	if err != nil {
		return err
	}
	if line == "" {
		style := story.EndingStyles[s.rng.IntN(len(story.EndingStyles))]
		eng.RewriteEnding(string(style))
		return nil
	}
	if !engine.IsCommand(line) {
		line = engine.CommandPrefix + line
	}
	return s.turn(eng, line)
}

// finish maps end-of-session signals to a clean return.
func (s *Session) finish(err error) error {
	if errors.Is(err, engine.ErrQuit) || errors.Is(err, io.EOF) {
		s.println(Goodbye)
		return nil
	}
	return err
}

// CollectSeeds asks for the four seed answers. Blank answers take defaults.
func (s *Session) CollectSeeds() (*state.WorldState, error) {
	s.println(SeedIntro)
	answers := make([]string, 0, 4)
	for _, p := range []string{GenrePrompt, TonePrompt, ProtagonistPrompt, CompanionPrompt} {
		line, err := s.prompt(p)
		if err != nil {
			return nil, err
		}
		answers = append(answers, line)
	}
	return state.NewWorldState(answers[0], answers[1], answers[2], answers[3]), nil
}

// prompt writes p and reads one trimmed line. It returns io.EOF when input ends.
func (s *Session) prompt(p string) (string, error) {
	fmt.Fprint(s.out, p)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) render(node *story.Node) {
	fmt.Fprintln(s.out)
	s.println(node.Text)
	if len(node.Choices) > 0 {
		fmt.Fprintln(s.out)
		for _, key := range node.ChoiceKeys() {
			fmt.Fprintf(s.out, "  %s. %s\n", key, node.Choices[key].Label)
		}
	}
	fmt.Fprintln(s.out)
	s.println(ControlsLine)
	s.println(HintLine)
}

func (s *Session) println(text string) {
	fmt.Fprintln(s.out, wordwrap.String(text, s.width))
}
