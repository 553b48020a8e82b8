package terminal

import (
	"bytes"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/jwebster45206/storybook/pkg/content"
	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runScript(t *testing.T, script string, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithRand(rand.New(rand.NewPCG(1, 2)))}, opts...)
	s := New(strings.NewReader(script), &out, content.NewGenerator(), opts...)
	require.NoError(t, s.Run())
	return out.String()
}

func TestSession_PlaythroughToEnding(t *testing.T) {
	script := strings.Join([]string{
		"", "", "", "", // seed defaults
		"B", "A", "C", "B", // funnel to the climax
		"Z",    // not understood
		":inv", // informational
		"A",    // hopeful ending
		"",     // random rewrite
		":quit",
	}, "\n") + "\n"

	out := runScript(t, script)

	assert.Contains(t, out, "AI-Like Interactive Storybook")
	assert.Contains(t, out, SeedIntro)
	assert.Contains(t, out, "In a whimsical fantasy world, Ari travels with Rook.")
	assert.Contains(t, out, "  A. Investigate the omen")
	assert.Contains(t, out, "At last, you confront")
	assert.Contains(t, out, NotUnderstood)
	assert.Contains(t, out, "cryptic map")
	assert.Contains(t, out, EndingPrompt)
	assert.GreaterOrEqual(t, strings.Count(out, "This chapter closes in a"), 2, "ending shown, rewritten, shown again")
	assert.Contains(t, out, HintLine)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), Goodbye))
}

func TestSession_QuitAtEndingWithoutPrefix(t *testing.T) {
	ws := state.NewWorldState("", "", "", "")
	out := runScript(t, "whisper\nA\nC\nquit\n", WithSeeds(ws))

	assert.NotContains(t, out, SeedIntro, "preset seeds skip the prompt")
	assert.Contains(t, out, "This chapter closes in a tragic way.")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), Goodbye))
}

func TestSession_RewriteFromEnding(t *testing.T) {
	ws := state.NewWorldState("", "", "", "")
	out := runScript(t, "whisper\nA\nA\nrewrite tragic\n:quit\n", WithSeeds(ws))

	assert.Contains(t, out, "This chapter closes in a hopeful way.")
	assert.Contains(t, out, "This chapter closes in a tragic way.")
}

func TestSession_Restart(t *testing.T) {
	script := strings.Join([]string{
		"", "", "", "",
		"B", "A",
		":restart",
		"mystery", "grim", "Sable", "Wick",
		":state",
		":quit",
	}, "\n") + "\n"

	out := runScript(t, script, WithWidth(200))

	assert.Equal(t, 2, strings.Count(out, SeedIntro))
	assert.Contains(t, out, "In a grim mystery world, Sable travels with Wick.")
	assert.Contains(t, out, "Genre: mystery, tone: grim. Protagonist: Sable with Wick. Inventory: nothing. Flags: map[]")
}

func TestSession_EOFEndsCleanly(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{name: "no input", script: ""},
		{name: "during seeds", script: "fantasy\ngrim\n"},
		{name: "mid story", script: "\n\n\n\nA\n"},
		{name: "during restart", script: "\n\n\n\n:restart\nsci-fi\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := runScript(t, tt.script)
			assert.True(t, strings.HasSuffix(strings.TrimSpace(out), Goodbye))
		})
	}
}

func TestSession_HelpAndSeeds(t *testing.T) {
	ws := state.NewWorldState("", "", "", "")
	out := runScript(t, ":help\n:seeds\n:nonsense\n:quit\n", WithSeeds(ws))

	assert.Contains(t, out, ":rewrite [hopeful|tragic|twist]")
	assert.Contains(t, out, "Current seed:")
	assert.NotContains(t, out, NotUnderstood, "unknown commands are ignored silently")
}

func TestSession_Wrapping(t *testing.T) {
	ws := state.NewWorldState("", "", "", "")
	out := runScript(t, ":quit\n", WithSeeds(ws), WithWidth(30))

	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Your choice") || strings.Contains(line, "  A. ") ||
			strings.Contains(line, "  B. ") || strings.Contains(line, "  C. ") {
			continue
		}
		// wordwrap never splits words, so allow the longest word to overflow
		if len(line) > 30 {
			assert.NotContains(t, strings.TrimSpace(line), " ", "line should have been wrapped: %q", line)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestSession_ReadError(t *testing.T) {
	var out bytes.Buffer
	s := New(failingReader{}, &out, content.NewGenerator())
	err := s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input")
}
