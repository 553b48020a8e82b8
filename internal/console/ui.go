package console

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/storybook/pkg/content"
	"github.com/jwebster45206/storybook/pkg/engine"
	"github.com/jwebster45206/storybook/pkg/state"
	"github.com/jwebster45206/storybook/pkg/story"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PlaceHolderText = "Type A/B/C, a :command, or 'whisper'..."
	EndingHintText  = "Press Enter for a new ending, or type :rewrite [style], :restart, :quit"
	NotUnderstood   = "I didn't understand that. Try A/B/C, a command (like :help), or 'whisper'."
)

type entryKind int

const (
	entryNode entryKind = iota
	entryUser
	entryNotice
	entryError
)

// entry is one block of the story transcript.
type entry struct {
	kind entryKind
	node *story.Node // set for entryNode
	text string
}

// copyFunc writes text to the system clipboard.
type copyFunc func(string) error

// ConsoleUI is the BubbleTea model that runs the storybook.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	provider content.Provider
	log      *slog.Logger
	rng      *rand.Rand
	copy     copyFunc
	engine   *engine.Engine

	storyViewport viewport.Model
	metaViewport  viewport.Model
	textarea      textarea.Model
	transcript    []entry
	ready         bool
	width         int
	height        int

	// Seed modal state
	showSeedModal bool
	seedInputs    []textinput.Model
	seedFocus     int

	// Quit confirmation state
	showQuitModal bool
}

var (
	storyPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	nodeTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	hiddenTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("99")). // violet
				Bold(true).
				Italic(true)

	endingTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")). // yellow
				Bold(true)

	narratorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	choiceKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

var titleCaser = cases.Title(language.English)

type Option func(*ConsoleUI)

// WithSeeds starts the story immediately instead of opening the seed modal.
func WithSeeds(ws *state.WorldState) Option {
	return func(m *ConsoleUI) {
		m.engine = engine.New(ws, m.provider, m.log)
		m.showSeedModal = false
		m.transcript = []entry{{kind: entryNode, node: m.engine.Current()}}
	}
}

// WithRand sets the source used to pick a random ending style.
func WithRand(r *rand.Rand) Option {
	return func(m *ConsoleUI) { m.rng = r }
}

// WithClipboard replaces the clipboard writer.
func WithClipboard(fn func(string) error) Option {
	return func(m *ConsoleUI) { m.copy = fn }
}

func NewConsoleUI(provider content.Provider, log *slog.Logger, opts ...Option) ConsoleUI {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	storyVp := viewport.New(50, 20)
	storyVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	m := ConsoleUI{
		provider:      provider,
		log:           log,
		rng:           rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		copy:          clipboard.WriteAll,
		textarea:      ta,
		storyViewport: storyVp,
		metaViewport:  metaVp,
		showSeedModal: true,
		seedInputs:    newSeedInputs(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func newSeedInputs() []textinput.Model {
	fields := []struct {
		prompt      string
		placeholder string
	}{
		{"Genre:       ", state.DefaultGenre + " / sci-fi / mystery"},
		{"Tone:        ", state.DefaultTone + " / grim / serene"},
		{"Protagonist: ", state.DefaultProtagonist},
		{"Companion:   ", state.DefaultCompanion},
	}
	inputs := make([]textinput.Model, len(fields))
	for i, f := range fields {
		ti := textinput.New()
		ti.Prompt = f.prompt
		ti.Placeholder = f.placeholder
		ti.CharLimit = 40
		ti.Width = 30
		inputs[i] = ti
	}
	inputs[0].Focus()
	return inputs
}

func (m ConsoleUI) Init() tea.Cmd {
	if m.showSeedModal {
		return textinput.Blink
	}
	return textarea.Blink
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}
	if m.showSeedModal {
		return m.updateSeedModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.storyViewport, vpCmd = m.storyViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyCtrlY:
			m.copyPassage()
			m.refresh()
			return m, nil
		case tea.KeyEnter:
			input := strings.TrimSpace(m.textarea.Value())
			m.textarea.Reset()
			return m.submit(input)
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.storyViewport, vpCmd = m.storyViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd, mvCmd)
}

// submit sends one line to the engine, or rewrites a random ending when
// Enter is pressed on an ending with nothing typed.
func (m ConsoleUI) submit(input string) (tea.Model, tea.Cmd) {
	current := m.engine.Current()

	if input == "" {
		if !current.IsEnding {
			return m, nil
		}
		style := story.EndingStyles[m.rng.IntN(len(story.EndingStyles))]
		m.transcript = append(m.transcript, entry{kind: entryNode, node: m.engine.RewriteEnding(string(style))})
		m.refresh()
		return m, nil
	}

	if current.IsEnding && !engine.IsCommand(input) {
		input = engine.CommandPrefix + input
	}
	m.transcript = append(m.transcript, entry{kind: entryUser, text: input})

	next, err := m.engine.Step(input)
	switch {
	case errors.Is(err, engine.ErrQuit):
		return m, tea.Quit
	case errors.Is(err, engine.ErrRestart):
		m.openSeedModal()
		return m, textinput.Blink
	case err != nil:
		m.transcript = append(m.transcript, entry{kind: entryError, text: "Error: " + err.Error()})
	case next == nil:
		m.transcript = append(m.transcript, entry{kind: entryError, text: NotUnderstood})
	default:
		if notice := m.engine.TakeNotice(); notice != "" {
			m.transcript = append(m.transcript, entry{kind: entryNotice, text: notice})
		} else {
			m.transcript = append(m.transcript, entry{kind: entryNode, node: next})
		}
	}

	m.refresh()
	return m, nil
}

func (m *ConsoleUI) copyPassage() {
	if m.engine == nil {
		return
	}
	if err := m.copy(m.engine.Current().Text); err != nil {
		m.log.Warn("Failed to copy passage", "error", err)
		m.transcript = append(m.transcript, entry{kind: entryError, text: "Could not copy passage: " + err.Error()})
		return
	}
	m.transcript = append(m.transcript, entry{kind: entryNotice, text: "Passage copied to clipboard."})
}

func (m *ConsoleUI) openSeedModal() {
	m.showSeedModal = true
	m.seedInputs = newSeedInputs()
	m.seedFocus = 0
	m.textarea.Blur()
}

// startStory builds a world state from the modal and starts or restarts the engine.
func (m *ConsoleUI) startStory() {
	ws := state.NewWorldState(
		m.seedInputs[0].Value(),
		m.seedInputs[1].Value(),
		m.seedInputs[2].Value(),
		m.seedInputs[3].Value(),
	)
	if m.engine == nil {
		m.engine = engine.New(ws, m.provider, m.log)
	} else {
		m.engine.RestartWith(ws)
	}
	m.transcript = []entry{{kind: entryNode, node: m.engine.Current()}}
	m.showSeedModal = false
	m.textarea.Focus()
	m.refresh()
}

func (m ConsoleUI) updateSeedModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			if m.seedFocus == len(m.seedInputs)-1 {
				m.startStory()
				m.ready = m.width > 0
				return m, textarea.Blink
			}
			return m, m.focusSeed(m.seedFocus + 1)
		case tea.KeyTab, tea.KeyDown:
			return m, m.focusSeed((m.seedFocus + 1) % len(m.seedInputs))
		case tea.KeyShiftTab, tea.KeyUp:
			return m, m.focusSeed((m.seedFocus + len(m.seedInputs) - 1) % len(m.seedInputs))
		}
	}

	var cmd tea.Cmd
	m.seedInputs[m.seedFocus], cmd = m.seedInputs[m.seedFocus].Update(msg)
	return m, cmd
}

func (m *ConsoleUI) focusSeed(i int) tea.Cmd {
	m.seedInputs[m.seedFocus].Blur()
	m.seedFocus = i
	return m.seedInputs[i].Focus()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				if m.showSeedModal {
					return m, nil
				}
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

// layout sizes the panels for the current window.
func (m *ConsoleUI) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	m.storyViewport.Width = storyWidth - 2
	m.storyViewport.Height = m.height - 7
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
	m.textarea.SetWidth(storyWidth - 4)
}

// refresh rebuilds both panels from the transcript and world state.
func (m *ConsoleUI) refresh() {
	if m.engine == nil {
		return
	}
	m.storyViewport.SetContent(writeStoryContent(m.transcript, m.engine.Current(), m.storyViewport.Width-6))
	m.storyViewport.GotoBottom()
	m.metaViewport.SetContent(writeMetadata(m.engine))
}

func writeStoryContent(transcript []entry, current *story.Node, width int) string {
	if width < 20 {
		width = 20
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("STORYBOOK") + "\n\n")
	content.WriteString("You shape the tale by choosing paths, discovering secrets, and rewriting endings.\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range transcript {
		switch e.kind {
		case entryNode:
			content.WriteString(formatNode(e.node, width) + "\n\n")
		case entryUser:
			content.WriteString(userStyle.Render("You: ") + wordwrap.String(e.text, width-5) + "\n\n")
		case entryNotice:
			content.WriteString(noticeStyle.Render(wordwrap.String(e.text, width)) + "\n\n")
		case entryError:
			content.WriteString(errorStyle.Render(wordwrap.String(e.text, width)) + "\n\n")
		}
	}

	if current != nil && current.IsEnding {
		content.WriteString(promptStyle.Render(wordwrap.String(EndingHintText, width)) + "\n")
	}
	return content.String()
}

// formatNode renders a node heading, its wrapped text and its choices.
func formatNode(n *story.Node, width int) string {
	heading := titleCaser.String(strings.ReplaceAll(n.ID, "_", " "))
	switch {
	case n.HasTag(story.TagHidden):
		heading = hiddenTitleStyle.Render(heading)
	case n.IsEnding:
		heading = endingTitleStyle.Render(heading)
	default:
		heading = nodeTitleStyle.Render(heading)
	}

	var b strings.Builder
	b.WriteString(heading + "\n")
	b.WriteString(narratorStyle.Render(wordwrap.String(n.Text, width)))
	if len(n.Choices) > 0 {
		b.WriteString("\n")
		for _, key := range n.ChoiceKeys() {
			label := wordwrap.String(n.Choices[key].Label, width-5)
			b.WriteString(fmt.Sprintf("\n  %s %s", choiceKeyStyle.Render(key+"."), label))
		}
	}
	return b.String()
}

func writeMetadata(eng *engine.Engine) string {
	ws := eng.State()

	var content strings.Builder
	content.WriteString(titleStyle.Render("WORLD STATE") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(eng.SessionID().String()[:8] + "...\n\n")

	content.WriteString("Seed:\n")
	content.WriteString(fmt.Sprintf("%d\n\n", ws.WorldSeed))

	content.WriteString("World:\n")
	content.WriteString(fmt.Sprintf("%s, %s\n\n", ws.Genre, ws.Tone))

	content.WriteString("Travelers:\n")
	content.WriteString(fmt.Sprintf("%s & %s\n\n", ws.Protagonist, ws.Companion))

	content.WriteString("Inventory:\n")
	if len(ws.Inventory) == 0 {
		content.WriteString("Nothing yet\n\n")
	} else {
		for _, item := range ws.Inventory {
			content.WriteString(fmt.Sprintf("• %s\n", item))
		}
		content.WriteString("\n")
	}

	content.WriteString("Flags:\n")
	if len(ws.Flags) == 0 {
		content.WriteString("None set\n")
	} else {
		for _, k := range slices.Sorted(maps.Keys(ws.Flags)) {
			content.WriteString(fmt.Sprintf("• %s: %d\n", k, ws.Flags[k]))
		}
	}

	content.WriteString("\n")
	content.WriteString("Commands:\n")
	content.WriteString("• Ctrl+C: Quit\n")
	content.WriteString("• Ctrl+Y: Copy passage\n")
	content.WriteString("• :help  :state  :inv\n")
	content.WriteString("• :rewrite [style]\n")
	content.WriteString("• :restart  :seeds\n")

	return content.String()
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Close the Storybook?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave this tale?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderSeedModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Set Up Your Story World"))
	content.WriteString("\n\n")
	content.WriteString("Leave blank for defaults.")
	content.WriteString("\n\n")
	for _, in := range m.seedInputs {
		content.WriteString(in.View())
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(promptStyle.Render("Tab/↑/↓ to move, Enter to continue, Ctrl+C to exit"))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if m.showSeedModal {
		return m.renderSeedModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	storyWidth := int(float64(m.width)*0.72) - 4
	metaWidth := m.width - storyWidth - 6

	storyPanel := storyPanelStyle.Width(storyWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.storyViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", storyWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, storyPanel, metaPanel)
}

// Run starts the TUI and blocks until the player quits.
func Run(provider content.Provider, log *slog.Logger, opts ...Option) error {
	p := tea.NewProgram(NewConsoleUI(provider, log, opts...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run console: %w", err)
	}
	return nil
}
