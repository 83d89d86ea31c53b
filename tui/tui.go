// Package tui provides a Bubble Tea terminal UI for the Tower Core engine.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/towercore/autoplay"
	"github.com/nathoo/towercore/cli"
	"github.com/nathoo/towercore/engine"
	"github.com/nathoo/towercore/engine/state"
	"github.com/nathoo/towercore/storage"
	"github.com/nathoo/towercore/types"
)

// maxLines bounds the scrollback; auto-play would otherwise grow it forever.
const maxLines = 2000

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Tower Core TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs
	meta   *cli.Meta

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated narrative lines (unstyled, for re-wrapping)

	interval time.Duration // auto-play cadence; zero disables ticks

	width    int
	height   int
	ready    bool
	quitting bool
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro and auto-play)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// autoTickMsg fires on the auto-play cadence.
type autoTickMsg struct{}

// New creates a TUI model wired to the given engine and save store.
func New(eng *engine.Engine, defs *state.Defs, store storage.Store, interval time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	return Model{
		engine:   eng,
		defs:     defs,
		meta:     &cli.Meta{Engine: eng, Defs: defs, Store: store},
		input:    ti,
		history:  NewHistory(100),
		interval: interval,
	}
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs, store storage.Store, interval time.Duration) error {
	m := New(eng, defs, store, interval)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial commands: intro text and the first auto-play tick.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.initialOutput()}
	if m.interval > 0 {
		cmds = append(cmds, m.autoTick())
	}
	return tea.Batch(cmds...)
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		title := m.defs.Title
		if m.defs.Version != "" {
			title += " v" + m.defs.Version
		}
		lines = append(lines, title, "")

		if m.defs.Intro != "" {
			lines = append(lines, m.defs.Intro, "")
		}

		if !m.engine.Snapshot().Initialized {
			lines = append(lines, m.engine.Initialize().Output...)
		}
		lines = append(lines, m.engine.Step("status").Output...)
		lines = append(lines, "Type /help for commands.")

		return gameOutputMsg{lines: lines}
	}
}

func (m Model) autoTick() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg { return autoTickMsg{} })
}

// Update handles messages (key presses, window resize, game output).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := max(m.height-2, 1) // status bar and prompt take a line each

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case autoTickMsg:
		if res, ok := autoplay.Tick(m.engine); ok {
			m = m.appendOutput(gameOutputMsg{lines: m.traced(res)})
		}
		return m, m.autoTick()

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKey deals with keys the model owns. Up and down recall history;
// the viewport only scrolls by page.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit, true
	case "enter":
		next, cmd := m.handleEnter()
		return next, cmd, true
	case "up":
		if prev, ok := m.history.Prev(); ok {
			m.input.SetValue(prev)
			m.input.CursorEnd()
		}
		return m, nil, true
	case "down":
		line, _ := m.history.Next()
		m.input.SetValue(line)
		m.input.CursorEnd()
		return m, nil, true
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true
	}
	return m, nil, false
}

// handleEnter submits the prompt line: repeat words resolve through the
// history, slash commands go to the shared meta handler, everything else
// is a game command.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	if isRepeat(input) {
		prev, ok := m.history.Repeatable()
		if !ok {
			return m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			}), nil
		}
		input = prev
	}

	if strings.HasPrefix(input, "/") {
		lines, quit := m.meta.Handle(context.Background(), input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: lines, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	return m.appendOutput(gameOutputMsg{input: input, lines: m.traced(m.engine.Step(input))}), nil
}

// traced appends the event trace to a result's output when tracing is on.
func (m Model) traced(res types.Result) []string {
	if !m.meta.Trace {
		return res.Output
	}
	return append(res.Output, cli.FormatTrace(res)...)
}

// appendOutput adds lines to the narrative and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: "> " + msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between turns.
	m.rawLines = append(m.rawLines, rawLine{})

	if over := len(m.rawLines) - maxLines; over > 0 {
		m.rawLines = append([]rawLine(nil), m.rawLines[over:]...)
	}

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles the scrollback at the current
// width and pins the view to the newest line.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := max(m.width, 10)
	styled := make([]string, len(m.rawLines))
	for i, rl := range m.rawLines {
		styled[i] = styleLine(rl, width)
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

func styleLine(rl rawLine, width int) string {
	if rl.text == "" {
		return ""
	}
	wrapped := wordWrap(rl.text, width)
	switch {
	case rl.isInput:
		return stylePlayerInput.Render(wrapped)
	case rl.isSystem:
		return styledSystemMsg(wrapped)
	default:
		return renderLineKind(wrapped, rl.kind)
	}
}

// wordWrap breaks text at spaces so no line exceeds width. A single word
// longer than width keeps its own line.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(word) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(word)
	}
	lines = append(lines, cur.String())
	return strings.Join(lines, "\n")
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
