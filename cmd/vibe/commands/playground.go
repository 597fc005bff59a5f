package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lexer"
	"github.com/vibelang/vibe/lang/lsp"
	"github.com/vibelang/vibe/version"
)

// PlaygroundCmd opens an interactive editor that exercises the language
// service as you type
var PlaygroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Interactive Vibe scratchpad with highlighting, completion and hover",
	Long: `Type Vibe one line at a time. Committed lines are highlighted with the
configured theme, lexical diagnostics are listed under the buffer, and the
hint line shows hover documentation or the active signature for the cursor.

Keys:
  tab      complete the word before the cursor
  enter    commit the line (or run a :command)
  ↑        pull the last line back for editing
  ctrl+k   toggle help
  ctrl+c   quit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		theme, err := cfg.ResolveTheme()
		if err != nil {
			return err
		}
		service, err := newService(cfg)
		if err != nil {
			return err
		}

		p := tea.NewProgram(newPlaygroundModel(service, theme), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

var (
	accentColor    = lipgloss.Color("#A855F7")
	errorColor     = lipgloss.Color("#EF4444")
	warningColor   = lipgloss.Color("#F59E0B")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F0ABFC")

	promptStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true)
	headerStyle   = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Padding(0, 1)
	mutedStyle    = lipgloss.NewStyle().Foreground(mutedColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	warningStyle  = lipgloss.NewStyle().Foreground(warningColor)
	hintStyle     = lipgloss.NewStyle().Foreground(highlightColor).Italic(true)
	helpKeyStyle  = lipgloss.NewStyle().Foreground(highlightColor)
	helpDescStyle = lipgloss.NewStyle().Foreground(mutedColor)
	borderStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type playgroundKeyMap struct {
	Enter key.Binding
	Tab   key.Binding
	Up    key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var playgroundKeys = playgroundKeyMap{
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "commit line")),
	Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "edit last line")),
	Help:  key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	Quit:  key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
}

type playgroundModel struct {
	service   *lsp.Service
	ansi      *highlight.ANSI
	themeName string
	textInput textinput.Model
	lines     []string
	// message is a one-shot status line, cleared on the next key
	message  string
	width    int
	height   int
	showHelp bool
	quitting bool
}

func newPlaygroundModel(service *lsp.Service, theme highlight.Theme) playgroundModel {
	ti := textinput.New()
	ti.Placeholder = "type some Vibe..."
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 72
	ti.PromptStyle = promptStyle
	ti.Prompt = "vibe> "

	return playgroundModel{
		service:   service,
		ansi:      highlight.NewANSI(theme),
		themeName: theme.Name,
		textInput: ti,
		width:     80,
		height:    24,
	}
}

func (m playgroundModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m playgroundModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = max(10, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		m.message = ""
		switch {
		case key.Matches(msg, playgroundKeys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, playgroundKeys.Help):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, playgroundKeys.Tab):
			return m.complete(), nil

		case key.Matches(msg, playgroundKeys.Up):
			if len(m.lines) > 0 && m.textInput.Value() == "" {
				last := len(m.lines) - 1
				m.textInput.SetValue(m.lines[last])
				m.textInput.CursorEnd()
				m.lines = m.lines[:last]
			}
			return m, nil

		case key.Matches(msg, playgroundKeys.Enter):
			input := m.textInput.Value()
			if strings.HasPrefix(strings.TrimSpace(input), ":") {
				return m.command(strings.TrimSpace(input))
			}
			m.lines = append(m.lines, input)
			m.textInput.SetValue("")
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m playgroundModel) command(input string) (playgroundModel, tea.Cmd) {
	m.textInput.SetValue("")
	switch strings.Fields(input)[0] {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.lines = nil
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.message = fmt.Sprintf("unknown command: %s", input)
	}
	return m, nil
}

// document is the committed lines plus the line being edited.
func (m playgroundModel) document() string {
	return strings.Join(append(append([]string(nil), m.lines...), m.textInput.Value()), "\n")
}

// cursor is the 1-based position of the input cursor within document.
func (m playgroundModel) cursor() (line, column int) {
	return len(m.lines) + 1, m.textInput.Position() + 1
}

// complete narrows the catalog to names extending the typed prefix. A
// single match is inserted; several are listed in the status line.
func (m playgroundModel) complete() playgroundModel {
	doc := m.document()
	line, column := m.cursor()
	prefix := lsp.TypedPrefix(doc, line, column)
	if prefix == "" {
		return m
	}

	var matches []string
	seen := make(map[string]bool)
	for _, c := range m.service.Complete(doc, line, column) {
		if strings.HasPrefix(c.Label, prefix) && !seen[c.Label] {
			seen[c.Label] = true
			matches = append(matches, c.Label)
		}
	}

	switch len(matches) {
	case 0:
		m.message = fmt.Sprintf("no completions for %q", prefix)
	case 1:
		value := []rune(m.textInput.Value())
		pos := m.textInput.Position()
		start := pos - len([]rune(prefix))
		updated := string(value[:start]) + matches[0] + string(value[pos:])
		m.textInput.SetValue(updated)
		m.textInput.SetCursor(start + len([]rune(matches[0])))
	default:
		m.message = "completions: " + strings.Join(matches, ", ")
	}
	return m
}

// hint describes the cursor: the enclosing call's signature wins over
// hover documentation for the word just left of the cursor.
func (m playgroundModel) hint() string {
	doc := m.document()
	line, column := m.cursor()

	if help := m.service.SignatureHelp(doc, line, column); help != nil && len(help.Signatures) > 0 {
		return help.Signatures[0].Label
	}
	if h := m.service.Hover(doc, line, max(1, column-1)); h != nil {
		return fmt.Sprintf("%s (%s): %s", h.Label, h.Category, firstLine(h.Documentation))
	}
	return ""
}

func (m playgroundModel) View() string {
	if m.quitting {
		return mutedStyle.Render("Bye!\n")
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Vibe Playground") + " " +
		mutedStyle.Render(fmt.Sprintf("%s · theme %s", version.Get().Version, m.themeName)) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", max(0, min(m.width-2, 72)))) + "\n\n")

	// keep the tail of the buffer on screen
	reserved := 10
	if m.showHelp {
		reserved += 9
	}
	start := 0
	if avail := m.height - reserved; avail > 0 && len(m.lines) > avail {
		start = len(m.lines) - avail
	}
	if len(m.lines) > 0 {
		highlighted := strings.Split(m.ansi.Render(m.service.Tokenize(strings.Join(m.lines, "\n"))), "\n")
		for i := start; i < len(highlighted); i++ {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%4d │ ", i+1)) + highlighted[i] + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n")
	if hint := m.hint(); hint != "" {
		b.WriteString("  " + hintStyle.Render(hint) + "\n")
	}
	if m.message != "" {
		b.WriteString("  " + mutedStyle.Render(m.message) + "\n")
	}

	for _, d := range m.service.Diagnostics(m.document()) {
		text := fmt.Sprintf("  %d:%d %s", d.Range.Start.Line, d.Range.Start.Character+1, d.Message)
		if d.Severity == lexer.SeverityError {
			b.WriteString(errorStyle.Render("✗"+text) + "\n")
		} else {
			b.WriteString(warningStyle.Render("!"+text) + "\n")
		}
	}
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(renderPlaygroundHelp() + "\n")
	}

	footer := helpKeyStyle.Render("tab") + helpDescStyle.Render(" complete  ") +
		helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)
	return b.String()
}

func renderPlaygroundHelp() string {
	help := []struct {
		key  string
		desc string
	}{
		{"Tab", "Complete the word before the cursor"},
		{"Enter", "Commit the line"},
		{"↑", "Edit the last committed line"},
		{":help", "Toggle this help"},
		{":clear", "Clear the buffer"},
		{":quit", "Exit"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}
