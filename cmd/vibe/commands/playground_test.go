package commands

import (
	"regexp"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelang/vibe/lang/catalog"
	"github.com/vibelang/vibe/lang/highlight"
	"github.com/vibelang/vibe/lang/lsp"
)

func newTestPlayground() playgroundModel {
	return newPlaygroundModel(lsp.NewService(catalog.Default()), highlight.DefaultTheme())
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripStyle(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func update(t *testing.T, m playgroundModel, msg tea.Msg) (playgroundModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	pm, ok := model.(playgroundModel)
	require.True(t, ok, "unexpected model type %T", model)
	return pm, cmd
}

func TestPlaygroundQuitCommand(t *testing.T) {
	m := newTestPlayground()
	m.textInput.SetValue(":quit")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.quitting)
	assert.Empty(t, m.textInput.Value())
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestPlaygroundCtrlCQuits(t *testing.T) {
	m, cmd := update(t, newTestPlayground(), tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Contains(t, stripStyle(m.View()), "Bye!")
}

func TestPlaygroundCommitAndRecall(t *testing.T) {
	m := newTestPlayground()
	m.textInput.SetValue("starterPack {")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"starterPack {"}, m.lines)
	assert.Empty(t, m.textInput.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Empty(t, m.lines)
	assert.Equal(t, "starterPack {", m.textInput.Value())
}

func TestPlaygroundCommands(t *testing.T) {
	m := newTestPlayground()
	m.lines = []string{"a", "b"}

	m.textInput.SetValue(":help")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.showHelp)

	m.textInput.SetValue(":clear")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.lines)

	m.textInput.SetValue(":nope")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.message, "unknown command")
	assert.False(t, m.quitting)
}

func TestPlaygroundTabCompletion(t *testing.T) {
	t.Run("single match is inserted", func(t *testing.T) {
		m := newTestPlayground()
		m.textInput.SetValue("x = shou")
		m.textInput.CursorEnd()

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "x = shoutout", m.textInput.Value())
		assert.Equal(t, len("x = shoutout"), m.textInput.Position())
	})

	t.Run("several matches are listed", func(t *testing.T) {
		m := newTestPlayground()
		m.textInput.SetValue("s")
		m.textInput.CursorEnd()
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Contains(t, m.message, "completions: ")
		assert.Contains(t, m.message, "shoutout")
		assert.Contains(t, m.message, "spillTheTea")
	})

	t.Run("no match", func(t *testing.T) {
		m := newTestPlayground()
		m.textInput.SetValue("zzz")
		m.textInput.CursorEnd()

		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Equal(t, "zzz", m.textInput.Value())
		assert.Equal(t, `no completions for "zzz"`, m.message)
	})

	t.Run("nothing typed", func(t *testing.T) {
		m := newTestPlayground()
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		assert.Empty(t, m.textInput.Value())
		assert.Empty(t, m.message)
	})
}

func TestPlaygroundHint(t *testing.T) {
	m := newTestPlayground()

	m.textInput.SetValue(`shoutout("hi"`)
	m.textInput.CursorEnd()
	assert.Equal(t, "shoutout(message)", m.hint())

	m.textInput.SetValue("noCap")
	m.textInput.CursorEnd()
	assert.Equal(t, "noCap (constant): Boolean true value", m.hint())

	m.textInput.SetValue("plain")
	m.textInput.CursorEnd()
	assert.Empty(t, m.hint())
}

func TestPlaygroundViewShowsDiagnostics(t *testing.T) {
	m := newTestPlayground()
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.lines = []string{`shoutout("oops`}

	view := stripStyle(m.View())
	assert.Contains(t, view, "Vibe Playground")
	assert.Contains(t, view, "1 │ ")
	assert.Contains(t, view, "unclosed string literal")
}
