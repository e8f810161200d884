package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const maxHistory = 50

type CommandBarModel struct {
	textInput textinput.Model
	width     int
	active    bool
	history   []string
	cursor    int
}

func NewCommandBar() *CommandBarModel {
	ti := textinput.New()
	ti.Placeholder = "open <path> | close | cd <dir> | refresh | set url|token <value> | logs | q"
	ti.CharLimit = 256
	ti.Width = 50

	return &CommandBarModel{
		textInput: ti,
	}
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 10 {
		m.textInput.Width = width - 10
	}
}

func (m *CommandBarModel) Activate() {
	m.active = true
	m.cursor = len(m.history)
	m.textInput.Focus()
	m.textInput.SetValue(":")
	m.textInput.CursorEnd()
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Value() string {
	return m.textInput.Value()
}

// Remember appends a submitted command to the recall history.
func (m *CommandBarModel) Remember(input string) {
	if input == "" || input == ":" {
		return
	}
	if n := len(m.history); n > 0 && m.history[n-1] == input {
		return
	}
	m.history = append(m.history, input)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
				m.recall()
			}
			return nil
		case tea.KeyDown:
			if m.cursor < len(m.history) {
				m.cursor++
				m.recall()
			}
			return nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

func (m *CommandBarModel) recall() {
	value := ":"
	if m.cursor < len(m.history) {
		value = m.history[m.cursor]
	}
	m.textInput.SetValue(value)
	m.textInput.CursorEnd()
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	return CommandBarStyle.Width(m.width).Render(" " + m.textInput.View())
}
