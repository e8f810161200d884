package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptTitleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	promptSelectionStyle = lipgloss.NewStyle().Reverse(true)
	promptHelpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Italic(true)
)

// PromptModel is a single-line input overlay. The initial value may carry a
// selected range which the first typed character replaces.
type PromptModel struct {
	textInput textinput.Model
	title     string
	width     int
	active    bool
	password  bool

	// selection in runes; selStart == selEnd means none
	selStart int
	selEnd   int
}

func NewPrompt() *PromptModel {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	ti.Prompt = "> "

	return &PromptModel{textInput: ti}
}

func (m *PromptModel) SetWidth(width int) {
	m.width = width
	if width > 12 {
		m.textInput.Width = width - 12
	}
}

// Activate shows the prompt. selEnd < 0 selects to the end of value.
func (m *PromptModel) Activate(title, value string, selStart, selEnd int, password bool) {
	m.active = true
	m.title = title
	m.password = password

	if password {
		m.textInput.EchoMode = textinput.EchoPassword
	} else {
		m.textInput.EchoMode = textinput.EchoNormal
	}
	m.textInput.SetValue(value)
	m.textInput.Focus()

	length := len([]rune(value))
	if selEnd < 0 || selEnd > length {
		selEnd = length
	}
	if selStart < 0 || selStart > selEnd {
		selStart = selEnd
	}
	m.selStart, m.selEnd = selStart, selEnd
	m.textInput.SetCursor(selEnd)
}

func (m *PromptModel) Deactivate() {
	m.active = false
	m.textInput.Blur()
	m.textInput.SetValue("")
	m.selStart, m.selEnd = 0, 0
}

func (m *PromptModel) IsActive() bool {
	return m.active
}

func (m *PromptModel) Value() string {
	return m.textInput.Value()
}

func (m *PromptModel) HasSelection() bool {
	return m.selEnd > m.selStart
}

func (m *PromptModel) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok && m.HasSelection() {
		switch keyMsg.Type {
		case tea.KeyRunes, tea.KeySpace:
			text := string(keyMsg.Runes)
			if text == "" && keyMsg.Type == tea.KeySpace {
				text = " "
			}
			m.replaceSelection(text)
			return nil
		case tea.KeyBackspace, tea.KeyDelete:
			m.replaceSelection("")
			return nil
		default:
			m.selStart, m.selEnd = 0, 0
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

func (m *PromptModel) replaceSelection(with string) {
	value := []rune(m.textInput.Value())
	replaced := string(value[:m.selStart]) + with + string(value[m.selEnd:])
	cursor := m.selStart + len([]rune(with))

	m.selStart, m.selEnd = 0, 0
	m.textInput.SetValue(replaced)
	m.textInput.SetCursor(cursor)
}

func (m *PromptModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(m.title))
	b.WriteString("\n\n")

	if m.HasSelection() && !m.password {
		value := []rune(m.textInput.Value())
		b.WriteString(m.textInput.Prompt)
		b.WriteString(string(value[:m.selStart]))
		b.WriteString(promptSelectionStyle.Render(string(value[m.selStart:m.selEnd])))
		b.WriteString(string(value[m.selEnd:]))
	} else {
		b.WriteString(m.textInput.View())
	}

	b.WriteString("\n\n")
	b.WriteString(promptHelpStyle.Render("Enter: Confirm | Esc: Cancel"))

	return OverlayStyle.Width(max(20, m.width-4)).Render(b.String())
}
