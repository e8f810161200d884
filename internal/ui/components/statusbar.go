package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StatusBarModel struct {
	width   int
	message string
	isError bool
	right   string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

// SetRight sets the right-aligned hint, e.g. the selected item's tooltip.
func (m *StatusBarModel) SetRight(text string) {
	m.right = text
}

func (m *StatusBarModel) Message() string {
	return m.message
}

func (m *StatusBarModel) IsError() bool {
	return m.isError
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.isError = false
}

func (m *StatusBarModel) View() string {
	content := " " + m.message
	right := ""
	if m.right != "" {
		right = m.right + " "
	}

	available := m.width - lipgloss.Width(right)
	if lipgloss.Width(content) > available {
		content = truncate(content, available)
	}
	if padding := m.width - lipgloss.Width(content) - lipgloss.Width(right); padding > 0 {
		content += strings.Repeat(" ", padding)
	}
	content += right

	style := StatusBarStyle
	if m.isError {
		style = StatusBarErrorStyle
	}

	return style.Width(m.width).MaxHeight(1).Render(content)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
