package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/vsoitems/internal/logger"
)

var logCategoryColors = []struct {
	marker string
	color  lipgloss.Color
}{
	{"[ERROR]", lipgloss.Color("#EF4444")},
	{"[CONNECT]", lipgloss.Color("#3B82F6")},
	{"[FETCH]", lipgloss.Color("#A78BFA")},
	{"[FILE_WRITE]", lipgloss.Color("#F59E0B")},
	{"[FILE_OPEN]", lipgloss.Color("#10B981")},
}

type LogsViewModel struct {
	viewport viewport.Model
	width    int
	height   int
	active   bool
	logs     []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{
		viewport: viewport.New(80, 10),
	}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(10, width-8)
	m.viewport.Height = max(1, height-10)
	if m.active {
		m.viewport.SetContent(m.render())
	}
}

// Activate snapshots the log buffer and scrolls to the newest entry.
func (m *LogsViewModel) Activate() {
	m.active = true
	m.Reload()
	m.viewport.GotoBottom()
}

func (m *LogsViewModel) Reload() {
	m.logs = logger.GetLogs()
	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.render())
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.viewport.GotoTop()
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "g", "home":
			m.viewport.GotoTop()
			return nil
		case "G", "end":
			m.viewport.GotoBottom()
			return nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return cmd
}

func (m *LogsViewModel) render() string {
	if len(m.logs) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			Render("No logs yet")
	}

	lines := make([]string, 0, len(m.logs))
	for _, entry := range m.logs {
		line := fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)
		lines = append(lines, lipgloss.NewStyle().Foreground(logColor(entry.Message)).Render(line))
	}
	return strings.Join(lines, "\n")
}

func logColor(message string) lipgloss.Color {
	for _, c := range logCategoryColors {
		if strings.Contains(message, c.marker) {
			return c.color
		}
	}
	return lipgloss.Color("#E5E7EB")
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	b.WriteString(titleStyle.Render(fmt.Sprintf("Session Logs (%d entries)", len(m.logs))))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	help := fmt.Sprintf("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | Esc: Close | %3.f%%", m.viewport.ScrollPercent()*100)
	b.WriteString(helpStyle.Render(help))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(max(20, m.width-4))

	return boxStyle.Render(b.String())
}
