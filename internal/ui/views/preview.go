package views

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/vsoitems/internal/ui/markdown"
)

// PreviewViewModel shows the active document with its references
// highlighted and annotated with the cached item state.
type PreviewViewModel struct {
	viewport    viewport.Model
	renderer    *markdown.Renderer
	width       int
	height      int
	active      bool
	path        string
	text        string
	annotations map[int]string
}

func NewPreviewView() *PreviewViewModel {
	return &PreviewViewModel{
		viewport: viewport.New(80, 10),
		renderer: markdown.NewRenderer(markdown.DefaultStyles()),
	}
}

func (m *PreviewViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(10, width-8)
	m.viewport.Height = max(1, height-10)
	m.renderer.SetWidth(m.viewport.Width)
	if m.active {
		m.viewport.SetContent(m.render())
	}
}

// SetDocument replaces the previewed text. annotations maps item ids to the
// text shown next to each reference. The scroll position is kept when the
// path is unchanged.
func (m *PreviewViewModel) SetDocument(path, text string, annotations map[int]string) {
	samePath := path == m.path
	m.path = path
	m.text = text
	m.annotations = annotations
	if !m.active {
		return
	}
	offset := m.viewport.YOffset
	m.viewport.SetContent(m.render())
	if samePath {
		m.viewport.SetYOffset(offset)
	} else {
		m.viewport.GotoTop()
	}
}

func (m *PreviewViewModel) Activate() {
	m.active = true
	m.viewport.SetContent(m.render())
	m.viewport.GotoTop()
}

func (m *PreviewViewModel) Deactivate() {
	m.active = false
}

func (m *PreviewViewModel) IsActive() bool {
	return m.active
}

func (m *PreviewViewModel) Update(msg tea.Msg) tea.Cmd {
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

func (m *PreviewViewModel) render() string {
	if m.path == "" {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true).
			Render("No document open")
	}

	annotations := m.annotations
	m.renderer.SetAnnotator(func(id int) string {
		return annotations[id]
	})
	return m.renderer.Render(m.text)
}

func (m *PreviewViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	title := "Preview"
	if m.path != "" {
		title = "Preview: " + filepath.Base(m.path)
	}
	b.WriteString(titleStyle.Render(title))
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
