package components

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type ConnectionStatus int

const (
	StatusDisconnected ConnectionStatus = iota
	StatusConnecting
	StatusConnected
)

type TopBarModel struct {
	width       int
	tracker     string
	target      string
	status      ConnectionStatus
	document    string
	docIndex    int
	docCount    int
	itemCount   int
	cachedCount int
	currentView string
	shortcuts   []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	connectingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

// SetTracker sets the backend name and the organization or repository it
// points at.
func (m *TopBarModel) SetTracker(tracker, target string) {
	m.tracker = tracker
	m.target = target
}

func (m *TopBarModel) SetStatus(status ConnectionStatus) {
	m.status = status
}

func (m *TopBarModel) SetDocument(path string, index, count int) {
	m.document = path
	m.docIndex = index
	m.docCount = count
}

func (m *TopBarModel) SetItemCounts(shown, cached int) {
	m.itemCount = shown
	m.cachedCount = cached
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	titleLine := titleOrangeStyle.Render("VSO Items")

	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	var topSection []string
	topSection = append(topSection, titleLine)
	topSection = append(topSection, "")

	const fixedRows = 5

	const contextColWidth = 50
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string

		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 1 {
			padding1 = 1
		}

		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	content := strings.Join(topSection, "\n")
	return titleStyle.Width(m.width).Render(content)
}

func (m *TopBarModel) buildContextInfo() []string {
	var lines []string

	target := m.target
	if target == "" {
		target = "not configured"
	}
	tracker := m.tracker
	if tracker == "" {
		tracker = "azuredevops"
	}
	lines = append(lines,
		"🔗 "+
			titleOrangeStyle.Render(tracker+": ")+
			valueWhiteStyle.Render(shorten(target, 38)))

	var status string
	switch m.status {
	case StatusConnected:
		status = connectedStyle.Render("connected")
	case StatusConnecting:
		status = connectingStyle.Render("connecting...")
	default:
		status = disconnectedStyle.Render("disconnected")
	}
	lines = append(lines, "📡 "+titleOrangeStyle.Render("Connection: ")+status)

	document := "none"
	if m.document != "" {
		document = shorten(filepath.Base(m.document), 30)
		if m.docCount > 1 {
			document = fmt.Sprintf("%s [%d/%d]", document, m.docIndex+1, m.docCount)
		}
	}
	lines = append(lines,
		"📄 "+
			titleOrangeStyle.Render("Document: ")+
			valueWhiteStyle.Render(document))

	lines = append(lines,
		"📋 "+
			titleOrangeStyle.Render("Items: ")+
			valueWhiteStyle.Render(fmt.Sprintf("%d", m.itemCount))+
			descGrayStyle.Render(fmt.Sprintf(" (%d cached)", m.cachedCount)))

	viewName := m.currentView
	if viewName == "" {
		viewName = "Items"
	}
	lines = append(lines,
		"🎯 "+
			titleOrangeStyle.Render("View: ")+
			valueWhiteStyle.Render(viewName))

	return lines
}

func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formattedShortcuts []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		formatted := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formattedShortcuts = append(formattedShortcuts, formatted)

		if width := lipgloss.Width(formatted); width > maxWidth {
			maxWidth = width
		}
	}

	minRows := 5
	if contextHeight > minRows {
		minRows = contextHeight
	}

	if len(formattedShortcuts) <= minRows {
		return formattedShortcuts, nil, maxWidth
	}
	return formattedShortcuts[:minRows], formattedShortcuts[minRows:], maxWidth
}

func shorten(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-3]) + "..."
}
