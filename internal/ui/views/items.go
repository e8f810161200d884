package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/johanforsgren/vsoitems/internal/items"
)

const (
	markResolved     = "●"
	markPending      = "…"
	markUnknown      = "✗"
	markDisconnected = "○"
)

var iconGlyphs = map[string]string{
	"icon_bug.svg":          "🐞",
	"icon_task.svg":         "☑",
	"icon_task_group.svg":   "▤",
	"icon_backlog_item.svg": "▣",
	"icon_feature.svg":      "★",
	"icon_initiative.svg":   "◆",
	"icon_user_story.svg":   "✎",
}

// IconGlyph renders an item icon resource in the terminal.
func IconGlyph(icon string) string {
	if glyph, ok := iconGlyphs[icon]; ok {
		return glyph
	}
	return "·"
}

type itemRow struct {
	item        *items.Item
	label       string
	description string
	itemType    string
	state       string
	mark        string
	icon        string
}

func snapshotRow(item *items.Item) itemRow {
	row := itemRow{
		item:        item,
		label:       item.Label(),
		description: item.Description(),
		itemType:    item.Type(),
		state:       item.State(),
		icon:        IconGlyph(item.Icon()),
	}

	switch {
	case !item.Connected():
		row.mark = markDisconnected
	case item.Title() == items.PendingTitle:
		row.mark = markPending
	case item.Title() == items.UnknownTitle:
		row.mark = markUnknown
	default:
		row.mark = markResolved
	}
	return row
}

type ItemsViewModel struct {
	table table.Model

	// rows in document order; never reordered by filtering
	sourceRows  []itemRow
	visibleRows []itemRow

	width       int
	height      int
	filterInput textinput.Model
	filtering   bool
	filterText  string
	hasDocument bool
}

func NewItemsView() *ItemsViewModel {
	t := table.New(
		table.WithColumns(itemColumns(60)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.HiddenBorder()).
		Bold(false).
		Foreground(lipgloss.Color("#6B7280"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#F59E0B")).
		Background(lipgloss.Color("#1F2937")).
		Bold(true)
	t.SetStyles(s)

	ti := textinput.New()
	ti.Placeholder = "Filter by id, title, type or state..."
	ti.CharLimit = 100

	return &ItemsViewModel{
		table:       t,
		filterInput: ti,
	}
}

func itemColumns(descriptionWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "", Width: 2},
		{Title: "ID", Width: 8},
		{Title: "Item", Width: descriptionWidth},
		{Title: "Type", Width: 22},
	}
}

func (m *ItemsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(max(1, height-11))

	const fixed = 2 + 2 + 8 + 22 + 4
	m.table.SetColumns(itemColumns(clamp(width-fixed, 20, 120)))
	m.rebuild()
}

// SetItems replaces the listed items. hasDocument distinguishes an empty
// document from no document at all.
func (m *ItemsViewModel) SetItems(list []*items.Item, hasDocument bool) {
	m.hasDocument = hasDocument
	m.sourceRows = make([]itemRow, 0, len(list))
	for _, item := range list {
		m.sourceRows = append(m.sourceRows, snapshotRow(item))
	}
	m.rebuild()
}

func (m *ItemsViewModel) Len() int {
	return len(m.sourceRows)
}

// source → filter → visible → rows
func (m *ItemsViewModel) rebuild() {
	m.visibleRows = m.filterRows(m.sourceRows)
	m.table.SetRows(m.toTableRows(m.visibleRows))

	if cursor := m.table.Cursor(); cursor >= len(m.visibleRows) {
		m.table.SetCursor(max(0, len(m.visibleRows)-1))
	}
}

func (m *ItemsViewModel) filterRows(rows []itemRow) []itemRow {
	if m.filterText == "" {
		return rows
	}

	filter := strings.ToLower(m.filterText)
	var out []itemRow
	for _, row := range rows {
		if strings.Contains(row.label, filter) ||
			strings.Contains(strings.ToLower(row.description), filter) ||
			strings.Contains(strings.ToLower(row.itemType), filter) {
			out = append(out, row)
		}
	}
	return out
}

func (m *ItemsViewModel) toTableRows(rows []itemRow) []table.Row {
	out := make([]table.Row, len(rows))
	descriptionWidth := m.table.Columns()[3].Width

	for i, row := range rows {
		out[i] = table.Row{
			row.mark,
			row.icon,
			"#" + row.label,
			truncateString(row.description, descriptionWidth),
			truncateString(row.itemType, 22),
		}
	}
	return out
}

func (m *ItemsViewModel) Selected() *items.Item {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visibleRows) {
		return nil
	}
	return m.visibleRows[idx].item
}

func (m *ItemsViewModel) SetCursor(n int) {
	m.table.SetCursor(n)
}

func (m *ItemsViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.filtering {
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.filterText = m.filterInput.Value()
		m.rebuild()
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return cmd
}

func (m *ItemsViewModel) ActivateFilter() {
	m.filtering = true
	m.filterInput.SetValue(m.filterText)
	m.filterInput.Focus()
}

func (m *ItemsViewModel) ApplyFilter() {
	m.filterText = m.filterInput.Value()
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *ItemsViewModel) ClearFilter() {
	m.filterText = ""
	m.filterInput.SetValue("")
	m.filtering = false
	m.filterInput.Blur()
	m.rebuild()
}

func (m *ItemsViewModel) IsFiltering() bool {
	return m.filtering
}

func (m *ItemsViewModel) FilterText() string {
	return m.filterText
}

func (m *ItemsViewModel) View() string {
	mutedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	var body string
	switch {
	case !m.hasDocument:
		body = mutedStyle.Render("No document open. Use :open <path> to open one.")
	case len(m.sourceRows) == 0:
		body = mutedStyle.Render("No VSO references in this document.")
	default:
		body = m.colorizeTableRows(m.table.View())
	}

	help := mutedStyle.Render("\n" + m.helpText())

	if m.filtering {
		filterStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)
		return body + "\n" + filterStyle.Render("Filter: ") + m.filterInput.View() + help
	}
	return body + help
}

func (m *ItemsViewModel) colorizeTableRows(tableOutput string) string {
	lines := strings.Split(tableOutput, "\n")
	disconnectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	unknownStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FCA5A5"))

	for i, line := range lines {
		if strings.Contains(line, markDisconnected) {
			lines[i] = disconnectedStyle.Render(line)
		} else if strings.Contains(line, markUnknown) {
			lines[i] = unknownStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m *ItemsViewModel) helpText() string {
	if m.filtering {
		return "Type to filter | Enter/Esc: Close"
	}
	if m.filterText != "" {
		return fmt.Sprintf("Filter: %q | Enter: Open | y: Copy link | Esc: Clear filter", m.filterText)
	}
	return "Enter: Open | y: Copy link | r: Refresh | /: Filter | Tab: Next document"
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if maxLen <= 0 || len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func clamp(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
