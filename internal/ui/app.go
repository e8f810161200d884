package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/vsoitems/internal/document"
	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/items"
	"github.com/johanforsgren/vsoitems/internal/logger"
	"github.com/johanforsgren/vsoitems/internal/ui/components"
	"github.com/johanforsgren/vsoitems/internal/ui/views"
)

const DefaultPollInterval = 2 * time.Second

type ViewState int

const (
	ViewItems ViewState = iota
	ViewNoDocument
)

type LinkOpener interface {
	Open(url string) error
	Copy(url string) error
}

type ConnectionState interface {
	Connected() bool
	InFlight() bool
	Reset()
}

type Settings interface {
	domain.SettingsStore
	SetFolder(dir string) error
}

type Config struct {
	Context      context.Context
	Workspace    *document.Workspace
	Registry     *items.Registry
	Connection   ConnectionState
	Settings     Settings
	Opener       LinkOpener
	Bridge       *Bridge
	Tracker      domain.ProviderType
	PollInterval time.Duration
}

type Model struct {
	state      ViewState
	width      int
	height     int
	topBar     *components.TopBarModel
	statusBar  *components.StatusBarModel
	commandBar *components.CommandBarModel
	promptView *components.PromptModel
	itemsView  *views.ItemsViewModel
	logsView   *views.LogsViewModel
	preview    *views.PreviewViewModel

	ctx        context.Context
	workspace  *document.Workspace
	registry   *items.Registry
	connection ConnectionState
	settings   Settings
	opener     LinkOpener
	bridge     *Bridge
	tracker    domain.ProviderType
	poll       time.Duration

	commandRegistry *CommandRegistry
	pendingPrompt   chan<- promptReply
	wasConnected    bool
}

func NewModel(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	tracker := cfg.Tracker
	if tracker == "" {
		tracker = domain.ProviderAzureDevOps
	}

	m := Model{
		state:           ViewNoDocument,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(),
		promptView:      components.NewPrompt(),
		itemsView:       views.NewItemsView(),
		logsView:        views.NewLogsView(),
		preview:         views.NewPreviewView(),
		ctx:             ctx,
		workspace:       cfg.Workspace,
		registry:        cfg.Registry,
		connection:      cfg.Connection,
		settings:        cfg.Settings,
		opener:          cfg.Opener,
		bridge:          cfg.Bridge,
		tracker:         tracker,
		poll:            poll,
		commandRegistry: NewCommandRegistry(),
	}

	m.topBar.SetTracker(string(tracker), m.trackerTarget())
	m.topBar.SetView("Items")
	m.updateDocumentInfo()
	m.updateShortcuts()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("VSO Items"),
		m.loadItems(),
		m.bridge.waitForChange(),
		m.bridge.waitForNotice(),
		m.bridge.waitForPrompt(),
		m.tick(),
	)
}

func (m Model) isInInputMode() bool {
	return m.promptView.IsActive() ||
		m.commandBar.IsActive() ||
		m.logsView.IsActive() ||
		m.preview.IsActive() ||
		m.itemsView.IsFiltering()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.promptView.SetWidth(msg.Width)
		m.itemsView.SetSize(msg.Width, msg.Height)
		m.logsView.SetSize(msg.Width, msg.Height)
		m.preview.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case itemsChangedMsg:
		return m, tea.Batch(m.loadItems(), m.bridge.waitForChange())

	case itemsLoadedMsg:
		if msg.path != m.workspace.ActivePath() {
			return m, nil
		}
		m.itemsView.SetItems(msg.items, msg.hasDocument)
		m.state = ViewNoDocument
		if msg.hasDocument {
			m.state = ViewItems
		}
		m.topBar.SetItemCounts(len(msg.items), m.registry.Len())
		m.syncConnectionStatus()
		m.updateSelectionHint()
		m.updateShortcuts()
		m.preview.SetDocument(msg.path, msg.text, annotations(msg.items))
		if m.logsView.IsActive() {
			m.logsView.Reload()
		}
		return m, nil

	case noticeMsg:
		m.statusBar.SetMessage(msg.message, msg.isError)
		m.syncConnectionStatus()
		return m, m.bridge.waitForNotice()

	case promptMsg:
		req := msg.request
		m.promptView.Activate(req.Prompt, req.Value, req.SelectionStart, req.SelectionEnd, req.Password)
		m.pendingPrompt = msg.reply
		m.topBar.SetView("Prompt")
		return m, nil

	case tickMsg:
		return m.handleTick()

	}

	if m.logsView.IsActive() {
		cmd = m.logsView.Update(msg)
	} else if m.preview.IsActive() {
		cmd = m.preview.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.answerPrompt("", false)
		return m, tea.Quit
	}

	if m.isInInputMode() {
		if m.promptView.IsActive() {
			switch key {
			case "enter":
				m.answerPrompt(m.promptView.Value(), true)
				return m, m.bridge.waitForPrompt()
			case "esc":
				m.answerPrompt("", false)
				return m, m.bridge.waitForPrompt()
			default:
				return m, m.promptView.Update(msg)
			}
		}

		if m.commandBar.IsActive() {
			switch key {
			case "enter":
				return m.handleCommand()
			case "esc":
				m.commandBar.Deactivate()
				return m, nil
			default:
				return m, m.commandBar.Update(msg)
			}
		}

		if m.logsView.IsActive() {
			switch key {
			case "esc", "q", "L":
				m.logsView.Deactivate()
				return m, nil
			default:
				return m, m.logsView.Update(msg)
			}
		}

		if m.preview.IsActive() {
			switch key {
			case "esc", "q", "p":
				m.preview.Deactivate()
				m.topBar.SetView("Items")
				return m, nil
			default:
				return m, m.preview.Update(msg)
			}
		}

		if m.itemsView.IsFiltering() {
			switch key {
			case "enter":
				m.itemsView.ApplyFilter()
			case "esc":
				m.itemsView.ClearFilter()
			default:
				cmd := m.itemsView.Update(msg)
				m.updateSelectionHint()
				return m, cmd
			}
			m.updateSelectionHint()
			return m, nil
		}
	}

	newModel, cmd, handled := m.commandRegistry.HandleKey(m, key)
	if handled {
		return newModel, cmd
	}

	cmd = m.itemsView.Update(msg)
	m.updateSelectionHint()
	return m, cmd
}

func (m *Model) answerPrompt(value string, ok bool) {
	if m.pendingPrompt == nil {
		return
	}
	m.pendingPrompt <- promptReply{value: strings.TrimSpace(value), ok: ok}
	m.pendingPrompt = nil
	m.promptView.Deactivate()
	m.topBar.SetView("Items")
}

func (m Model) handleCommand() (tea.Model, tea.Cmd) {
	input := m.commandBar.Value()
	m.commandBar.Remember(input)
	m.commandBar.Deactivate()

	input = strings.TrimPrefix(strings.TrimSpace(input), ":")
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}

	cmdName := parts[0]
	args := parts[1:]

	logger.Log("UI: Executing command: %s %v", cmdName, args)
	return m.commandRegistry.ExecuteCommand(m, cmdName, args)
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.tick()}

	events := m.workspace.Poll()
	for _, event := range events {
		logger.Log("UI: Document %s: %s", event.Kind, event.Path)
	}

	connected := m.connection.Connected()
	becameConnected := connected && !m.wasConnected
	m.wasConnected = connected
	m.syncConnectionStatus()

	// a background connect finished since the last tick; show details for
	// items fetched while it was pending
	if len(events) > 0 || becameConnected {
		cmds = append(cmds, m.refreshAll(false))
	}
	return m, tea.Batch(cmds...)
}

// applyDocumentEvent maps a workspace change to a non-reconnecting refresh.
func (m Model) applyDocumentEvent(event document.Event) (Model, tea.Cmd) {
	logger.Log("UI: Document %s: %s", event.Kind, event.Path)

	if event.Kind == document.FolderChanged {
		if err := m.settings.SetFolder(event.Path); err != nil {
			logger.LogError("SET_FOLDER", event.Path, err)
			m.statusBar.SetMessage(err.Error(), true)
		} else {
			m.statusBar.SetMessage(fmt.Sprintf("Workspace folder: %s", event.Path), false)
		}
		m.connection.Reset()
		m.topBar.SetTracker(string(m.tracker), m.trackerTarget())
	}

	m.updateDocumentInfo()
	if len(m.workspace.Paths()) == 0 {
		m.itemsView.SetItems(nil, false)
		m.state = ViewNoDocument
		m.updateShortcuts()
	}
	return m, m.refreshAll(false)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.promptView.IsActive():
		content = m.promptView.View()
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.preview.IsActive():
		content = m.preview.View()
	default:
		content = m.itemsView.View()
	}

	topBar := m.topBar.View()

	if commandBar := m.commandBar.View(); commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}
	return topBar + "\n" + content + "\n" + m.statusBar.View()
}

func (m Model) refreshAll(reconnect bool) tea.Cmd {
	registry, ctx := m.registry, m.ctx
	return func() tea.Msg {
		registry.RefreshAll(ctx, reconnect)
		return nil
	}
}

func (m Model) loadItems() tea.Cmd {
	workspace, registry, ctx := m.workspace, m.registry, m.ctx
	return func() tea.Msg {
		path := workspace.ActivePath()
		text, ok := workspace.ActiveText()
		if !ok {
			return itemsLoadedMsg{path: path}
		}
		return itemsLoadedMsg{
			path:        path,
			text:        text,
			items:       registry.Items(ctx, text),
			hasDocument: true,
		}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.poll, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) syncConnectionStatus() {
	switch {
	case m.connection.Connected():
		m.topBar.SetStatus(components.StatusConnected)
	case m.connection.InFlight():
		m.topBar.SetStatus(components.StatusConnecting)
	default:
		m.topBar.SetStatus(components.StatusDisconnected)
	}
}

func (m Model) updateDocumentInfo() {
	active := m.workspace.ActivePath()
	paths := m.workspace.Paths()
	index := 0
	for i, p := range paths {
		if p == active {
			index = i
			break
		}
	}
	m.topBar.SetDocument(active, index, len(paths))
}

func (m Model) updateSelectionHint() {
	if item := m.itemsView.Selected(); item != nil {
		m.statusBar.SetRight(item.Tooltip())
		return
	}
	m.statusBar.SetRight("")
}

func (m Model) trackerTarget() string {
	if m.settings == nil {
		return ""
	}
	target, _ := m.settings.Get(domain.SettingOrganizationURL)
	return target
}

func (m Model) updateShortcuts() {
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}

// annotations maps each listed id to the text shown beside its references in
// the preview.
func annotations(list []*items.Item) map[int]string {
	notes := make(map[int]string, len(list))
	for _, item := range list {
		notes[item.ID()] = item.Description()
	}
	return notes
}

type itemsLoadedMsg struct {
	path        string
	text        string
	items       []*items.Item
	hasDocument bool
}

type tickMsg time.Time
