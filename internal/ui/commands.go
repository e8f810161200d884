package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/logger"
	"github.com/johanforsgren/vsoitems/internal/opener"
)

type KeyHandler func(m Model) (Model, tea.Cmd)

type CommandHandler func(m Model, args []string) (Model, tea.Cmd)

type KeyBinding struct {
	Keys        []string
	Description string
	AvailableIn []ViewState
	Handler     KeyHandler
}

type CommandDef struct {
	Names       []string
	Usage       string
	Description string
	Handler     CommandHandler
}

type CommandRegistry struct {
	keyBindings []*KeyBinding
	commands    []*CommandDef
}

var allViews = []ViewState{ViewItems, ViewNoDocument}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{}

	r.keyBindings = []*KeyBinding{
		{Keys: []string{"r"}, Description: "Refresh", AvailableIn: allViews, Handler: handleRefreshKey},
		{Keys: []string{"enter", "o"}, Description: "Open item", AvailableIn: []ViewState{ViewItems}, Handler: handleOpenKey},
		{Keys: []string{"y"}, Description: "Copy link", AvailableIn: []ViewState{ViewItems}, Handler: handleCopyKey},
		{Keys: []string{"/"}, Description: "Filter", AvailableIn: []ViewState{ViewItems}, Handler: handleFilterKey},
		{Keys: []string{"p"}, Description: "Preview", AvailableIn: []ViewState{ViewItems}, Handler: handlePreviewKey},
		{Keys: []string{"tab"}, Description: "Next document", AvailableIn: allViews, Handler: handleNextDocumentKey},
		{Keys: []string{"L"}, Description: "Logs", AvailableIn: allViews, Handler: handleLogsKey},
		{Keys: []string{":"}, Description: "Command", AvailableIn: allViews, Handler: handleCommandKey},
		{Keys: []string{"esc"}, Description: "Clear filter", AvailableIn: []ViewState{ViewItems}, Handler: handleEscKey},
		{Keys: []string{"q", "ctrl+c"}, Description: "Quit", AvailableIn: allViews, Handler: handleQuitKey},
	}

	r.commands = []*CommandDef{
		{Names: []string{"open", "o", "e"}, Usage: "open <path>", Description: "Open a document", Handler: execOpen},
		{Names: []string{"close", "c"}, Usage: "close [path]", Description: "Close a document", Handler: execClose},
		{Names: []string{"cd"}, Usage: "cd <dir>", Description: "Change workspace folder", Handler: execCd},
		{Names: []string{"refresh", "r"}, Usage: "refresh", Description: "Refresh and reconnect", Handler: execRefresh},
		{Names: []string{"set"}, Usage: "set [-w] url|token <value>", Description: "Store a setting", Handler: execSet},
		{Names: []string{"logs", "l"}, Usage: "logs", Description: "Show logs", Handler: execLogs},
		{Names: []string{"help", "h"}, Usage: "help", Description: "List commands", Handler: execHelp},
		{Names: []string{"q", "quit"}, Usage: "q", Description: "Quit", Handler: execQuit},
	}

	return r
}

func (r *CommandRegistry) HandleKey(m Model, key string) (Model, tea.Cmd, bool) {
	for _, binding := range r.keyBindings {
		if !binding.availableIn(m.state) {
			continue
		}
		for _, k := range binding.Keys {
			if k == key {
				newModel, cmd := binding.Handler(m)
				return newModel, cmd, true
			}
		}
	}
	return m, nil, false
}

func (b *KeyBinding) availableIn(state ViewState) bool {
	for _, s := range b.AvailableIn {
		if s == state {
			return true
		}
	}
	return false
}

func (r *CommandRegistry) ExecuteCommand(m Model, name string, args []string) (Model, tea.Cmd) {
	for _, def := range r.commands {
		for _, n := range def.Names {
			if n == name {
				return def.Handler(m, args)
			}
		}
	}
	m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s (try :help)", name), true)
	return m, nil
}

// GetContextualShortcuts lists "<key> description" for the bindings usable in
// state, in registration order.
func (r *CommandRegistry) GetContextualShortcuts(state ViewState) []string {
	var shortcuts []string
	for _, binding := range r.keyBindings {
		if !binding.availableIn(state) || binding.Keys[0] == "esc" {
			continue
		}
		shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", binding.Keys[0], binding.Description))
	}
	return shortcuts
}

func handleRefreshKey(m Model) (Model, tea.Cmd) {
	m.statusBar.SetMessage("Refreshing...", false)
	return m, m.refreshAll(true)
}

func handleOpenKey(m Model) (Model, tea.Cmd) {
	item := m.itemsView.Selected()
	if item == nil {
		return m, nil
	}

	err := item.Open(m.opener)
	switch {
	case err == nil:
		if link := item.Link(); link != "" {
			m.statusBar.SetMessage(fmt.Sprintf("Opened %s", link), false)
		}
	case errors.Is(err, opener.ErrCopiedInstead):
		m.statusBar.SetMessage(err.Error(), false)
	default:
		logger.LogError("OPEN_ITEM", item.Label(), err)
		m.statusBar.SetMessage(err.Error(), true)
	}
	return m, nil
}

func handleCopyKey(m Model) (Model, tea.Cmd) {
	item := m.itemsView.Selected()
	if item == nil {
		return m, nil
	}

	link := item.Link()
	if link == "" {
		m.statusBar.SetMessage(fmt.Sprintf("Item %s has no link yet", item.Label()), true)
		return m, nil
	}
	if err := m.opener.Copy(link); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	m.statusBar.SetMessage(fmt.Sprintf("Copied %s", link), false)
	return m, nil
}

func handleFilterKey(m Model) (Model, tea.Cmd) {
	m.itemsView.ActivateFilter()
	return m, nil
}

func handleEscKey(m Model) (Model, tea.Cmd) {
	if m.itemsView.FilterText() != "" {
		m.itemsView.ClearFilter()
	}
	return m, nil
}

func handleNextDocumentKey(m Model) (Model, tea.Cmd) {
	event, ok := m.workspace.Next()
	if !ok {
		return m, nil
	}
	return m.applyDocumentEvent(event)
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handlePreviewKey(m Model) (Model, tea.Cmd) {
	m.preview.Activate()
	m.topBar.SetView("Preview")
	return m, nil
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	return m, tea.Quit
}

func execOpen(m Model, args []string) (Model, tea.Cmd) {
	if len(args) == 0 {
		m.statusBar.SetMessage("Usage: :open <path>", true)
		return m, nil
	}

	var cmds []tea.Cmd
	for _, path := range args {
		event, err := m.workspace.Open(path)
		if err != nil {
			logger.LogError("OPEN_DOCUMENT", path, err)
			m.statusBar.SetMessage(err.Error(), true)
			return m, tea.Batch(cmds...)
		}
		var cmd tea.Cmd
		m, cmd = m.applyDocumentEvent(event)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func execClose(m Model, args []string) (Model, tea.Cmd) {
	path := strings.Join(args, " ")
	event, err := m.workspace.Close(path)
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	return m.applyDocumentEvent(event)
}

func execCd(m Model, args []string) (Model, tea.Cmd) {
	if len(args) == 0 {
		m.statusBar.SetMessage("Usage: :cd <dir>", true)
		return m, nil
	}

	event, err := m.workspace.SetFolder(strings.Join(args, " "))
	if err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	return m.applyDocumentEvent(event)
}

func execRefresh(m Model, args []string) (Model, tea.Cmd) {
	return handleRefreshKey(m)
}

var settingAliases = map[string]string{
	"url":   domain.SettingOrganizationURL,
	"token": domain.SettingAccessToken,
}

func execSet(m Model, args []string) (Model, tea.Cmd) {
	global := true
	if len(args) > 0 && args[0] == "-w" {
		global = false
		args = args[1:]
	}
	if len(args) < 2 {
		m.statusBar.SetMessage("Usage: :set [-w] url|token <value>", true)
		return m, nil
	}

	key, ok := settingAliases[args[0]]
	if !ok {
		m.statusBar.SetMessage(fmt.Sprintf("Unknown setting: %s", args[0]), true)
		return m, nil
	}

	value := strings.Join(args[1:], " ")
	if err := m.settings.Set(key, value, global); err != nil {
		logger.LogError("SET", key, err)
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}

	scope := "global"
	if !global {
		scope = "workspace"
	}
	logger.Log("UI: Updated %s setting %s", scope, key)

	m.connection.Reset()
	m.topBar.SetTracker(string(m.tracker), m.trackerTarget())
	m.statusBar.SetMessage(fmt.Sprintf("Saved %s (%s), reconnecting...", args[0], scope), false)
	return m, m.refreshAll(true)
}

func execLogs(m Model, args []string) (Model, tea.Cmd) {
	return handleLogsKey(m)
}

func execHelp(m Model, args []string) (Model, tea.Cmd) {
	usages := make([]string, 0, len(m.commandRegistry.commands))
	for _, def := range m.commandRegistry.commands {
		usages = append(usages, ":"+def.Usage)
	}
	m.statusBar.SetMessage(strings.Join(usages, "  "), false)
	return m, nil
}

func execQuit(m Model, args []string) (Model, tea.Cmd) {
	return m, tea.Quit
}
