// vsoitems lists the work items referenced in a text document ("VSO1234")
// with their title, type and state, fetched from Azure DevOps or GitHub.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/johanforsgren/vsoitems/internal/connection"
	"github.com/johanforsgren/vsoitems/internal/document"
	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/items"
	"github.com/johanforsgren/vsoitems/internal/logger"
	"github.com/johanforsgren/vsoitems/internal/opener"
	"github.com/johanforsgren/vsoitems/internal/provider/azuredevops"
	"github.com/johanforsgren/vsoitems/internal/provider/common"
	"github.com/johanforsgren/vsoitems/internal/provider/github"
	"github.com/johanforsgren/vsoitems/internal/storage"
	"github.com/johanforsgren/vsoitems/internal/ui"
	"github.com/spf13/pflag"
)

type options struct {
	logPath   string
	poll      time.Duration
	folder    string
	debugHTTP bool
	paths     []string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if err := logger.Init(opts.logPath); err != nil {
		return err
	}
	defer logger.Close()
	logger.Log("Starting vsoitems (folder %s)", opts.folder)

	if opts.debugHTTP {
		common.InstallDefault()
	}

	settings, err := storage.NewSettingsStore(opts.folder)
	if err != nil {
		return err
	}

	tracker, err := selectTracker(settings)
	if err != nil {
		return err
	}

	workspace := document.NewWorkspace(opts.folder)
	for _, path := range opts.paths {
		if _, err := workspace.Open(path); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bridge := ui.NewBridge()
	manager := connection.NewManager(tracker, settings, bridge, bridge)
	registry := items.NewRegistry(manager, bridge.Changed)

	model := ui.NewModel(ui.Config{
		Context:      ctx,
		Workspace:    workspace,
		Registry:     registry,
		Connection:   manager,
		Settings:     settings,
		Opener:       opener.New(),
		Bridge:       bridge,
		Tracker:      tracker.GetType(),
		PollInterval: opts.poll,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err = program.Run()
	cancel()
	logger.Log("Exiting vsoitems")
	return err
}

func parseFlags(args []string) (options, error) {
	var opts options

	defaultLog := filepath.Join(".vsoitems", "vsoitems.log")
	if home, err := os.UserHomeDir(); err == nil {
		defaultLog = filepath.Join(home, defaultLog)
	}

	flagSet := pflag.NewFlagSet("vsoitems", pflag.ContinueOnError)
	flagSet.StringVar(&opts.logPath, "log", defaultLog, "append log lines to this file")
	flagSet.DurationVar(&opts.poll, "poll", ui.DefaultPollInterval, "how often open documents are checked for saves")
	flagSet.StringVar(&opts.folder, "folder", "", "workspace folder holding .vsoitems.yaml (default: current directory)")
	flagSet.BoolVar(&opts.debugHTTP, "debug-http", false, "log HTTP requests and responses, auth headers redacted")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: vsoitems [flags] [file...]\n\nFlags:\n")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}

	if opts.poll <= 0 {
		return opts, fmt.Errorf("--poll must be positive, got %s", opts.poll)
	}

	if opts.folder == "" {
		wd, err := os.Getwd()
		if err != nil {
			return opts, fmt.Errorf("failed to get working directory: %w", err)
		}
		opts.folder = wd
	}

	opts.paths = flagSet.Args()
	return opts, nil
}

func selectTracker(settings domain.SettingsStore) (domain.Tracker, error) {
	name, _ := settings.Get(domain.SettingTracker)

	switch domain.ProviderType(strings.ToLower(strings.TrimSpace(name))) {
	case "", domain.ProviderAzureDevOps:
		return azuredevops.NewProvider(), nil
	case domain.ProviderGitHub:
		return github.NewProvider(), nil
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedTracker, name)
	}
}
