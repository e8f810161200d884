// Package connection owns the single live tracker session: credential
// lookup with interactive fallback, authentication, and suppression of
// repeated failure notifications.
package connection

import (
	"context"
	"strings"
	"sync"

	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/logger"
)

const AccessTokenInfoLink = "https://docs.microsoft.com/en-us/azure/devops/organizations/accounts/use-personal-access-tokens-to-authenticate"

const (
	MissingConfigMessage  = "VSO Items: Please provide an Azure organization URL and access token in order to get full details on vso items"
	ConnectFailedMessage  = "VSO Items: Failed to connect to Azure DevOps. Please Check your organization URL and access token in settings."
	organizationURLPrompt = "Organization URL"
)

type Notifier interface {
	Info(message string)
	Error(message string)
}

type PromptRequest struct {
	Prompt         string
	Value          string
	SelectionStart int
	SelectionEnd   int
	Password       bool
}

// Prompter asks the user for a value. ok is false when the user cancels.
type Prompter interface {
	Prompt(ctx context.Context, req PromptRequest) (value string, ok bool, err error)
}

type Manager struct {
	tracker  domain.Tracker
	settings domain.SettingsStore
	prompter Prompter
	notifier Notifier

	mu       sync.Mutex
	session  domain.Session
	inFlight bool
	// bumped by Reset; a connect started under an older generation
	// discards its session
	generation uint64

	// Key of the last attempt that produced a notification. Reset on
	// successful connect so a later failure with the same values is shown.
	lastAttemptKey string
	hasAttemptKey  bool
}

func NewManager(tracker domain.Tracker, settings domain.SettingsStore, prompter Prompter, notifier Notifier) *Manager {
	return &Manager{
		tracker:  tracker,
		settings: settings,
		prompter: prompter,
		notifier: notifier,
	}
}

// ActiveSession returns the live session, or nil after starting a background
// connect without prompting.
func (m *Manager) ActiveSession(ctx context.Context) domain.Session {
	m.mu.Lock()
	session, busy := m.session, m.inFlight
	m.mu.Unlock()

	if session != nil {
		return session
	}
	if !busy {
		go m.Connect(ctx, false)
	}
	return nil
}

func (m *Manager) InFlight() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Reset drops the live session so the next attempt re-reads settings. An
// attempt in flight starts over with the current settings.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.generation++
}

// Connect establishes a session. A call made while another attempt is in
// flight returns false immediately without prompting or authenticating.
func (m *Manager) Connect(ctx context.Context, promptIfMissing bool) bool {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return false
	}
	if m.session != nil {
		m.mu.Unlock()
		return true
	}
	m.inFlight = true
	generation := m.generation
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	for {
		ok, stale := m.attempt(ctx, promptIfMissing, generation)
		if !stale {
			return ok
		}
		m.mu.Lock()
		generation = m.generation
		m.mu.Unlock()
		logger.Log("Settings changed during connect, retrying")
	}
}

// attempt runs one credential lookup and authentication. stale is true when
// Reset was called meanwhile; nothing is installed or notified then.
func (m *Manager) attempt(ctx context.Context, promptIfMissing bool, generation uint64) (ok, stale bool) {
	creds := m.resolveCredentials(ctx, promptIfMissing)
	key := creds.OrganizationURL + "-" + creds.AccessToken

	if !creds.Complete() {
		if m.isStale(generation) {
			return false, true
		}
		if m.claimNotification(key) {
			m.notifier.Info(MissingConfigMessage)
		}
		return false, false
	}

	session, err := m.tracker.Connect(ctx, creds)
	logger.LogConnect(creds.OrganizationURL, err)

	m.mu.Lock()
	if m.generation != generation {
		m.mu.Unlock()
		return false, true
	}
	if err != nil {
		m.session = nil
		m.mu.Unlock()
		if m.claimNotification(key) {
			m.notifier.Error(ConnectFailedMessage)
		}
		return false, false
	}
	m.session = session
	m.hasAttemptKey = false
	m.lastAttemptKey = ""
	m.mu.Unlock()

	logger.Log("Session %s established for %s", session.ID(), creds.OrganizationURL)
	return true, false
}

func (m *Manager) isStale(generation uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation != generation
}

// claimNotification reports whether a notification for key should be shown,
// recording key as shown.
func (m *Manager) claimNotification(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.hasAttemptKey && m.lastAttemptKey == key {
		return false
	}
	m.lastAttemptKey = key
	m.hasAttemptKey = true
	return true
}

func (m *Manager) resolveCredentials(ctx context.Context, promptIfMissing bool) domain.Credentials {
	var creds domain.Credentials

	template := m.tracker.URLTemplate()
	creds.OrganizationURL = m.resolveSetting(ctx, domain.SettingOrganizationURL, promptIfMissing, PromptRequest{
		Prompt:         organizationURLPrompt,
		Value:          template.Value,
		SelectionStart: template.SelectionStart,
		SelectionEnd:   template.SelectionEnd,
	})
	if creds.OrganizationURL == "" {
		return creds
	}

	creds.AccessToken = m.resolveSetting(ctx, domain.SettingAccessToken, promptIfMissing, PromptRequest{
		Prompt:   "Access Token. [ " + AccessTokenInfoLink + " ]",
		Password: true,
	})
	return creds
}

func (m *Manager) resolveSetting(ctx context.Context, key string, promptIfMissing bool, req PromptRequest) string {
	if v, ok := m.settings.Get(key); ok {
		return v
	}
	if !promptIfMissing || m.prompter == nil {
		return ""
	}

	value, ok, err := m.prompter.Prompt(ctx, req)
	if err != nil {
		logger.LogError("PROMPT", key, err)
		return ""
	}
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return ""
	}

	if err := m.settings.Set(key, value, true); err != nil {
		logger.LogError("SAVE_SETTING", key, err)
	}
	return value
}
