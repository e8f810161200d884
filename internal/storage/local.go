package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/johanforsgren/vsoitems/internal/logger"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

const (
	configDir     = ".vsoitems"
	configFile    = "settings.json"
	workspaceFile = ".vsoitems.yaml"
)

// SettingsStore layers settings: environment, then the workspace folder's
// .vsoitems.yaml, then ~/.vsoitems/settings.json.
type SettingsStore struct {
	globalPath string
	folder     string
	global     Settings
	workspace  Settings
	mu         sync.RWMutex
}

func NewSettingsStore(folder string) (*SettingsStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	store := &SettingsStore{
		globalPath: filepath.Join(homeDir, configDir, configFile),
		global:     Settings{},
		workspace:  Settings{},
	}

	if err := os.MkdirAll(filepath.Dir(store.globalPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	if err := store.loadGlobal(); err != nil {
		return nil, err
	}

	if err := store.SetFolder(folder); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SettingsStore) GlobalPath() string {
	return s.globalPath
}

func (s *SettingsStore) Folder() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.folder
}

// SetFolder switches the workspace layer to dir. An empty dir disables it.
func (s *SettingsStore) SetFolder(dir string) error {
	workspace := Settings{}
	if dir != "" {
		path := filepath.Join(dir, workspaceFile)
		logger.LogFileOpen(path)
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			logger.LogError("LOAD", path, err)
			return err
		default:
			if err := yaml.Unmarshal(data, &workspace); err != nil {
				logger.LogError("UNMARSHAL", path, err)
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
			if workspace == nil {
				workspace = Settings{}
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.folder = dir
	s.workspace = workspace
	logger.Log("Workspace folder set to %q (%d settings)", dir, len(workspace))
	return nil
}

func (s *SettingsStore) Get(key string) (string, bool) {
	if env, ok := envOverrides[key]; ok {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			return v, true
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.workspace[key]; ok && v != "" {
		return v, true
	}
	if v, ok := s.global[key]; ok && v != "" {
		return v, true
	}
	return "", false
}

func (s *SettingsStore) Set(key, value string, global bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if global {
		previous, existed := s.global[key]
		s.global[key] = value
		logger.Log("Updating global setting %s", key)
		if err := s.saveGlobal(); err != nil {
			restore(s.global, key, previous, existed)
			return err
		}
		return nil
	}

	if s.folder == "" {
		return fmt.Errorf("no workspace folder set for %s", key)
	}
	previous, existed := s.workspace[key]
	s.workspace[key] = value
	logger.Log("Updating workspace setting %s", key)
	if err := s.saveWorkspace(); err != nil {
		restore(s.workspace, key, previous, existed)
		return err
	}
	return nil
}

// restore undoes an in-memory write whose save failed.
func restore(settings Settings, key, previous string, existed bool) {
	if existed {
		settings[key] = previous
		return
	}
	delete(settings, key)
}

func (s *SettingsStore) loadGlobal() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger.LogFileOpen(s.globalPath)
	data, err := os.ReadFile(s.globalPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		logger.LogError("LOAD", s.globalPath, err)
		return err
	}

	// hand-edited settings files may carry comments and trailing commas
	if err := json.Unmarshal(jsonc.ToJSON(data), &s.global); err != nil {
		logger.LogError("UNMARSHAL", s.globalPath, err)
		return fmt.Errorf("failed to parse %s: %w", s.globalPath, err)
	}
	if s.global == nil {
		s.global = Settings{}
	}

	logger.Log("Settings loaded from %s", s.globalPath)
	return nil
}

func (s *SettingsStore) saveGlobal() error {
	data, err := json.MarshalIndent(s.global, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", s.globalPath, err)
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	logger.LogFileWrite(s.globalPath)
	if err := os.WriteFile(s.globalPath, data, 0600); err != nil {
		logger.LogError("SAVE", s.globalPath, err)
		return err
	}
	return nil
}

func (s *SettingsStore) saveWorkspace() error {
	path := filepath.Join(s.folder, workspaceFile)
	data, err := yaml.Marshal(s.workspace)
	if err != nil {
		logger.LogError("MARSHAL", path, err)
		return fmt.Errorf("failed to marshal workspace settings: %w", err)
	}

	logger.LogFileWrite(path)
	if err := os.WriteFile(path, data, 0600); err != nil {
		logger.LogError("SAVE", path, err)
		return err
	}
	return nil
}
