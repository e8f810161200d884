package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/johanforsgren/vsoitems/internal/domain"
)

func TestSettingsFilePath(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}

	expectedPath := filepath.Join(tmpDir, ".vsoitems", "settings.json")
	if store.GlobalPath() != expectedPath {
		t.Errorf("Expected settings path %s, got %s", expectedPath, store.GlobalPath())
	}
}

func TestSetGlobalPersistsAcrossReload(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}

	if err := store.Set(domain.SettingOrganizationURL, "https://dev.azure.com/contoso", true); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}

	reloaded, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to reload settings store: %v", err)
	}

	got, ok := reloaded.Get(domain.SettingOrganizationURL)
	if !ok || got != "https://dev.azure.com/contoso" {
		t.Errorf("Expected persisted organization URL, got %q (ok=%v)", got, ok)
	}

	info, err := os.Stat(reloaded.GlobalPath())
	if err != nil {
		t.Fatalf("Failed to stat settings file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected settings file mode 0600, got %v", info.Mode().Perm())
	}
}

func TestGlobalSettingsAllowComments(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	dir := filepath.Join(tmpDir, configDir)
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	content := `{
  // copied from the old editor settings
  "vsoitems.OrganizationUrl": "https://dev.azure.com/contoso", /* org */
}`
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to load commented settings: %v", err)
	}
	if got, _ := store.Get(domain.SettingOrganizationURL); got != "https://dev.azure.com/contoso" {
		t.Errorf("Expected organization URL from commented file, got %q", got)
	}
}

func TestGetMissingSetting(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}

	if v, ok := store.Get(domain.SettingAccessToken); ok {
		t.Errorf("Expected missing access token, got %q", v)
	}
}

func TestEmptyValueIsAbsent(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}

	if err := store.Set(domain.SettingAccessToken, "", true); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}
	if _, ok := store.Get(domain.SettingAccessToken); ok {
		t.Error("Expected empty setting to read as absent")
	}
}

func TestWorkspaceOverridesGlobal(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	folder := t.TempDir()
	yamlContent := "vsoitems.OrganizationUrl: https://dev.azure.com/workspace-org\n"
	if err := os.WriteFile(filepath.Join(folder, ".vsoitems.yaml"), []byte(yamlContent), 0600); err != nil {
		t.Fatalf("Failed to write workspace settings: %v", err)
	}

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}
	if err := store.Set(domain.SettingOrganizationURL, "https://dev.azure.com/global-org", true); err != nil {
		t.Fatalf("Failed to set global setting: %v", err)
	}

	if got, _ := store.Get(domain.SettingOrganizationURL); got != "https://dev.azure.com/global-org" {
		t.Errorf("Expected global value before folder is set, got %q", got)
	}

	if err := store.SetFolder(folder); err != nil {
		t.Fatalf("Failed to set folder: %v", err)
	}

	if got, _ := store.Get(domain.SettingOrganizationURL); got != "https://dev.azure.com/workspace-org" {
		t.Errorf("Expected workspace value to win, got %q", got)
	}

	if err := store.SetFolder(""); err != nil {
		t.Fatalf("Failed to clear folder: %v", err)
	}
	if got, _ := store.Get(domain.SettingOrganizationURL); got != "https://dev.azure.com/global-org" {
		t.Errorf("Expected global value after clearing folder, got %q", got)
	}
}

func TestEnvironmentOverridesFiles(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)
	t.Setenv("VSOITEMS_ACCESS_TOKEN", "env-token")

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}
	if err := store.Set(domain.SettingAccessToken, "file-token", true); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}

	if got, _ := store.Get(domain.SettingAccessToken); got != "env-token" {
		t.Errorf("Expected environment value, got %q", got)
	}
}

func TestSetWorkspaceWritesYAML(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	folder := t.TempDir()
	store, err := NewSettingsStore(folder)
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}

	if err := store.Set(domain.SettingTracker, "github", false); err != nil {
		t.Fatalf("Failed to set workspace setting: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(folder, ".vsoitems.yaml"))
	if err != nil {
		t.Fatalf("Failed to read workspace settings: %v", err)
	}
	if !strings.Contains(string(data), "vsoitems.Tracker: github") {
		t.Errorf("Expected tracker in workspace YAML, got:\n%s", data)
	}

	if _, err := os.Stat(store.GlobalPath()); !os.IsNotExist(err) {
		t.Error("Workspace write should not create the global settings file")
	}
}

func TestSetGlobalFailureKeepsPreviousValue(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}
	if err := store.Set(domain.SettingTracker, "github", true); err != nil {
		t.Fatalf("Failed to set setting: %v", err)
	}

	// a directory in place of the settings file makes every save fail
	if err := os.Remove(store.GlobalPath()); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(store.GlobalPath(), 0700); err != nil {
		t.Fatal(err)
	}

	if err := store.Set(domain.SettingTracker, "azuredevops", true); err == nil {
		t.Fatal("Expected error saving global setting")
	}
	if got, _ := store.Get(domain.SettingTracker); got != "github" {
		t.Errorf("Expected unsaved value to be rolled back, got %q", got)
	}

	if err := store.Set(domain.SettingAccessToken, "secret", true); err == nil {
		t.Fatal("Expected error saving global setting")
	}
	if got, ok := store.Get(domain.SettingAccessToken); ok {
		t.Errorf("Expected unsaved new key to be absent, got %q", got)
	}
}

func TestSetWorkspaceFailureKeepsPreviousValue(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	folder := t.TempDir()
	store, err := NewSettingsStore(folder)
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}
	if err := store.Set(domain.SettingTracker, "github", false); err != nil {
		t.Fatalf("Failed to set workspace setting: %v", err)
	}

	path := filepath.Join(folder, workspaceFile)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(path, 0700); err != nil {
		t.Fatal(err)
	}

	if err := store.Set(domain.SettingTracker, "azuredevops", false); err == nil {
		t.Fatal("Expected error saving workspace setting")
	}
	if got, _ := store.Get(domain.SettingTracker); got != "github" {
		t.Errorf("Expected unsaved value to be rolled back, got %q", got)
	}
}

func TestSetWorkspaceWithoutFolder(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	store, err := NewSettingsStore("")
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}

	if err := store.Set(domain.SettingTracker, "github", false); err == nil {
		t.Error("Expected error writing workspace setting without a folder")
	}
}

func TestInvalidWorkspaceYAML(t *testing.T) {
	tmpDir := t.TempDir()
	oldHome := os.Getenv("HOME")
	os.Setenv("HOME", tmpDir)
	defer os.Setenv("HOME", oldHome)

	folder := t.TempDir()
	if err := os.WriteFile(filepath.Join(folder, ".vsoitems.yaml"), []byte("- not\n- a map\n"), 0600); err != nil {
		t.Fatalf("Failed to write workspace settings: %v", err)
	}

	if _, err := NewSettingsStore(folder); err == nil {
		t.Error("Expected error for a workspace file that is not a mapping")
	}
}
