package domain

// SettingsStore persists the string settings the panel needs.
type SettingsStore interface {
	Get(key string) (string, bool)

	// Set writes to the global settings file when global is true, otherwise
	// to the current workspace folder.
	Set(key, value string, global bool) error
}
