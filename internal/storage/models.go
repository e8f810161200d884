package storage

import "github.com/johanforsgren/vsoitems/internal/domain"

// Settings is a flat key/value document, keyed the same way in the global
// JSON file and the workspace YAML file.
type Settings map[string]string

var envOverrides = map[string]string{
	domain.SettingOrganizationURL: "VSOITEMS_ORGANIZATION_URL",
	domain.SettingAccessToken:     "VSOITEMS_ACCESS_TOKEN",
	domain.SettingTracker:         "VSOITEMS_TRACKER",
}
