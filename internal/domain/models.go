package domain

type ProviderType string

const (
	ProviderAzureDevOps ProviderType = "azuredevops"
	ProviderGitHub      ProviderType = "github"
)

const (
	SettingOrganizationURL = "vsoitems.OrganizationUrl"
	SettingAccessToken     = "vsoitems.AzureAccessToken"
	SettingTracker         = "vsoitems.Tracker"
)

const (
	FieldTitle = "System.Title"
	FieldType  = "System.WorkItemType"
	FieldState = "System.State"
)

// DisplayFields are the only work item fields the panel ever reads.
var DisplayFields = []string{FieldTitle, FieldType, FieldState}

type Credentials struct {
	OrganizationURL string
	AccessToken     string
}

func (c Credentials) Complete() bool {
	return c.OrganizationURL != "" && c.AccessToken != ""
}

type WorkItem struct {
	ID    int
	Title string
	Type  string
	State string
	Link  string
}

// URLTemplate seeds the organization URL prompt. The selection marks the
// part of Value the user is expected to overwrite; End < 0 means "to the end".
type URLTemplate struct {
	Value          string
	SelectionStart int
	SelectionEnd   int
}
