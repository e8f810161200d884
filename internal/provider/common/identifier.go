package common

import (
	"fmt"
	"net/url"
	"strings"
)

const organizationPlaceholder = "{organization}"

// NormalizeOrganizationURL validates an organization URL and strips any
// trailing slash so it can be joined with API paths.
func NormalizeOrganizationURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidOrganizationURL)
	}
	if strings.Contains(raw, organizationPlaceholder) {
		return "", fmt.Errorf("%w: replace %s with your organization name", ErrInvalidOrganizationURL, organizationPlaceholder)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidOrganizationURL, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return "", fmt.Errorf("%w: expected http or https scheme, got '%s'", ErrInvalidOrganizationURL, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host in '%s'", ErrInvalidOrganizationURL, raw)
	}

	return strings.TrimRight(raw, "/"), nil
}

// ParseGitHubRepository accepts "owner/repo" or a github.com repository URL.
func ParseGitHubRepository(raw string) (owner, repo string, err error) {
	raw = strings.TrimSpace(raw)
	if u, parseErr := url.Parse(raw); parseErr == nil && u.Host != "" {
		raw = u.Path
	}
	raw = strings.Trim(raw, "/")
	raw = strings.TrimSuffix(raw, ".git")

	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: expected 'owner/repo', got '%s'", ErrInvalidRepository, raw)
	}

	owner, repo = parts[0], parts[1]
	if owner == "" || repo == "" {
		return "", "", fmt.Errorf("%w: owner and repo must be non-empty", ErrInvalidRepository)
	}
	return owner, repo, nil
}

// WorkItemWebURL is the browser URL for a work item when the API response
// carries no html link.
func WorkItemWebURL(orgURL string, id int) string {
	return fmt.Sprintf("%s/_workitems/edit/%d", strings.TrimRight(orgURL, "/"), id)
}
