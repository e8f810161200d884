package common

import (
	"errors"
	"testing"
)

func TestNormalizeOrganizationURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain organization URL",
			raw:  "https://dev.azure.com/contoso",
			want: "https://dev.azure.com/contoso",
		},
		{
			name: "trailing slash and whitespace",
			raw:  "  https://dev.azure.com/contoso/ ",
			want: "https://dev.azure.com/contoso",
		},
		{
			name: "legacy visualstudio host",
			raw:  "https://contoso.visualstudio.com",
			want: "https://contoso.visualstudio.com",
		},
		{
			name:    "template not filled in",
			raw:     "https://dev.azure.com/{organization}",
			wantErr: true,
		},
		{
			name:    "missing scheme",
			raw:     "dev.azure.com/contoso",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeOrganizationURL(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NormalizeOrganizationURL(%q) expected error, got %q", tt.raw, got)
				}
				if !errors.Is(err, ErrInvalidOrganizationURL) {
					t.Errorf("expected ErrInvalidOrganizationURL, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeOrganizationURL(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeOrganizationURL(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseGitHubRepository(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantOwner string
		wantRepo  string
		wantErr   bool
	}{
		{
			name:      "owner/repo",
			raw:       "octo/tracker",
			wantOwner: "octo",
			wantRepo:  "tracker",
		},
		{
			name:      "repository URL",
			raw:       "https://github.com/octo/tracker",
			wantOwner: "octo",
			wantRepo:  "tracker",
		},
		{
			name:      "clone URL with .git suffix",
			raw:       "https://github.com/octo/tracker.git",
			wantOwner: "octo",
			wantRepo:  "tracker",
		},
		{
			name:    "owner only",
			raw:     "https://github.com/octo",
			wantErr: true,
		},
		{
			name:    "too many parts",
			raw:     "octo/tracker/issues",
			wantErr: true,
		},
		{
			name:    "empty owner",
			raw:     "/tracker",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, repo, err := ParseGitHubRepository(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRepository) {
					t.Fatalf("ParseGitHubRepository(%q) error = %v, want ErrInvalidRepository", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGitHubRepository(%q) unexpected error: %v", tt.raw, err)
			}
			if owner != tt.wantOwner || repo != tt.wantRepo {
				t.Errorf("ParseGitHubRepository(%q) = (%q, %q), want (%q, %q)", tt.raw, owner, repo, tt.wantOwner, tt.wantRepo)
			}
		})
	}
}

func TestWorkItemWebURL(t *testing.T) {
	got := WorkItemWebURL("https://dev.azure.com/contoso/", 42)
	want := "https://dev.azure.com/contoso/_workitems/edit/42"
	if got != want {
		t.Errorf("WorkItemWebURL() = %q, want %q", got, want)
	}
}
