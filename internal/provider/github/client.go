package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/logger"
	"golang.org/x/oauth2"
)

const (
	publicHost = "github.com"

	TypeIssue       = "Issue"
	TypePullRequest = "Pull Request"
)

var ErrNotAuthenticated = errors.New("token did not resolve to a user")

type Client struct {
	client *github.Client
	owner  string
	repo   string
}

// NewClient builds an authenticated client for owner/repo. host is the web
// host the repository lives on; anything but github.com is treated as an
// Enterprise Server instance.
func NewClient(ctx context.Context, token, scheme, host, owner, repo string) (*Client, error) {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	if host != "" && !strings.EqualFold(host, publicHost) {
		base := fmt.Sprintf("%s://%s/", scheme, host)
		enterprise, err := client.WithEnterpriseURLs(base, base)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise endpoint %s: %w", base, err)
		}
		client = enterprise
	}

	return &Client{
		client: client,
		owner:  owner,
		repo:   repo,
	}, nil
}

func (c *Client) ValidateCredentials(ctx context.Context) error {
	user, _, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.GetLogin() == "" {
		return ErrNotAuthenticated
	}

	logger.Log("Authenticated to %s/%s as %s", c.owner, c.repo, user.GetLogin())
	return nil
}

// GetWorkItem resolves an issue or pull request number. Issues have a fixed
// shape so the field projection is not used. A missing number is (nil, nil).
func (c *Client) GetWorkItem(ctx context.Context, id int, _ []string) (*domain.WorkItem, error) {
	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get issue %d: %w", id, err)
	}
	if issue == nil {
		return nil, nil
	}

	return convertIssue(issue, id), nil
}

func convertIssue(issue *github.Issue, requestedID int) *domain.WorkItem {
	itemType := TypeIssue
	if issue.IsPullRequest() {
		itemType = TypePullRequest
	}

	id := issue.GetNumber()
	if id == 0 {
		id = requestedID
	}

	return &domain.WorkItem{
		ID:    id,
		Title: issue.GetTitle(),
		Type:  itemType,
		State: issue.GetState(),
		Link:  issue.GetHTMLURL(),
	}
}

func isNotFound(err error) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}
	switch errResp.Response.StatusCode {
	case http.StatusNotFound, http.StatusGone:
		return true
	}
	return false
}
