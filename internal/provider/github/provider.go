package github

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/provider/common"
)

const (
	repositoryURLPrefix = "https://github.com/"
	repositoryURLSuffix = "{owner}/{repo}"
)

type issueAPI interface {
	ValidateCredentials(ctx context.Context) error
	GetWorkItem(ctx context.Context, id int, fields []string) (*domain.WorkItem, error)
}

type repository struct {
	scheme string
	host   string
	owner  string
	repo   string
}

type clientFactory func(ctx context.Context, token string, repo repository) (issueAPI, error)

// Provider tracks the issues of a single repository. The organization URL
// setting holds the repository URL.
type Provider struct {
	newClient clientFactory
}

func NewProvider() *Provider {
	return &Provider{
		newClient: func(ctx context.Context, token string, repo repository) (issueAPI, error) {
			return NewClient(ctx, token, repo.scheme, repo.host, repo.owner, repo.repo)
		},
	}
}

func (p *Provider) GetType() domain.ProviderType {
	return domain.ProviderGitHub
}

func (p *Provider) URLTemplate() domain.URLTemplate {
	return domain.URLTemplate{
		Value:          repositoryURLPrefix + repositoryURLSuffix,
		SelectionStart: len(repositoryURLPrefix),
		SelectionEnd:   -1,
	}
}

func (p *Provider) Connect(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if !creds.Complete() {
		return nil, common.ErrMissingConfig
	}

	repo, err := parseRepository(creds.OrganizationURL)
	if err != nil {
		return nil, err
	}

	client, err := p.newClient(ctx, creds.AccessToken, repo)
	if err != nil {
		return nil, err
	}

	if err := client.ValidateCredentials(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s/%s: %w", repo.owner, repo.repo, err)
	}

	return &Session{id: uuid.New(), client: client}, nil
}

func parseRepository(raw string) (repository, error) {
	raw = strings.TrimSpace(raw)
	if strings.ContainsAny(raw, "{}") {
		return repository{}, fmt.Errorf("%w: replace %s with your repository", common.ErrInvalidRepository, repositoryURLSuffix)
	}

	repo := repository{scheme: "https", host: publicHost}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		repo.scheme = u.Scheme
		repo.host = u.Host
	}

	owner, name, err := common.ParseGitHubRepository(raw)
	if err != nil {
		return repository{}, err
	}
	repo.owner = owner
	repo.repo = name
	return repo, nil
}

type Session struct {
	id     uuid.UUID
	client issueAPI
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) GetWorkItem(ctx context.Context, id int, fields []string) (*domain.WorkItem, error) {
	return s.client.GetWorkItem(ctx, id, fields)
}
