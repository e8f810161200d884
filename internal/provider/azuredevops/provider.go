package azuredevops

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/provider/common"
)

const (
	organizationURLPrefix = "https://dev.azure.com/"
	organizationURLSuffix = "{organization}"
)

type workItemAPI interface {
	ValidateCredentials(ctx context.Context) error
	GetWorkItem(ctx context.Context, id int, fields []string) (*domain.WorkItem, error)
}

type clientFactory func(ctx context.Context, organizationURL, token string) (workItemAPI, error)

type Provider struct {
	newClient clientFactory
}

func NewProvider() *Provider {
	return &Provider{
		newClient: func(ctx context.Context, organizationURL, token string) (workItemAPI, error) {
			return NewClient(ctx, organizationURL, token)
		},
	}
}

func (p *Provider) GetType() domain.ProviderType {
	return domain.ProviderAzureDevOps
}

func (p *Provider) URLTemplate() domain.URLTemplate {
	return domain.URLTemplate{
		Value:          organizationURLPrefix + organizationURLSuffix,
		SelectionStart: len(organizationURLPrefix),
		SelectionEnd:   -1,
	}
}

func (p *Provider) Connect(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if !creds.Complete() {
		return nil, common.ErrMissingConfig
	}

	organizationURL, err := common.NormalizeOrganizationURL(creds.OrganizationURL)
	if err != nil {
		return nil, err
	}

	client, err := p.newClient(ctx, organizationURL, creds.AccessToken)
	if err != nil {
		return nil, err
	}

	if err := client.ValidateCredentials(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", organizationURL, err)
	}

	return &Session{id: uuid.New(), client: client}, nil
}

type Session struct {
	id     uuid.UUID
	client workItemAPI
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) GetWorkItem(ctx context.Context, id int, fields []string) (*domain.WorkItem, error) {
	return s.client.GetWorkItem(ctx, id, fields)
}
