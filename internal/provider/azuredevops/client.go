package azuredevops

import (
	"context"
	"errors"
	"fmt"

	"github.com/johanforsgren/vsoitems/internal/domain"
	"github.com/johanforsgren/vsoitems/internal/logger"
	"github.com/johanforsgren/vsoitems/internal/provider/common"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/location"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

var (
	ErrNotAuthenticated = errors.New("connection is not authenticated")
	ErrNoFields         = errors.New("work item returned no fields")
)

type Client struct {
	organizationURL string
	workItemClient  WorkItemClientInterface
	locationClient  LocationClientInterface
}

func NewClient(ctx context.Context, organizationURL string, token string) (*Client, error) {
	connection := azuredevops.NewPatConnection(organizationURL, token)

	workItemClient, err := workitemtracking.NewClient(ctx, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to create work item tracking client: %w", err)
	}

	return &Client{
		organizationURL: organizationURL,
		workItemClient:  workItemClient,
		locationClient:  location.NewClient(ctx, connection),
	}, nil
}

// ValidateCredentials asks the service who we are; anything short of an
// authenticated identity is a failure.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	data, err := c.locationClient.GetConnectionData(ctx, location.GetConnectionDataArgs{})
	if err != nil {
		return fmt.Errorf("failed to get connection data: %w", err)
	}
	if data == nil || data.AuthenticatedUser == nil || data.AuthenticatedUser.Id == nil {
		return ErrNotAuthenticated
	}

	logger.Log("Authenticated to %s as %s (%s)",
		c.organizationURL,
		common.GetString(data.AuthenticatedUser.ProviderDisplayName),
		common.GetUUIDString(data.AuthenticatedUser.Id))
	return nil
}

// GetWorkItem fetches id projected onto fields. A missing item is (nil, nil).
func (c *Client) GetWorkItem(ctx context.Context, id int, fields []string) (*domain.WorkItem, error) {
	projection := append([]string(nil), fields...)
	workItem, err := c.workItemClient.GetWorkItem(ctx, workitemtracking.GetWorkItemArgs{
		Id:     &id,
		Fields: &projection,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get work item %d: %w", id, err)
	}
	if workItem == nil {
		return nil, nil
	}
	if workItem.Fields == nil {
		return nil, fmt.Errorf("work item %d: %w", id, ErrNoFields)
	}

	return convertWorkItem(workItem, id, c.organizationURL), nil
}
