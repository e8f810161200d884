package azuredevops

import (
	"context"

	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/location"
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/workitemtracking"
)

// WorkItemClientInterface defines the subset of workitemtracking.Client we use
// so tests can substitute it.
type WorkItemClientInterface interface {
	GetWorkItem(ctx context.Context, args workitemtracking.GetWorkItemArgs) (*workitemtracking.WorkItem, error)
}

// LocationClientInterface defines the subset of location.Client we use.
type LocationClientInterface interface {
	GetConnectionData(ctx context.Context, args location.GetConnectionDataArgs) (*location.ConnectionData, error)
}
