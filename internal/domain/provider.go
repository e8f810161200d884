package domain

import (
	"context"

	"github.com/google/uuid"
)

// Tracker is a remote work item backend.
type Tracker interface {
	GetType() ProviderType

	// Connect authenticates against the backend and returns a live session.
	Connect(ctx context.Context, creds Credentials) (Session, error)

	URLTemplate() URLTemplate
}

// Session is an authenticated handle shared read-only by every item.
type Session interface {
	ID() uuid.UUID

	// GetWorkItem returns (nil, nil) when the item does not exist.
	GetWorkItem(ctx context.Context, id int, fields []string) (*WorkItem, error)
}
