package core

import (
	"context"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/models"
)

// ContainerService orchestrates the container lifecycle. Each method is one
// atomic unit of work: load referenced entities, consult the membership
// policy, then mutate or read the store. Denials surface as
// *authz.AccessError; anything else is an infrastructure failure.
type ContainerService interface {
	Create(ctx context.Context, requesterID string, req models.CreateContainerRequest) (*models.Container, error)
	ListForUser(ctx context.Context, requesterID string) ([]*models.Container, error)
	GetByID(ctx context.Context, containerID, requesterID string) (*models.Container, error)
	// AddUser adds targetUserID as a member. A nil role resolves to the
	// default tier. Caller privilege (Admin) is enforced by the role guard
	// before this call and is not re-checked here.
	AddUser(ctx context.Context, containerID, targetUserID string, role *authz.Role) error
	// UpdateUserRole overwrites the role of an existing member. Caller
	// privilege (Admin or Moderator) is enforced by the role guard.
	UpdateUserRole(ctx context.Context, containerID, targetUserID string, role authz.Role) error
	Delete(ctx context.Context, containerID, requesterID string) error
}

// FolderService handles folders in their containment relationship to a
// container: creation and listing require the container to exist and the
// caller to pass the view policy.
type FolderService interface {
	Create(ctx context.Context, requesterID, containerID string, req models.CreateFolderRequest) (*models.Folder, error)
	ListByContainer(ctx context.Context, requesterID, containerID string) ([]*models.Folder, error)
}

// UserService manages user profiles backing the identity lookup.
type UserService interface {
	// GetOrCreate upserts the caller's profile from verified token claims
	// and reports whether it already existed.
	GetOrCreate(ctx context.Context, userID, email, displayName string) (*models.User, bool, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
}

// AuditService records audit trail entries.
type AuditService interface {
	Record(ctx context.Context, entry models.AuditLog) error
}

// EventPublisher broadcasts lifecycle and membership events after successful
// mutations. Publishing is best effort and never fails the operation.
type EventPublisher interface {
	Publish(ctx context.Context, event models.DomainEvent) error
}
