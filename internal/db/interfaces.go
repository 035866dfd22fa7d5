package db

import (
	"context"
	"errors"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/models"
)

// ErrNotFound is returned when a looked-up document does not exist. Services
// translate it into an access denial at their boundary.
var ErrNotFound = errors.New("document not found")

// UserRepository is the identity lookup: it resolves users by id. FindByID
// participates in a unit of work so existence checks share the snapshot of
// the container reads they guard.
type UserRepository interface {
	FindByID(ctx context.Context, uow UnitOfWork, userID string) (*models.User, error)
	GetByID(ctx context.Context, userID string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// ContainerRepository is the container store. All mutating methods and
// FindByID take the unit-of-work handle; ListForUser runs its queries inside
// the same snapshot as well.
type ContainerRepository interface {
	Create(ctx context.Context, uow UnitOfWork, container *models.Container) error
	FindByID(ctx context.Context, uow UnitOfWork, containerID string) (*models.Container, error)
	ListForUser(ctx context.Context, uow UnitOfWork, userID string) ([]*models.Container, error)
	AddMember(ctx context.Context, uow UnitOfWork, containerID, userID string, role authz.Role) error
	UpdateMemberRole(ctx context.Context, uow UnitOfWork, containerID, userID string, role authz.Role) error
	Delete(ctx context.Context, uow UnitOfWork, containerID string) error
}

// FolderRepository persists folders nested inside containers.
type FolderRepository interface {
	Create(ctx context.Context, uow UnitOfWork, folder *models.Folder) error
	ListByContainer(ctx context.Context, uow UnitOfWork, containerID string) ([]*models.Folder, error)
	// DeleteByContainer removes every folder of the container within the
	// unit of work; the container delete cascades through it.
	DeleteByContainer(ctx context.Context, uow UnitOfWork, containerID string) error
}

// AuditRepository appends audit trail entries. Audit writes are best effort
// and deliberately outside any unit of work.
type AuditRepository interface {
	Create(ctx context.Context, entry models.AuditLog) error
}
