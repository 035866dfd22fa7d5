package core

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/db"
	"github.com/riquemorozine/containers-api/internal/models"
)

// containerService implements the ContainerService interface.
type containerService struct {
	txr        db.TxRunner
	containers db.ContainerRepository
	users      db.UserRepository
	folders    db.FolderRepository
	audit      AuditService
	events     EventPublisher
	logger     *zap.Logger
}

// NewContainerService creates a ContainerService instance.
func NewContainerService(
	txr db.TxRunner,
	containers db.ContainerRepository,
	users db.UserRepository,
	folders db.FolderRepository,
	audit AuditService,
	events EventPublisher,
	logger *zap.Logger,
) ContainerService {
	return &containerService{
		txr:        txr,
		containers: containers,
		users:      users,
		folders:    folders,
		audit:      audit,
		events:     events,
		logger:     logger,
	}
}

// recordAudit writes an audit entry without failing the main operation.
func (s *containerService) recordAudit(ctx context.Context, entry models.AuditLog) {
	if err := s.audit.Record(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log",
			zap.String("action", entry.Action),
			zap.String("targetId", entry.TargetID),
			zap.Error(err))
	}
}

// publish broadcasts a domain event without failing the main operation.
func (s *containerService) publish(ctx context.Context, event models.DomainEvent) {
	event.OccurredAt = time.Now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish domain event",
			zap.String("event", event.Name),
			zap.String("containerId", event.ContainerID),
			zap.Error(err))
	}
}

// Create persists a new container owned by the requester with an empty
// member table. The requester's identity was already established by the
// authentication layer; no further pre-check applies.
func (s *containerService) Create(ctx context.Context, requesterID string, req models.CreateContainerRequest) (*models.Container, error) {
	container := &models.Container{
		OwnerID:     requesterID,
		Name:        req.Name,
		Description: req.Description,
		Public:      req.Public,
		Members:     make(map[string]authz.Role),
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		return s.containers.Create(ctx, uow, container)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, models.AuditLog{
		UserID:     requesterID,
		Action:     "CONTAINER_CREATE",
		TargetType: "CONTAINER",
		TargetID:   container.ID,
		Details:    map[string]interface{}{"name": container.Name, "public": container.Public},
	})
	s.publish(ctx, models.DomainEvent{
		Name:        models.EventContainerCreated,
		ContainerID: container.ID,
		ActorID:     requesterID,
	})
	return container, nil
}

// ListForUser returns every container the requester owns or is a member of.
// An unresolvable requester identity is a denial, not an empty list.
func (s *containerService) ListForUser(ctx context.Context, requesterID string) ([]*models.Container, error) {
	var containers []*models.Container
	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		if _, err := s.users.FindByID(ctx, uow, requesterID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return authz.Deny(authz.ReasonUserNotFound)
			}
			return err
		}
		list, err := s.containers.ListForUser(ctx, uow, requesterID)
		if err != nil {
			return err
		}
		containers = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return containers, nil
}

// GetByID returns the full container record, member table included, if the
// requester passes the view policy.
func (s *containerService) GetByID(ctx context.Context, containerID, requesterID string) (*models.Container, error) {
	var container *models.Container
	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		found, err := s.containers.FindByID(ctx, uow, containerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return authz.Deny(authz.ReasonContainerNotFound)
			}
			return err
		}
		if err := authz.CanView(found, requesterID); err != nil {
			return err
		}
		container = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return container, nil
}

// AddUser adds targetUserID to the container's member table. The identity
// lookup, the container read and the membership write share one unit of work,
// so two racing adds of the same user resolve to one success and one
// already-member denial.
func (s *containerService) AddUser(ctx context.Context, containerID, targetUserID string, role *authz.Role) error {
	resolved := authz.DefaultRole
	if role != nil {
		resolved = *role
	}

	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		if _, err := s.users.FindByID(ctx, uow, targetUserID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return authz.Deny(authz.ReasonUserNotFound)
			}
			return err
		}
		container, err := s.containers.FindByID(ctx, uow, containerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return authz.Deny(authz.ReasonContainerNotFound)
			}
			return err
		}
		if err := authz.CanAddMember(container, targetUserID); err != nil {
			return err
		}
		return s.containers.AddMember(ctx, uow, containerID, targetUserID, resolved)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, models.AuditLog{
		UserID:     targetUserID,
		Action:     "MEMBER_ADD",
		TargetType: "CONTAINER",
		TargetID:   containerID,
		Details:    map[string]interface{}{"role": resolved.String()},
	})
	s.publish(ctx, models.DomainEvent{
		Name:        models.EventMemberAdded,
		ContainerID: containerID,
		TargetID:    targetUserID,
		Role:        resolved.String(),
	})
	return nil
}

// UpdateUserRole overwrites the role on an existing membership pair. The
// owner reference is never touched by this operation.
func (s *containerService) UpdateUserRole(ctx context.Context, containerID, targetUserID string, role authz.Role) error {
	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		container, err := s.containers.FindByID(ctx, uow, containerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return authz.Deny(authz.ReasonContainerNotFound)
			}
			return err
		}
		if err := authz.CanUpdateRole(container, targetUserID); err != nil {
			return err
		}
		return s.containers.UpdateMemberRole(ctx, uow, containerID, targetUserID, role)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, models.AuditLog{
		UserID:     targetUserID,
		Action:     "MEMBER_ROLE_UPDATE",
		TargetType: "CONTAINER",
		TargetID:   containerID,
		Details:    map[string]interface{}{"role": role.String()},
	})
	s.publish(ctx, models.DomainEvent{
		Name:        models.EventMemberRoleUpdated,
		ContainerID: containerID,
		TargetID:    targetUserID,
		Role:        role.String(),
	})
	return nil
}

// Delete removes the container and cascades to its folders within the same
// unit of work. Only the owner may delete, regardless of role tier.
func (s *containerService) Delete(ctx context.Context, containerID, requesterID string) error {
	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		container, err := s.containers.FindByID(ctx, uow, containerID)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				return authz.Deny(authz.ReasonContainerNotFound)
			}
			return err
		}
		if err := authz.CanDelete(container, requesterID); err != nil {
			return err
		}
		// Folder reads happen inside DeleteByContainer, so it must run
		// before the container delete issues its write.
		if err := s.folders.DeleteByContainer(ctx, uow, containerID); err != nil {
			return err
		}
		return s.containers.Delete(ctx, uow, containerID)
	})
	if err != nil {
		return err
	}

	s.recordAudit(ctx, models.AuditLog{
		UserID:     requesterID,
		Action:     "CONTAINER_DELETE",
		TargetType: "CONTAINER",
		TargetID:   containerID,
	})
	s.publish(ctx, models.DomainEvent{
		Name:        models.EventContainerDeleted,
		ContainerID: containerID,
		ActorID:     requesterID,
	})
	return nil
}
