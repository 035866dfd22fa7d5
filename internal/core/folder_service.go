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

// folderService implements the FolderService interface.
type folderService struct {
	txr        db.TxRunner
	containers db.ContainerRepository
	folders    db.FolderRepository
	audit      AuditService
	logger     *zap.Logger
}

// NewFolderService creates a FolderService instance.
func NewFolderService(
	txr db.TxRunner,
	containers db.ContainerRepository,
	folders db.FolderRepository,
	audit AuditService,
	logger *zap.Logger,
) FolderService {
	return &folderService{
		txr:        txr,
		containers: containers,
		folders:    folders,
		audit:      audit,
		logger:     logger,
	}
}

// loadViewable reads the container in the unit of work and applies the view
// policy, translating a missing document into the uniform denial.
func (s *folderService) loadViewable(ctx context.Context, uow db.UnitOfWork, containerID, requesterID string) (*models.Container, error) {
	container, err := s.containers.FindByID(ctx, uow, containerID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, authz.Deny(authz.ReasonContainerNotFound)
		}
		return nil, err
	}
	if err := authz.CanView(container, requesterID); err != nil {
		return nil, err
	}
	return container, nil
}

// Create nests a new folder inside the container. The containment invariant
// is enforced here: the container must exist in the same unit of work the
// folder is written in, and the requester must pass the view policy.
func (s *folderService) Create(ctx context.Context, requesterID, containerID string, req models.CreateFolderRequest) (*models.Folder, error) {
	folder := &models.Folder{
		ContainerID: containerID,
		AuthorID:    requesterID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		if _, err := s.loadViewable(ctx, uow, containerID, requesterID); err != nil {
			return err
		}
		return s.folders.Create(ctx, uow, folder)
	})
	if err != nil {
		return nil, err
	}

	if err := s.audit.Record(ctx, models.AuditLog{
		UserID:     requesterID,
		Action:     "FOLDER_CREATE",
		TargetType: "FOLDER",
		TargetID:   folder.ID,
		Details:    map[string]interface{}{"containerId": containerID, "name": folder.Name},
	}); err != nil {
		s.logger.Warn("failed to record audit log",
			zap.String("action", "FOLDER_CREATE"),
			zap.String("folderId", folder.ID),
			zap.Error(err))
	}
	return folder, nil
}

// ListByContainer returns the container's folders if the requester passes
// the view policy.
func (s *folderService) ListByContainer(ctx context.Context, requesterID, containerID string) ([]*models.Folder, error) {
	var folders []*models.Folder
	err := s.txr.RunTransaction(ctx, func(ctx context.Context, uow db.UnitOfWork) error {
		if _, err := s.loadViewable(ctx, uow, containerID, requesterID); err != nil {
			return err
		}
		list, err := s.folders.ListByContainer(ctx, uow, containerID)
		if err != nil {
			return err
		}
		folders = list
		return nil
	})
	if err != nil {
		return nil, err
	}
	return folders, nil
}
