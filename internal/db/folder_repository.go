package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/riquemorozine/containers-api/internal/models"
)

const foldersCollection = "folders"

// firestoreFolderRepository implements FolderRepository using Firestore.
type firestoreFolderRepository struct {
	client *firestore.Client
}

// NewFirestoreFolderRepository creates a FolderRepository over the given
// Firestore client.
func NewFirestoreFolderRepository(client *firestore.Client) FolderRepository {
	return &firestoreFolderRepository{client: client}
}

// Create writes a new folder document with an auto-generated ID inside the
// unit of work and sets folder.ID before returning.
func (r *firestoreFolderRepository) Create(ctx context.Context, uow UnitOfWork, folder *models.Folder) error {
	if folder.ContainerID == "" {
		return errors.New("folder containerID cannot be empty for Create operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return err
	}
	docRef := r.client.Collection(foldersCollection).NewDoc()
	folder.ID = docRef.ID
	if err := tx.Create(docRef, folder); err != nil {
		return fmt.Errorf("failed to create folder in container '%s': %w", folder.ContainerID, err)
	}
	return nil
}

// ListByContainer returns the folders nested in the container, read within
// the unit of work.
func (r *firestoreFolderRepository) ListByContainer(ctx context.Context, uow UnitOfWork, containerID string) ([]*models.Folder, error) {
	if containerID == "" {
		return nil, errors.New("containerID cannot be empty for ListByContainer operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return nil, err
	}
	query := r.client.Collection(foldersCollection).Where("containerId", "==", containerID)
	iter := tx.Documents(query)
	defer iter.Stop()

	var folders []*models.Folder
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate folders for container '%s': %w", containerID, err)
		}
		var folder models.Folder
		if err := snap.DataTo(&folder); err != nil {
			return nil, fmt.Errorf("failed to decode folder data for ID '%s': %w", snap.Ref.ID, err)
		}
		folder.ID = snap.Ref.ID
		folders = append(folders, &folder)
	}
	return folders, nil
}

// DeleteByContainer removes every folder of the container inside the unit of
// work. The query is a transactional read, so it must run before the caller
// issues any writes in the same transaction.
func (r *firestoreFolderRepository) DeleteByContainer(ctx context.Context, uow UnitOfWork, containerID string) error {
	if containerID == "" {
		return errors.New("containerID cannot be empty for DeleteByContainer operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return err
	}
	query := r.client.Collection(foldersCollection).Where("containerId", "==", containerID)
	iter := tx.Documents(query)
	defer iter.Stop()

	var refs []*firestore.DocumentRef
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to iterate folders for deletion (container '%s'): %w", containerID, err)
		}
		refs = append(refs, snap.Ref)
	}
	for _, ref := range refs {
		if err := tx.Delete(ref); err != nil {
			return fmt.Errorf("failed to delete folder '%s' of container '%s': %w", ref.ID, containerID, err)
		}
	}
	return nil
}
