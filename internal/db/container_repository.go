package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/models"
)

const containersCollection = "containers"

// containerDoc is the persistence representation of a container. Roles are
// stored as strings here and mapped to authz.Role at this boundary only. The
// memberIds array mirrors the keys of the members map so membership can be
// queried with array-contains.
type containerDoc struct {
	OwnerID     string            `firestore:"ownerId"`
	Name        string            `firestore:"name"`
	Description string            `firestore:"description,omitempty"`
	Public      bool              `firestore:"public"`
	Members     map[string]string `firestore:"members"`
	MemberIDs   []string          `firestore:"memberIds"`
	CreatedAt   time.Time         `firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time         `firestore:"updatedAt,serverTimestamp"`
}

// firestoreContainerRepository implements ContainerRepository using Firestore.
type firestoreContainerRepository struct {
	client *firestore.Client
}

// NewFirestoreContainerRepository creates a ContainerRepository over the
// given Firestore client.
func NewFirestoreContainerRepository(client *firestore.Client) ContainerRepository {
	return &firestoreContainerRepository{client: client}
}

func containerToDoc(c *models.Container) *containerDoc {
	doc := &containerDoc{
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		Public:      c.Public,
		Members:     make(map[string]string, len(c.Members)),
		MemberIDs:   make([]string, 0, len(c.Members)),
	}
	for userID, role := range c.Members {
		doc.Members[userID] = role.String()
		doc.MemberIDs = append(doc.MemberIDs, userID)
	}
	return doc
}

func docToContainer(snap *firestore.DocumentSnapshot) (*models.Container, error) {
	var doc containerDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode container data for ID '%s': %w", snap.Ref.ID, err)
	}
	container := &models.Container{
		ID:          snap.Ref.ID,
		OwnerID:     doc.OwnerID,
		Name:        doc.Name,
		Description: doc.Description,
		Public:      doc.Public,
		Members:     make(map[string]authz.Role, len(doc.Members)),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	for userID, stored := range doc.Members {
		role, err := authz.ParseRole(stored)
		if err != nil {
			return nil, fmt.Errorf("container '%s' has malformed role for user '%s': %w", snap.Ref.ID, userID, err)
		}
		container.Members[userID] = role
	}
	return container, nil
}

// Create writes a new container document with an auto-generated ID inside the
// unit of work and sets container.ID before returning.
func (r *firestoreContainerRepository) Create(ctx context.Context, uow UnitOfWork, container *models.Container) error {
	tx, err := firestoreTx(uow)
	if err != nil {
		return err
	}
	docRef := r.client.Collection(containersCollection).NewDoc()
	container.ID = docRef.ID
	if err := tx.Create(docRef, containerToDoc(container)); err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	return nil
}

// FindByID reads a container within the unit of work. A missing document
// yields ErrNotFound.
func (r *firestoreContainerRepository) FindByID(ctx context.Context, uow UnitOfWork, containerID string) (*models.Container, error) {
	if containerID == "" {
		return nil, errors.New("containerID cannot be empty for FindByID operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return nil, err
	}
	snap, err := tx.Get(r.client.Collection(containersCollection).Doc(containerID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("container with ID '%s': %w", containerID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get container with ID '%s': %w", containerID, err)
	}
	return docToContainer(snap)
}

// ListForUser returns every container the user owns or is a member of. The
// two predicates cannot be expressed as one Firestore query, so owned and
// member results are merged and de-duplicated by document ID.
func (r *firestoreContainerRepository) ListForUser(ctx context.Context, uow UnitOfWork, userID string) ([]*models.Container, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListForUser operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return nil, err
	}

	owned := r.client.Collection(containersCollection).Where("ownerId", "==", userID)
	memberOf := r.client.Collection(containersCollection).Where("memberIds", "array-contains", userID)

	seen := make(map[string]bool)
	var containers []*models.Container
	for _, query := range []firestore.Query{owned, memberOf} {
		iter := tx.Documents(query)
		for {
			snap, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("failed to iterate containers for user '%s': %w", userID, err)
			}
			if seen[snap.Ref.ID] {
				continue
			}
			seen[snap.Ref.ID] = true
			container, err := docToContainer(snap)
			if err != nil {
				iter.Stop()
				return nil, err
			}
			containers = append(containers, container)
		}
		iter.Stop()
	}
	return containers, nil
}

// AddMember records a new (userID, role) pair on the container. The service
// has already read the container in the same unit of work and verified the
// user is absent; the transactional update keeps both the role map and the
// memberIds mirror consistent.
func (r *firestoreContainerRepository) AddMember(ctx context.Context, uow UnitOfWork, containerID, userID string, role authz.Role) error {
	tx, err := firestoreTx(uow)
	if err != nil {
		return err
	}
	docRef := r.client.Collection(containersCollection).Doc(containerID)
	updates := []firestore.Update{
		{FieldPath: firestore.FieldPath{"members", userID}, Value: role.String()},
		{Path: "memberIds", Value: firestore.ArrayUnion(userID)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if err := tx.Update(docRef, updates); err != nil {
		return fmt.Errorf("failed to add member '%s' to container '%s': %w", userID, containerID, err)
	}
	return nil
}

// UpdateMemberRole overwrites the stored role of an existing member.
func (r *firestoreContainerRepository) UpdateMemberRole(ctx context.Context, uow UnitOfWork, containerID, userID string, role authz.Role) error {
	tx, err := firestoreTx(uow)
	if err != nil {
		return err
	}
	docRef := r.client.Collection(containersCollection).Doc(containerID)
	updates := []firestore.Update{
		{FieldPath: firestore.FieldPath{"members", userID}, Value: role.String()},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	}
	if err := tx.Update(docRef, updates); err != nil {
		return fmt.Errorf("failed to update role of member '%s' in container '%s': %w", userID, containerID, err)
	}
	return nil
}

// Delete removes the container document within the unit of work. Dependent
// folder documents are the caller's responsibility (see FolderRepository).
func (r *firestoreContainerRepository) Delete(ctx context.Context, uow UnitOfWork, containerID string) error {
	if containerID == "" {
		return errors.New("containerID cannot be empty for Delete operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return err
	}
	if err := tx.Delete(r.client.Collection(containersCollection).Doc(containerID)); err != nil {
		return fmt.Errorf("failed to delete container with ID '%s': %w", containerID, err)
	}
	return nil
}
