package db

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/riquemorozine/containers-api/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements UserRepository using Firestore. The
// Firebase Auth UID is the document ID.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a UserRepository over the given
// Firestore client.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	return &firestoreUserRepository{client: client}
}

func (r *firestoreUserRepository) userFromSnap(snap *firestore.DocumentSnapshot) (*models.User, error) {
	var user models.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user data for ID '%s': %w", snap.Ref.ID, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

// FindByID resolves a user inside the unit of work. A missing document yields
// ErrNotFound.
func (r *firestoreUserRepository) FindByID(ctx context.Context, uow UnitOfWork, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for FindByID operation")
	}
	tx, err := firestoreTx(uow)
	if err != nil {
		return nil, err
	}
	snap, err := tx.Get(r.client.Collection(usersCollection).Doc(userID))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	return r.userFromSnap(snap)
}

// GetByID resolves a user outside any unit of work, for profile reads.
func (r *firestoreUserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for GetByID operation")
	}
	snap, err := r.client.Collection(usersCollection).Doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user with ID '%s': %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user with ID '%s': %w", userID, err)
	}
	return r.userFromSnap(snap)
}

// Upsert writes the user profile, creating the document on first sight and
// merging on subsequent calls. Timestamps are handled by serverTimestamp tags.
func (r *firestoreUserRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		return errors.New("user ID cannot be empty for Upsert operation")
	}
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Set(ctx, user, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to upsert user with ID '%s': %w", user.ID, err)
	}
	return nil
}
