package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/riquemorozine/containers-api/internal/models"
)

const auditLogsCollection = "audit_logs"

// firestoreAuditRepository implements AuditRepository using Firestore.
type firestoreAuditRepository struct {
	client *firestore.Client
}

// NewFirestoreAuditRepository creates an AuditRepository over the given
// Firestore client.
func NewFirestoreAuditRepository(client *firestore.Client) AuditRepository {
	return &firestoreAuditRepository{client: client}
}

// Create appends an audit log entry with an auto-generated ID.
func (r *firestoreAuditRepository) Create(ctx context.Context, entry models.AuditLog) error {
	docRef := r.client.Collection(auditLogsCollection).NewDoc()
	entry.ID = docRef.ID
	if _, err := docRef.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create audit log entry: %w", err)
	}
	return nil
}
