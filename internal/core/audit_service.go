package core

import (
	"context"
	"fmt"
	"time"

	"github.com/riquemorozine/containers-api/internal/db"
	"github.com/riquemorozine/containers-api/internal/models"
)

// auditService implements the AuditService interface over an AuditRepository.
type auditService struct {
	repo db.AuditRepository
}

// NewAuditService creates an AuditService instance.
func NewAuditService(repo db.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Record appends an audit trail entry, stamping the time if the caller left
// it zero.
func (s *auditService) Record(ctx context.Context, entry models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit log: %w", err)
	}
	return nil
}
