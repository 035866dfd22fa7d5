package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/riquemorozine/containers-api/internal/authz"
)

// MembershipLookup serves the request-level role guard with membership reads
// outside any unit of work. Guard reads may be slightly stale; the lifecycle
// service re-reads container state inside its own transaction, so the
// correctness invariants never depend on this path.
type MembershipLookup struct {
	client *firestore.Client
}

// NewMembershipLookup creates a MembershipLookup over the given Firestore
// client.
func NewMembershipLookup(client *firestore.Client) *MembershipLookup {
	return &MembershipLookup{client: client}
}

// MemberRole returns the role userID holds in the container, if any. A
// missing container resolves to "not a member" rather than an error: the
// guard answers deny in both cases.
func (l *MembershipLookup) MemberRole(ctx context.Context, containerID, userID string) (authz.Role, bool, error) {
	snap, err := l.client.Collection(containersCollection).Doc(containerID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return authz.RoleUser, false, nil
		}
		return authz.RoleUser, false, fmt.Errorf("failed to get container '%s' for role lookup: %w", containerID, err)
	}
	var doc containerDoc
	if err := snap.DataTo(&doc); err != nil {
		return authz.RoleUser, false, fmt.Errorf("failed to decode container '%s' for role lookup: %w", containerID, err)
	}
	stored, ok := doc.Members[userID]
	if !ok {
		return authz.RoleUser, false, nil
	}
	role, err := authz.ParseRole(stored)
	if err != nil {
		return authz.RoleUser, false, fmt.Errorf("container '%s' has malformed role for user '%s': %w", containerID, userID, err)
	}
	return role, true, nil
}
