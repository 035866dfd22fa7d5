package models

import (
	"time"

	"github.com/riquemorozine/containers-api/internal/authz"
)

// Container is a shared workspace: one immutable owner, a visibility flag,
// and a member table keyed by user id so a user can never appear twice.
// Persistence representation is owned by the db package; this struct carries
// domain roles, not stored strings.
type Container struct {
	ID          string                    `json:"id"`
	OwnerID     string                    `json:"ownerId"`
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Public      bool                      `json:"public"`
	Members     map[string]authz.Role     `json:"members"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
}

// Owner implements authz.Container.
func (c *Container) Owner() string { return c.OwnerID }

// IsPublic implements authz.Container.
func (c *Container) IsPublic() bool { return c.Public }

// MemberRole implements authz.Container.
func (c *Container) MemberRole(userID string) (authz.Role, bool) {
	role, ok := c.Members[userID]
	return role, ok
}
