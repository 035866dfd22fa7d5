package models

import "time"

// Domain event names published on the message queue.
const (
	EventContainerCreated  = "container.created"
	EventContainerDeleted  = "container.deleted"
	EventMemberAdded       = "member.added"
	EventMemberRoleUpdated = "member.role_updated"
)

// DomainEvent is the payload broadcast after a successful mutating operation.
type DomainEvent struct {
	Name        string    `json:"name"`
	ContainerID string    `json:"containerId"`
	ActorID     string    `json:"actorId,omitempty"`
	TargetID    string    `json:"targetId,omitempty"`
	Role        string    `json:"role,omitempty"`
	OccurredAt  time.Time `json:"occurredAt"`
}
