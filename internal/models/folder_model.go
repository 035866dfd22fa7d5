package models

import "time"

// Folder is a named grouping nested inside exactly one container. The
// ContainerID is a containment reference, not ownership: folders live and die
// with their container, and creating one requires view access to it.
type Folder struct {
	ID          string    `json:"id" firestore:"-"`
	ContainerID string    `json:"containerId" firestore:"containerId"`
	AuthorID    string    `json:"authorId" firestore:"authorId"`
	Name        string    `json:"name" firestore:"name"`
	Description string    `json:"description,omitempty" firestore:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
