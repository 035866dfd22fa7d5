package models

import "time"

// User represents a user in the system. The ID is the Firebase Auth UID and
// doubles as the Firestore document ID; the authorization core only reads
// existence, the rest is profile data kept for the API surface.
type User struct {
	ID          string    `json:"id" firestore:"-"`
	Email       string    `json:"email" firestore:"email"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}
