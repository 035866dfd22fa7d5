package models

// CreateContainerRequest represents the request body for creating a container.
type CreateContainerRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
}

// AddUserRequest represents the request body for adding a member to a
// container. Role is optional; an empty role resolves to the default tier.
type AddUserRequest struct {
	UserID string `json:"userId" binding:"required"`
	Role   string `json:"role,omitempty" binding:"omitempty,oneof=User Moderator Admin"`
}

// UpdateUserRoleRequest represents the request body for rewriting an existing
// member's role.
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=User Moderator Admin"`
}

// CreateFolderRequest represents the request body for creating a folder
// inside a container.
type CreateFolderRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}
