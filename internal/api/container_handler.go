package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/models"
)

// ContainerHandler handles API endpoints related to containers.
type ContainerHandler struct {
	containerService core.ContainerService
	logger           *zap.Logger
}

// NewContainerHandler creates a ContainerHandler.
func NewContainerHandler(cs core.ContainerService, logger *zap.Logger) *ContainerHandler {
	return &ContainerHandler{containerService: cs, logger: logger}
}

// callerID extracts the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) (string, bool) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
		return "", false
	}
	return userID, true
}

// Create handles POST /containers
func (h *ContainerHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateContainerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	container, err := h.containerService.Create(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, container)
}

// List handles GET /containers
func (h *ContainerHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	containers, err := h.containerService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if containers == nil {
		containers = []*models.Container{}
	}
	c.JSON(http.StatusOK, containers)
}

// Get handles GET /containers/:containerId
func (h *ContainerHandler) Get(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	containerID := c.Param("containerId")
	if containerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID is required"})
		return
	}
	container, err := h.containerService.GetByID(c.Request.Context(), containerID, userID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, container)
}

// Delete handles DELETE /containers/:containerId
func (h *ContainerHandler) Delete(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	containerID := c.Param("containerId")
	if containerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID is required"})
		return
	}
	if err := h.containerService.Delete(c.Request.Context(), containerID, userID); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddUser handles PUT /containers/:containerId/users
func (h *ContainerHandler) AddUser(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	containerID := c.Param("containerId")
	if containerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID is required"})
		return
	}
	var req models.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}

	// An omitted role resolves to the default tier in the service.
	var role *authz.Role
	if req.Role != "" {
		parsed, err := authz.ParseRole(req.Role)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid role", Details: err.Error()})
			return
		}
		role = &parsed
	}

	if err := h.containerService.AddUser(c.Request.Context(), containerID, req.UserID, role); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User added to container"})
}

// UpdateUserRole handles PUT /containers/:containerId/users/:userId/role
func (h *ContainerHandler) UpdateUserRole(c *gin.Context) {
	if _, ok := callerID(c); !ok {
		return
	}
	containerID := c.Param("containerId")
	targetUserID := c.Param("userId")
	if containerID == "" || targetUserID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID and user ID are required"})
		return
	}
	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	role, err := authz.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid role", Details: err.Error()})
		return
	}

	if err := h.containerService.UpdateUserRole(c.Request.Context(), containerID, targetUserID, role); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "User role updated"})
}
