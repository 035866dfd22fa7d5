package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/models"
)

// FolderHandler handles API endpoints for folders nested in containers.
type FolderHandler struct {
	folderService core.FolderService
	logger        *zap.Logger
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(fs core.FolderService, logger *zap.Logger) *FolderHandler {
	return &FolderHandler{folderService: fs, logger: logger}
}

// Create handles POST /containers/:containerId/folders
func (h *FolderHandler) Create(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	containerID := c.Param("containerId")
	if containerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID is required"})
		return
	}
	var req models.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindingError(c, err)
		return
	}
	folder, err := h.folderService.Create(c.Request.Context(), userID, containerID, req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

// List handles GET /containers/:containerId/folders
func (h *FolderHandler) List(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	containerID := c.Param("containerId")
	if containerID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID is required"})
		return
	}
	folders, err := h.folderService.ListByContainer(c.Request.Context(), userID, containerID)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	if folders == nil {
		folders = []*models.Folder{}
	}
	c.JSON(http.StatusOK, folders)
}
