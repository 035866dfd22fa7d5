package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/db"
)

// UserHandler handles API endpoints related to user profiles.
type UserHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(us core.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: us, logger: logger}
}

// Initialize handles POST /users/initialize. Clients call it after Firebase
// sign-in so the identity lookup can resolve the user from then on.
func (h *UserHandler) Initialize(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	user, existed, err := h.userService.GetOrCreate(
		c.Request.Context(),
		userID,
		c.GetString("userEmail"),
		c.GetString("userDisplayName"),
	)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	status := http.StatusCreated
	if existed {
		status = http.StatusOK
	}
	c.JSON(status, user)
}

// Me handles GET /users/me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not initialized"})
			return
		}
		writeServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
