package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/internal/core"
	"github.com/riquemorozine/containers-api/internal/middleware"
)

// SetupRoutes wires handlers, authentication and the role guard onto the
// router. Global middleware (logging, recovery, CORS) is applied by the
// caller before this runs.
//
// Guard placement follows the operation contracts: adding a member requires
// the Admin tier, rewriting a role requires Admin or Moderator. All other
// authorization happens inside the lifecycle service.
func SetupRoutes(
	router *gin.Engine,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
	roleGuard *middleware.RoleGuard,
	userService core.UserService,
	containerService core.ContainerService,
	folderService core.FolderService,
) {
	userHandler := NewUserHandler(userService, logger)
	containerHandler := NewContainerHandler(containerService, logger)
	folderHandler := NewFolderHandler(folderService, logger)

	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users", authMW.VerifyToken())
		{
			users.POST("/initialize", userHandler.Initialize)
			users.GET("/me", userHandler.Me)
		}

		containers := apiV1.Group("/containers", authMW.VerifyToken())
		{
			containers.POST("", containerHandler.Create)
			containers.GET("", containerHandler.List)
			containers.GET("/:containerId", containerHandler.Get)
			containers.DELETE("/:containerId", containerHandler.Delete)

			containers.PUT("/:containerId/users",
				roleGuard.Require(authz.RoleAdmin),
				containerHandler.AddUser)
			containers.PUT("/:containerId/users/:userId/role",
				roleGuard.Require(authz.RoleAdmin, authz.RoleModerator),
				containerHandler.UpdateUserRole)

			containers.POST("/:containerId/folders", folderHandler.Create)
			containers.GET("/:containerId/folders", folderHandler.List)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	logger.Info("API routes configured under /api/v1")
}
