package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/authz"
	"github.com/riquemorozine/containers-api/pkg/cache"
)

// membershipCacheTTL bounds how stale a guard decision can be after a role
// change; the lifecycle service re-checks state inside its transaction.
const membershipCacheTTL = 30 * time.Second

// MembershipSource resolves a caller's role within a container.
type MembershipSource interface {
	MemberRole(ctx context.Context, containerID, userID string) (authz.Role, bool, error)
}

// RoleGuard gates requests on the caller's role in the container named by
// the :containerId path parameter. It runs after authentication and before
// the lifecycle service, which does not re-check caller privilege.
type RoleGuard struct {
	source MembershipSource
	cache  cache.Cache
	logger *zap.Logger
}

// NewRoleGuard creates a RoleGuard. The cache is optional; pass nil to look
// up the store on every request.
func NewRoleGuard(source MembershipSource, c cache.Cache, logger *zap.Logger) *RoleGuard {
	return &RoleGuard{source: source, cache: c, logger: logger}
}

func membershipCacheKey(containerID, userID string) string {
	return "containers:member-role:" + containerID + ":" + userID
}

func (g *RoleGuard) memberRole(ctx context.Context, containerID, userID string) (authz.Role, bool, error) {
	if g.cache != nil {
		if cached, hit, err := g.cache.Get(ctx, membershipCacheKey(containerID, userID)); err != nil {
			g.logger.Warn("membership cache read failed", zap.Error(err))
		} else if hit {
			role, err := authz.ParseRole(cached)
			if err == nil {
				return role, true, nil
			}
			g.logger.Warn("membership cache held malformed role", zap.String("value", cached))
		}
	}

	role, member, err := g.source.MemberRole(ctx, containerID, userID)
	if err != nil || !member {
		return role, member, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, membershipCacheKey(containerID, userID), role.String(), membershipCacheTTL); err != nil {
			g.logger.Warn("membership cache write failed", zap.Error(err))
		}
	}
	return role, true, nil
}

// Require returns a handler that rejects the request with 403 unless the
// caller holds one of the given roles in the path container.
func (g *RoleGuard) Require(roles ...authz.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "User ID not found in context"})
			return
		}
		containerID := c.Param("containerId")
		if containerID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Container ID is required"})
			return
		}

		role, member, err := g.memberRole(c.Request.Context(), containerID, userID)
		if err != nil {
			g.logger.Error("role guard lookup failed",
				zap.String("containerId", containerID),
				zap.String("userId", userID),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
			return
		}
		if member {
			for _, allowed := range roles {
				if role == allowed {
					c.Next()
					return
				}
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Insufficient role for this operation"})
	}
}
