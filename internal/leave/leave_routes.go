package leave

import (
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/middleware"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	// ExtractUserID validates the token subject so the idempotency key
	// can be scoped per user.
	leaves.Use(middleware.ExtractUserID())
	{
		if redisClient != nil {
			leaves.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "leave", "create"),
				handler.Create,
			)
		} else {
			leaves.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), handler.Create)
		}
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.DELETE("/:id", middleware.RBACAuthorize(rbacService, "leave", "delete"), handler.Delete)

		// Workflow actions carry their own actor-level checks in the service;
		// RBAC here only gates that the role may touch the endpoint at all.
		leaves.POST("/:id/verify", middleware.RBACAuthorize(rbacService, "leave", "action"), handler.Verify)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "action"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "action"), handler.Reject)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "action"), handler.Cancel)

		leaves.GET("/:id/splits/draft", middleware.RBACAuthorize(rbacService, "leave", "split"), handler.GetSplitDraft)
		leaves.POST("/:id/splits/validate", middleware.RBACAuthorize(rbacService, "leave", "split"), handler.ValidateSplits)
		leaves.PUT("/:id/splits", middleware.RBACAuthorize(rbacService, "leave", "split"), handler.ReplaceSplits)
	}
}
