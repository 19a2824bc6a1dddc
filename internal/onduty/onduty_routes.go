package onduty

import (
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/middleware"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	onduty := r.Group("/onduty")
	onduty.Use(middleware.AuthMiddleware())
	{
		onduty.POST("", middleware.RBACAuthorize(rbacService, "onduty", "create"), handler.Create)
		onduty.GET("", middleware.RBACAuthorize(rbacService, "onduty", "read"), handler.GetAll)
		onduty.GET("/:id", middleware.RBACAuthorize(rbacService, "onduty", "read"), handler.GetByID)
		onduty.DELETE("/:id", middleware.RBACAuthorize(rbacService, "onduty", "delete"), handler.Delete)

		onduty.POST("/:id/verify", middleware.RBACAuthorize(rbacService, "onduty", "action"), handler.Verify)
		onduty.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "onduty", "action"), handler.Approve)
		onduty.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "onduty", "action"), handler.Reject)
		onduty.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "onduty", "action"), handler.Cancel)
	}
}
