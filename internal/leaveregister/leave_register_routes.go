package leaveregister

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
	register := r.Group("/leave-register")
	register.Use(middleware.AuthMiddleware())
	{
		register.GET("/:employeeId", middleware.RBACAuthorize(rbacService, "leave_register", "read"), handler.GetRegister)
		register.POST("/credit", middleware.RBACAuthorize(rbacService, "leave_register", "credit"), handler.Credit)
	}
}
