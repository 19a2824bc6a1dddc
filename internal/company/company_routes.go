package company

import (
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/middleware"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	company := r.Group("/companies")
	company.Use(middleware.AuthMiddleware())
	{
		// Dashboards poll this one, so it gets the loosest limit.
		company.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		company.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "company", "update"),
			handler.UpdateMe,
		)

		company.POST("/:id/registrations",
			middleware.RateLimitByUser(0.5, 1),
			middleware.RBACAuthorize(rbacService, "company", "update"),
			handler.UpsertRegistration,
		)

		company.GET("/:id/registrations",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "company", "read"),
			handler.ListRegistrations,
		)

		company.DELETE("/:id/registrations/:type",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "company", "delete"),
			handler.DeleteRegistration,
		)
	}
}
