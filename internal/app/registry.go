package app

import (
	"database/sql"

	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/auth"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/company"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/department"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/employee"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leave"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/leaveregister"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/messaging/kafka"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/middleware"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/onduty"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/position"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac/infra"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/rbac/rbac_http"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/shared/counter"
	"github.com/Pydah-Soft-Projects/li-hrms-sub001/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	positionRepo := position.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	ondutyRepo := onduty.NewRepository(gormDB)
	registerRepo := leaveregister.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo)
	userService := user.NewService(userRepo, rbacService)
	companyService := company.NewService(companyRepo)
	departmentService := department.NewService(db, departmentRepo, rdb)
	positionService := position.NewService(db, positionRepo, rdb)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, rdb)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, counterRepo, outboxRepo)
	ondutyService := onduty.NewService(db, ondutyRepo, counterRepo)
	registerService := leaveregister.NewService(registerRepo, rdb)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	companyHandler := company.NewHandler(companyService)
	departmentHandler := department.NewHandler(departmentService)
	positionHandler := position.NewHandler(positionService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb)
	ondutyHandler := onduty.NewHandler(ondutyService)
	registerHandler := leaveregister.NewHandler(registerService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, logger)
		company.RegisterRoutes(api, companyHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		position.RegisterRoutes(api, positionHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		onduty.RegisterRoutes(api, ondutyHandler, rbacService)
		leaveregister.RegisterRoutes(api, registerHandler, rbacService)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
