package routes

import (
	"github.com/gin-gonic/gin"

	"muniplan/internal/authz"
	"muniplan/internal/handlers"
	"muniplan/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	departmentHandler *handlers.DepartmentHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	resourceHandler *handlers.ResourceHandler,
	boardHandler *handlers.BoardHandler,
	integrationsHandler *handlers.IntegrationsHandler, // nil when the bot is off
) *gin.Engine {

	// ---- public
	r.POST("/login", authHandler.Login)
	r.POST("/register", authHandler.Register)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	// webhook is authenticated by URL secrecy on Telegram's side
	if integrationsHandler != nil {
		r.POST("/integrations/telegram/webhook", integrationsHandler.TelegramWebhook)
	}

	// ---- protected
	r.Use(middleware.AuthMiddleware())
	r.Use(middleware.ReadOnlyGuard())

	if integrationsHandler != nil {
		integr := r.Group("/integrations")
		{
			integr.POST("/telegram/request-link", integrationsHandler.RequestTelegramLink)
		}
	}

	// USERS
	users := r.Group("/users")
	{
		users.GET("/me", userHandler.Me)
		users.GET("/", middleware.RequireRoles(authz.RoleAdmin, authz.RoleDeptHead, authz.RoleAuditor), userHandler.List)
		users.GET("/:id", middleware.RequireRoles(authz.RoleAdmin, authz.RoleDeptHead, authz.RoleAuditor), userHandler.GetByID)
		users.PUT("/:id", middleware.RequireRoles(authz.RoleAdmin), userHandler.Update)
		users.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), userHandler.Delete)
	}

	// DEPARTMENTS (admin writes, everyone reads)
	depts := r.Group("/departments")
	{
		depts.GET("/", departmentHandler.List)
		depts.GET("/:id", departmentHandler.GetByID)
		depts.POST("/", middleware.RequireRoles(authz.RoleAdmin), departmentHandler.Create)
		depts.PUT("/:id", middleware.RequireRoles(authz.RoleAdmin), departmentHandler.Update)
		depts.DELETE("/:id", middleware.RequireRoles(authz.RoleAdmin), departmentHandler.Delete)
	}

	// PROJECTS
	projects := r.Group("/projects")
	{
		projects.POST("/", middleware.RequireRoles(authz.RoleCoordinator, authz.RoleDeptHead, authz.RoleAdmin), projectHandler.Create)
		projects.GET("/", projectHandler.List)
		projects.GET("/:id", projectHandler.GetByID)
		projects.PUT("/:id", middleware.RequireRoles(authz.RoleCoordinator, authz.RoleDeptHead, authz.RoleAdmin), projectHandler.Update)
		projects.DELETE("/:id", middleware.RequireRoles(authz.RoleDeptHead, authz.RoleAdmin), projectHandler.Delete)
		projects.GET("/:id/conflicts", projectHandler.Conflicts)
		projects.GET("/:id/conflicts/report", projectHandler.ConflictsReport)
		projects.GET("/:id/tasks", taskHandler.ListByProject)
		projects.POST("/:id/tasks", taskHandler.Create)
	}

	// TASKS
	tasks := r.Group("/tasks")
	{
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.DELETE("/:id", taskHandler.Delete)
		tasks.POST("/:id/status", taskHandler.ChangeStatus)
		tasks.POST("/:id/assign", taskHandler.Assign)
	}

	// RESOURCES
	resources := r.Group("/resources")
	{
		resources.POST("/", middleware.RequireRoles(authz.RoleCoordinator, authz.RoleDeptHead, authz.RoleAdmin), resourceHandler.Create)
		resources.GET("/", resourceHandler.List)
		resources.GET("/:id", resourceHandler.GetByID)
		resources.PUT("/:id", middleware.RequireRoles(authz.RoleCoordinator, authz.RoleDeptHead, authz.RoleAdmin), resourceHandler.Update)
		resources.DELETE("/:id", middleware.RequireRoles(authz.RoleDeptHead, authz.RoleAdmin), resourceHandler.Delete)
		resources.GET("/:id/conflicts", resourceHandler.Conflicts)
	}

	// live board updates
	r.GET("/ws/projects/:id", boardHandler.Subscribe)

	return r
}
