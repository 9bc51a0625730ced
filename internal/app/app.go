package app

import (
	"database/sql"
	"fmt"
	"log"

	"muniplan/internal/config"
	"muniplan/internal/handlers"
	"muniplan/internal/middleware"
	"muniplan/internal/pdf"
	"muniplan/internal/realtime"
	"muniplan/internal/repositories"
	"muniplan/internal/routes"
	"muniplan/internal/services"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "muniplan/docs"
)

func Run() {
	cfg := config.LoadConfig()
	middleware.JWTKey = []byte(cfg.Auth.JWTSecret)

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("db open: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("db close: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	resourceRepo := repositories.NewResourceRepository(db)

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	userService := services.NewUserService(userRepo, emailService, authService)
	departmentService := services.NewDepartmentService(departmentRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo)
	resourceService := services.NewResourceService(resourceRepo)
	conflictService := services.NewConflictService(projectRepo, taskRepo)

	// Telegram notifications are optional; everything downstream is
	// nil-safe when the bot is off.
	var telegramService *services.TelegramService
	if cfg.Telegram.Enabled {
		telegramService, err = services.NewTelegramService(cfg.Telegram.BotToken, userRepo)
		if err != nil {
			log.Printf("[tg] disabled: %v", err)
			telegramService = nil
		}
	}

	reportGen := pdf.NewReportGenerator(cfg.Files.RootDir)
	hub := realtime.NewBoardHub()

	// === Handlers ===
	authHandler := handlers.NewAuthHandler(userService, authService)
	userHandler := handlers.NewUserHandler(userService)
	departmentHandler := handlers.NewDepartmentHandler(departmentService)
	projectHandler := handlers.NewProjectHandler(projectService, conflictService, reportGen, departmentService, emailService)
	taskHandler := handlers.NewTaskHandler(taskService, telegramService, emailService, userRepo, hub)
	resourceHandler := handlers.NewResourceHandler(resourceService, conflictService)
	boardHandler := handlers.NewBoardHandler(hub)

	var integrationsHandler *handlers.IntegrationsHandler
	if telegramService != nil {
		integrationsHandler = handlers.NewIntegrationsHandler(telegramService)
	}

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(
		router,
		authHandler,
		userHandler,
		departmentHandler,
		projectHandler,
		taskHandler,
		resourceHandler,
		boardHandler,
		integrationsHandler,
	)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
