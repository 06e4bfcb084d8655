// @title           Webstarter Backend API
// @version         1.0.0
// @description     Backend API for the business intake workflow: public project requests with draft persistence, and an authenticated admin surface for status management, messaging and notifications.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"webstarter-backend/docs"
	"webstarter-backend/internal/config"
	"webstarter-backend/internal/database"
	"webstarter-backend/internal/draftstore"
	"webstarter-backend/internal/handlers"
	"webstarter-backend/internal/intake"
	"webstarter-backend/internal/logger"
	"webstarter-backend/internal/mailer"
	"webstarter-backend/internal/middleware"
	"webstarter-backend/internal/notify"
	"webstarter-backend/internal/push"
	"webstarter-backend/internal/services"
	"webstarter-backend/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize storage client: %v", err)
	}

	// Direct PostgreSQL connection for queries and migrations
	var dbClient *supabase.DatabaseClient
	if cfg.DatabaseURL == "" {
		logger.Log.Warn("DATABASE_URL not set; migrations and database operations will be skipped")
	} else {
		dbClient, err = supabase.NewDatabaseClient(cfg.DatabaseURL)
		if err != nil {
			logger.Log.Warnf("Failed to initialize database client: %v", err)
			logger.Log.Warn("Database operations will be limited. Please configure DATABASE_URL properly.")
			dbClient = nil
		} else {
			defer dbClient.Close()

			migrator, err := database.NewMigrator(cfg.DatabaseURL)
			if err != nil {
				logger.Log.Warnf("Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					logger.Log.Warnf("Migration failed: %v", err)
				} else {
					logger.Info("Migrations completed successfully")
				}
			}
		}
	}

	// Draft storage: Redis when configured, in-process otherwise
	var draftStore intake.DraftStore
	if cfg.RedisURL != "" {
		redisStore, err := draftstore.NewRedisStore(cfg.RedisURL)
		if err != nil {
			logger.Log.Warnf("Failed to connect to Redis: %v; falling back to in-memory draft store", err)
			draftStore = draftstore.NewMemoryStore()
		} else {
			defer redisStore.Close()
			draftStore = redisStore
		}
	} else {
		logger.Log.Warn("REDIS_URL not set; drafts will not survive restarts")
		draftStore = draftstore.NewMemoryStore()
	}

	// Email transport. An unconfigured mailer still satisfies the
	// dispatcher; each attempt reports configuration_missing.
	mailClient := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)
	if !cfg.MailConfigured() {
		logger.Log.Warn("SMTP_FROM/SMTP_PASSWORD not set; email notifications will be reported as not sent")
	}

	// Push transport
	var pushClient *push.Client
	if cfg.PushConfigured() {
		pushClient, err = push.New(context.Background(), []byte(cfg.FirebaseCredentialsJSON), cfg.FirebaseProjectID)
		if err != nil {
			logger.Log.Warnf("Failed to initialize Firebase messaging: %v; admin push disabled", err)
			pushClient = nil
		}
	} else {
		logger.Log.Warn("FIREBASE_CREDENTIALS_JSON not set; admin push notifications disabled")
	}

	var pusher notify.AdminPusher
	if pushClient != nil {
		pusher = pushClient
	}
	var tokenLister notify.TokenLister
	var adminChecker middleware.AdminChecker
	if dbClient != nil {
		tokenLister = dbClient
		adminChecker = dbClient
	}
	dispatcher := notify.NewDispatcher(mailClient, pusher, tokenLister)

	// Services (dbClient might be nil, handlers guard for this)
	var intakeService *services.IntakeService
	var statusService *services.StatusService
	if dbClient != nil {
		intakeService = services.NewIntakeService(dbClient, storageClient, dispatcher, draftStore)
		statusService = services.NewStatusService(dbClient, dispatcher)
	}

	// Handlers
	intakeHandler := handlers.NewIntakeHandler(intakeService, cfg.DefaultLocale)
	draftsHandler := handlers.NewDraftsHandler(draftStore)
	messagesHandler := handlers.NewMessagesHandler(dbClient)
	filesHandler := handlers.NewFilesHandler(dbClient)
	projectsHandler := handlers.NewProjectsHandler(dbClient, statusService)
	adminHandler := handlers.NewAdminHandler(supabaseClient, dbClient, pushClient)

	// Setup router
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", handlers.DraftKeyHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
	}))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// Public API
	api := router.Group("/api/v1")

	api.POST("/requests", intakeHandler.Submit)

	api.GET("/drafts/:draft_key", draftsHandler.Load)
	api.PUT("/drafts/:draft_key", draftsHandler.Save)
	api.DELETE("/drafts/:draft_key", draftsHandler.Clear)

	api.GET("/projects/:project_id/messages", messagesHandler.ListMessages)
	api.POST("/projects/:project_id/messages", messagesHandler.PostClientMessage)
	api.GET("/projects/:project_id/files", filesHandler.ListFiles)

	// Admin API: login is open, everything else sits behind the JWT
	// check plus the admin_users allow-list
	admin := api.Group("/admin")
	admin.POST("/login", adminHandler.Login)

	gated := admin.Group("")
	gated.Use(middleware.AuthMiddleware(cfg))
	gated.Use(middleware.AdminGate(adminChecker))

	gated.GET("/session", adminHandler.Session)

	gated.GET("/projects", projectsHandler.ListProjects)
	gated.GET("/projects/:project_id", projectsHandler.GetProject)
	gated.PATCH("/projects/:project_id/status", projectsHandler.UpdateStatus)
	gated.POST("/projects/:project_id/messages", messagesHandler.PostAdminMessage)

	gated.POST("/admins", adminHandler.CreateAdmin)
	gated.DELETE("/admins/:email", adminHandler.DeactivateAdmin)

	gated.POST("/devices", adminHandler.RegisterDevice)
	gated.POST("/notify-test", adminHandler.NotifyTest)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logger.Log.Infof("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
