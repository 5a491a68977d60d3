package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/logger"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"context"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// @title           Coupon Attestation API
// @version         1.0
// @description     Public API for submitting prepaid-voucher codes for manual verification and tracking the result by reference number.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := logger.New(getenv("LOG_LEVEL", "info"), getenv("LOG_FORMAT", "console"))
	defer func() { _ = log.Sync() }()

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info("no configs/.env file found, using environment")
	}

	dsn := "postgres://" + getenv("DB_USER", "postgres") +
		":" + getenv("DB_PASSWORD", "postgres") +
		"@" + getenv("DB_HOST", "localhost") +
		":" + getenv("DB_PORT", "5432") +
		"/" + getenv("DB_NAME", "attestation") +
		"?sslmode=" + getenv("DB_SSLMODE", "disable")

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL")

	// Tracking hub: one room per reference number
	hub := websocket.NewHub(log)
	go hub.Run()

	// Repository -> Service -> Handler
	txManager := repository.NewTransactionManager(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	contactRepo := repository.NewContactRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	submissionService := service.NewSubmissionService(submissionRepo, auditRepo, txManager, hub, log)
	contactService := service.NewContactService(contactRepo, log)
	auditService := service.NewAuditService(auditRepo)

	submissionHandler := handler.NewSubmissionHandler(submissionService)
	trackingHandler := handler.NewTrackingHandler(submissionService)
	contactHandler := handler.NewContactHandler(contactService)
	catalogHandler := handler.NewCatalogHandler()
	backofficeHandler := handler.NewBackofficeHandler(submissionService)
	auditHandler := handler.NewAuditHandler(auditService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{getenv("FRONTEND_ORIGIN", "http://localhost:5173")}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// Realtime tracking subscription, one reference per connection
	router.GET("/ws/tracking", func(c *gin.Context) {
		websocket.ServeTracking(hub, c, func(ctx context.Context, ref string) (interface{}, bool, error) {
			tracking, err := submissionService.GetTracking(ctx, ref)
			if service.IsNotFound(err) {
				return nil, false, nil
			}
			if err != nil {
				return nil, false, err
			}
			return tracking, true, nil
		})
	})

	submissionHandler.RegisterRoutes(router.Group(""))
	trackingHandler.RegisterRoutes(router.Group(""))
	contactHandler.RegisterRoutes(router.Group(""))
	catalogHandler.RegisterRoutes(router.Group(""))
	backofficeHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	port := getenv("PORT", "8080")
	log.Info("server listening", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}
