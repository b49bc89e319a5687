package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/kzl/storefront-api/internal/config"
	"github.com/kzl/storefront-api/internal/handler"
	"github.com/kzl/storefront-api/internal/middleware"
	"github.com/kzl/storefront-api/internal/repository"
	"github.com/kzl/storefront-api/internal/service"
	"github.com/kzl/storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB
	mongoDB, err := repository.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		log.Error("connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer mongoDB.Close(context.Background())

	if err := mongoDB.Ping(ctx); err != nil {
		log.Error("ping MongoDB", "error", err)
		os.Exit(1)
	}
	if err := mongoDB.EnsureIndexes(ctx); err != nil {
		log.Error("ensure indexes", "error", err)
		os.Exit(1)
	}
	log.Info("connected to MongoDB")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(mongoDB)
	productRepo := repository.NewProductRepository(mongoDB)
	orderRepo := repository.NewOrderRepository(mongoDB)
	categoryRepo := repository.NewCategoryRepository(mongoDB)
	townshipRepo := repository.NewTownshipRepository(mongoDB)
	announcementRepo := repository.NewAnnouncementRepository(mongoDB)
	settingsRepo := repository.NewSettingsRepository(mongoDB)
	auditRepo := repository.NewAuditRepository(mongoDB)
	cartRepo := repository.NewCartRepository(redisClient)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo, redisClient)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, productRepo, productSvc, amqpCh)
	catalogSvc := service.NewCatalogService(categoryRepo, townshipRepo)
	announcementSvc := service.NewAnnouncementService(announcementRepo, userRepo)
	settingsSvc := service.NewSettingsService(settingsRepo)
	reportSvc := service.NewReportService(orderRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	productH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	announcementH := handler.NewAnnouncementHandler(announcementSvc)
	settingsH := handler.NewSettingsHandler(settingsSvc)
	reportH := handler.NewReportHandler(reportSvc, auditRepo)
	healthH := handler.NewHealthHandler(mongoDB, redisClient, amqpConn)

	// Worker
	auditWorker := worker.NewAuditWorker(amqpCh, auditRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authMW := middleware.AuthMiddleware(cfg.JWT.Secret)
	adminMW := middleware.AdminOnly()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.GET("/bootstrap", authH.BootstrapStatus)
		auth.POST("/bootstrap", authH.CreateAdmin)
		auth.POST("/register", authH.Register)
		auth.POST("/login", authH.Login)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.GetByID)

		v1.GET("/categories", catalogH.ListCategories)
		v1.GET("/townships", catalogH.ListTownships)
		v1.GET("/settings", settingsH.Get)
		v1.GET("/announcements", announcementH.List)

		me := v1.Group("", authMW)
		{
			me.GET("/profile", userH.Profile)
			me.PUT("/profile", userH.UpdateProfile)
			me.GET("/announcements/unseen", announcementH.Unseen)
			me.POST("/announcements/seen", announcementH.MarkRead)

			cart := me.Group("/cart")
			cart.GET("", cartH.Get)
			cart.POST("/items", cartH.AddItem)
			cart.PUT("/items/:productId", cartH.UpdateItem)
			cart.DELETE("/items/:productId", cartH.RemoveItem)
			cart.DELETE("", cartH.Clear)

			orders := me.Group("/orders")
			orders.POST("", orderH.Place)
			orders.POST("/checkout", orderH.Checkout)
			orders.GET("", orderH.ListMine)
			orders.DELETE("/:id", orderH.DeleteOwn)
		}

		admin := v1.Group("/admin", authMW, adminMW)
		{
			admin.POST("/products", productH.Create)
			admin.PUT("/products/:id", productH.Update)
			admin.DELETE("/products/:id", productH.Delete)

			admin.POST("/categories", catalogH.CreateCategory)
			admin.PUT("/categories/:id", catalogH.UpdateCategory)
			admin.DELETE("/categories/:id", catalogH.DeleteCategory)
			admin.POST("/townships", catalogH.CreateTownship)
			admin.DELETE("/townships/:id", catalogH.DeleteTownship)

			admin.GET("/users", userH.List)
			admin.POST("/users", userH.Create)
			admin.GET("/users/:id", userH.GetByID)
			admin.PUT("/users/:id", userH.Update)
			admin.DELETE("/users/:id", userH.Delete)

			admin.GET("/orders", orderH.ListAll)
			admin.PUT("/orders/:id/status", orderH.SetStatus)
			admin.PUT("/orders/:id/quantity", orderH.SetQuantity)
			admin.DELETE("/orders/:id", orderH.Delete)

			admin.POST("/announcements", announcementH.Create)
			admin.PUT("/announcements/:id", announcementH.Update)
			admin.DELETE("/announcements/:id", announcementH.Delete)

			admin.PUT("/settings", settingsH.Update)

			admin.GET("/reports/orders", reportH.ConfirmedSales)
			admin.GET("/audit", reportH.AuditLogs)
		}
	}

	if err := auditWorker.Start(ctx); err != nil {
		log.Error("start audit worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	auditWorker.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
