package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "pharmacy/api/swagger" // swagger docs
	"pharmacy/internal/auth"
	"pharmacy/internal/config"
	"pharmacy/internal/database"
	"pharmacy/internal/handler"
	"pharmacy/internal/logger"
	"pharmacy/internal/middleware"
	"pharmacy/internal/model"
	"pharmacy/internal/repository"
	"pharmacy/internal/service"
	"pharmacy/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Pharmacy Management API
// @version         1.0
// @description     Medicines, stock, sales, purchases and reports for a single pharmacy.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.NewConnection(cfg.Database, log)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("connected to PostgreSQL", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	// Set up WebSocket Hub
	wsHub := websocket.NewHub(log.Named("ws"))
	go wsHub.Run()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	medicineRepo := repository.NewMedicineRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	adjuster := service.NewStockAdjuster(medicineRepo, cfg.Inventory, log)
	userService := service.NewUserService(userRepo, tokens, log)
	medicineService := service.NewMedicineService(medicineRepo, txManager, cfg.Inventory, wsHub, log)
	alertClassifier := service.NewAlertClassifier(medicineRepo, cfg.Inventory)
	saleService := service.NewSaleService(saleRepo, medicineRepo, adjuster, txManager, wsHub, log)
	purchaseService := service.NewPurchaseService(purchaseRepo, adjuster, txManager, wsHub, log)
	reportService := service.NewReportService(saleRepo, purchaseRepo, medicineRepo, cfg.Inventory)

	if err := userService.EnsureAdmin(context.Background(), cfg.Seed); err != nil {
		log.Fatal("failed to seed administrator", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORS.AllowOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, tokens, c)
	})

	guards := handler.Guards{
		Staff: middleware.RequireRole(tokens, model.RoleAdmin, model.RolePharmacist),
		Admin: middleware.RequireRole(tokens, model.RoleAdmin),
	}
	api := router.Group("/api")
	handler.NewUserHandler(userService).RegisterRoutes(api, guards)
	handler.NewMedicineHandler(medicineService, alertClassifier).RegisterRoutes(api, guards)
	handler.NewSaleHandler(saleService, reportService, cfg.Inventory.Location()).RegisterRoutes(api, guards)
	handler.NewPurchaseHandler(purchaseService, cfg.Inventory.Location()).RegisterRoutes(api, guards)
	handler.NewReportHandler(reportService).RegisterRoutes(api, guards)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("server exited")
}
