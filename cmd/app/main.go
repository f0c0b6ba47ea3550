package main

import (
	"context"
	"log"
	"time"

	"PerfumeStoreAPI/internal/config"
	"PerfumeStoreAPI/internal/db"
	"PerfumeStoreAPI/internal/repository"
	"PerfumeStoreAPI/internal/services"
	"PerfumeStoreAPI/internal/token"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	tokenSvc := token.NewService(cfg.JWTSecret, time.Duration(cfg.TokenTTLMinutes)*time.Minute)

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	perfumeRepo := repository.NewPerfumeRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo, tokenSvc, logger)
	perfumeSvc := services.NewPerfumeService(perfumeRepo, logger)
	cartSvc := services.NewCartService(cartRepo, perfumeRepo, logger)
	checkoutSvc := services.NewCheckoutService(orderRepo, cartRepo, perfumeRepo, paymentRepo, logger)
	orderSvc := services.NewOrderService(orderRepo, paymentRepo, logger)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(e, authSvc, tokenSvc, logger)
	registerPerfumeRoutes(e, perfumeSvc, tokenSvc, logger)
	registerCartRoutes(e, cartSvc, tokenSvc, logger)
	registerOrderRoutes(e, checkoutSvc, orderSvc, tokenSvc, logger)
	registerAdminOrderRoutes(e, orderSvc, tokenSvc, logger)

	// ======================
	// SERVER
	// ======================
	logger.Info("starting server", zap.String("port", cfg.Port))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
