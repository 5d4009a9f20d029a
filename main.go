package main

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/selin/goaltrack-api/internal/cache"
	"github.com/selin/goaltrack-api/internal/config"
	"github.com/selin/goaltrack-api/internal/database"
	"github.com/selin/goaltrack-api/internal/handlers"
	"github.com/selin/goaltrack-api/internal/logger"
	"github.com/selin/goaltrack-api/internal/metrics"
	"github.com/selin/goaltrack-api/internal/middleware"
	"github.com/selin/goaltrack-api/internal/routes"
	"github.com/selin/goaltrack-api/internal/services"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	logger.Init(cfg.Env)
	defer logger.Log.Sync()

	if err := database.Connect(cfg); err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(); err != nil {
		logger.Log.Fatal("failed to run migrations", zap.Error(err))
	}

	metrics.Register()
	cache.Init(cfg.RedisAddr)
	services.InitPush(cfg.FCMServiceAccount)
	middleware.Init(cfg.JWTSecret)
	handlers.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New())
	app.Use(metrics.Middleware())

	routes.Setup(app)

	logger.Log.Info("server starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
