package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Mreoch1/Survivor-Fan-Game/handlers"
	"github.com/Mreoch1/Survivor-Fan-Game/middleware"
	"github.com/Mreoch1/Survivor-Fan-Game/models"
	"github.com/Mreoch1/Survivor-Fan-Game/services"
	"github.com/Mreoch1/Survivor-Fan-Game/utils"
	"github.com/Mreoch1/Survivor-Fan-Game/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB — photo uploads only
	})

	// 🔐❗ GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles, X-Service-Token",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Tribe{},
		&models.Contestant{},
		&models.Episode{},
		&models.WinnerPick{},
		&models.TribePick{},
		&models.VoteOutPick{},
		&models.SeasonScore{},
		&models.EpisodeProcessed{},
		&models.PoolMember{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	scoreConfig := services.LoadScoreConfig()
	log.Printf("🏝️  Active season: %d (tribe immunity +%d, vote-out guess +%d)",
		scoreConfig.Season, scoreConfig.TribeImmunityPoints, scoreConfig.VoteOutPoints)

	episodeService := services.NewEpisodeService(db, scoreConfig)
	pickService := services.NewPickService(db, scoreConfig)
	scoreService := services.NewScoreService(db, scoreConfig)
	rosterService := services.NewRosterService(db)

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("POOL_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("POOL_SERVICE_TOKEN environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	memberSyncWorker := workers.NewMemberSyncWorker(db, authServiceURL, "/api/v1/public/profiles", serviceToken)
	memberSyncWorker.Start(ctx)

	scoreService.StartSweepScheduler()

	handlers.SetupRoutes(app, episodeService, pickService, scoreService, rosterService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Member Sync Worker running")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
