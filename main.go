package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pillar-log-system/handlers"
	"pillar-log-system/middleware"
	"pillar-log-system/models"
	"pillar-log-system/services"
	"pillar-log-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // attachments are single images
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID",
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
		&models.User{},
		&models.DailyLog{},
		&models.Endorsement{},
		&models.WeeklyReview{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// Draft staging store: Redis when configured, in-memory (with janitor)
	// otherwise.
	var draftStore services.DraftStore
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatal("invalid REDIS_URL:", err)
		}
		draftStore = services.NewRedisDraftStore(redis.NewClient(opts))
		log.Println("✅ Draft staging backed by Redis")
	} else {
		memStore := services.NewMemoryDraftStore()
		services.StartDraftJanitor(memStore)
		draftStore = memStore
		log.Println("⚠️  REDIS_URL not set — draft staging is in-memory (single node)")
	}

	generator := services.NewGeneratorClientFromEnv()
	if generator == nil {
		log.Fatal("GENERATOR_API_URL / GENERATOR_API_KEY environment variables not set")
	}

	draftService := services.NewDraftService(draftStore)
	progressionService := services.NewProgressionService(db)
	logService := services.NewLogService(db, progressionService, draftService)
	dashboardService := services.NewDashboardService(db)
	endorsementService := services.NewEndorsementService(db)
	reviewService := services.NewReviewService(db, generator)
	userService := services.NewUserService(db)

	handlers.SetupProfileRoutes(app, userService)
	handlers.SetupLogRoutes(app, logService, draftService)
	handlers.SetupDashboardRoutes(app, dashboardService)
	handlers.SetupSocialRoutes(app, dashboardService, endorsementService)
	handlers.SetupReviewRoutes(app, reviewService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Server running on http://localhost:5300")
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
