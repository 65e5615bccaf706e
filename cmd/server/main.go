package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/15-y-nakamura/support-rabbit-sub001/internal/api"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/events"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/mail"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/repository"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/s3"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/service"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/tracing"
	"github.com/15-y-nakamura/support-rabbit-sub001/internal/weather"
	_ "github.com/15-y-nakamura/support-rabbit-sub001/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables")
	}

	api.SetupGlobalHandler("support-rabbit-api")

	shutdownTracer, err := tracing.InitTracerProvider("support-rabbit-api")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}
	eventPublisher, err := events.NewNatsPublisher(natsURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	log.Println("Successfully connected to NATS.")

	mailer, err := mail.NewSMTPMailer()
	if err != nil {
		log.Fatalf("Failed to initialize SMTP mailer: %v", err)
	}

	avatarPresigner, err := s3.NewAvatarPresigner()
	if err != nil {
		log.Fatalf("Failed to initialize S3 presigner: %v", err)
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:3000"
	}

	userRepo := repository.NewPostgresUserRepository(db)
	tokenRepo := repository.NewPostgresTokenRepository(db)
	achievementRepo := repository.NewPostgresAchievementRepository(db)
	noticeRepo := repository.NewPostgresNoticeRepository(db)

	authService := service.NewAuthService(userRepo, tokenRepo, eventPublisher, mailer, appURL)
	userService := service.NewUserService(userRepo)
	achievementService := service.NewAchievementService(achievementRepo, eventPublisher)
	noticeService := service.NewNoticeService(noticeRepo)

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService, avatarPresigner)
	achievementHandler := api.NewAchievementHandler(achievementService)
	noticeHandler := api.NewNoticeHandler(noticeService)
	weatherHandler := api.NewWeatherHandler(weather.NewClient())

	app := fiber.New()
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "support-rabbit-api"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiRoutes := app.Group("/api")
	apiRoutes.Post("/register", authHandler.Register)
	apiRoutes.Post("/login", authHandler.Login)
	apiRoutes.Post("/password/email", authHandler.RequestPasswordReset)
	apiRoutes.Post("/password/reset", authHandler.ResetPassword)

	apiRoutes.Use(api.BearerAuth(authService))
	apiRoutes.Post("/logout", authHandler.Logout)

	apiRoutes.Get("/user", userHandler.GetProfile)
	apiRoutes.Put("/user", userHandler.UpdateProfile)
	apiRoutes.Put("/user/password", userHandler.ChangePassword)
	apiRoutes.Delete("/user", userHandler.DeleteAccount)
	apiRoutes.Post("/user/device-token", userHandler.RegisterDeviceToken)
	apiRoutes.Post("/user/avatar/upload-url", userHandler.GetAvatarUploadURL)

	apiRoutes.Get("/achievements", achievementHandler.ListAchievements)
	apiRoutes.Post("/achievements", achievementHandler.CreateAchievement)

	apiRoutes.Get("/notices", noticeHandler.ListNotices)
	apiRoutes.Post("/notices/read", noticeHandler.MarkNoticesRead)

	apiRoutes.Get("/weather", weatherHandler.GetCurrentWeather)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8000"
	}

	log.Printf("Listening support-rabbit-api on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func connectDB() *sqlx.DB {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sqlx.Connect("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName,
	)

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
