package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"catalogapi/internal/auth"
	"catalogapi/internal/config"
	"catalogapi/internal/database"
	"catalogapi/internal/database/migration"
	handlers "catalogapi/internal/http/handler"
	"catalogapi/internal/http/middleware"
	"catalogapi/internal/otel"
	"catalogapi/internal/realtime"
	"catalogapi/internal/repository/postgres"
	"catalogapi/internal/service"
	"catalogapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.Local

	ctx := context.Background()

	// Tracing is a no-op unless OTEL_SDK_ENABLED=true.
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	issuer, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	if err != nil {
		log.Fatalf("failed to initialize token issuer: %v", err)
	}

	presignTTL := time.Duration(cfg.Auth.PresignTTLMin) * time.Minute
	hub := realtime.NewHub()

	// Initialize repositories and services
	bookRepo := postgres.NewBookPostgres(db)
	linkRepo := postgres.NewBookAuthorPostgres(db)
	authorRepo := postgres.NewAuthorPostgres(db)
	orgRepo := postgres.NewOrgPostgres(db)
	userRepo := postgres.NewUserPostgres(db)
	readerRepo := postgres.NewReaderPostgres(db)
	requestRepo := postgres.NewRequestPostgres(db)
	ticketRepo := postgres.NewTicketPostgres(db)
	attachRepo := postgres.NewAttachmentPostgres(db)
	reportRepo := postgres.NewReportPostgres(db)

	svcs := handlers.Services{
		Session:     service.NewSessionService(userRepo, issuer),
		Books:       service.NewBookService(bookRepo, linkRepo, objStore, hub, cfg.MinIO.Buckets.Covers, cfg.MinIO.Buckets.BookFiles),
		Authors:     service.NewAuthorService(authorRepo, userRepo, orgRepo, hub, cfg.InstitutionEmailDomain),
		Attachments: service.NewAttachmentService(attachRepo, bookRepo, objStore, hub, cfg.MinIO.Buckets.Attachments, presignTTL),
		Users:       service.NewUserService(userRepo, objStore, cfg.MinIO.Buckets.Photos, presignTTL),
		Readers:     service.NewReaderService(readerRepo),
		Requests:    service.NewRequestService(requestRepo, readerRepo, bookRepo, hub),
		Tickets:     service.NewTicketService(ticketRepo, hub),
		Reports:     service.NewReportService(reportRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, issuer, hub, svcs)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
