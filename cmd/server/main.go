package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"github.com/kennethlove/practice-pycon/config"
	_ "github.com/kennethlove/practice-pycon/docs"
	authadapter "github.com/kennethlove/practice-pycon/internal/adapters/auth"
	emailadapter "github.com/kennethlove/practice-pycon/internal/adapters/email"
	"github.com/kennethlove/practice-pycon/internal/adapters/markdown"
	deliveryhttp "github.com/kennethlove/practice-pycon/internal/delivery/http"
	"github.com/kennethlove/practice-pycon/internal/delivery/http/controllers"
	"github.com/kennethlove/practice-pycon/internal/delivery/http/middleware"
	"github.com/kennethlove/practice-pycon/internal/domain"
	"github.com/kennethlove/practice-pycon/internal/repository/postgres"
	"github.com/kennethlove/practice-pycon/internal/services"
	"github.com/kennethlove/practice-pycon/migrations"
)

const serviceTimeout = 5 * time.Second

// @title Practice PyCon API
// @version 1.0
// @description Track the conference talks you want to attend and rate the ones you saw.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := migrations.Up(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	userRepo := postgres.NewUserRepository(db)
	listRepo := postgres.NewTalkListRepository(db)
	talkRepo := postgres.NewTalkRepository(db)

	issuer, verifier := authadapter.NewJWTTokens(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	notesRenderer := markdown.NewRenderer()
	mailer := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	}, logger)

	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())
	authService := services.NewAuthService(userRepo, listRepo, hasher, issuer, emailService, logger, cfg.JWTExpiry)
	listService := services.NewTalkListService(listRepo, talkRepo, serviceTimeout)
	window := domain.Window{Start: cfg.ConferenceStart, End: cfg.ConferenceEnd}
	talkService := services.NewTalkService(listRepo, talkRepo, notesRenderer, window, serviceTimeout)

	authController := controllers.NewAuthController(logger, authService)
	listController := controllers.NewTalkListController(logger, listService, talkService)
	talkController := controllers.NewTalkController(logger, talkService)

	mux := deliveryhttp.NewRouter(authController, listController, talkController, verifier)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, mux))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("http shutdown error", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("http server error", "error", err)
		os.Exit(1)
	}
}
