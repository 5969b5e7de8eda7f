package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eventmanagement/config"
	_ "eventmanagement/docs"
	"eventmanagement/internal/adapters/auth"
	"eventmanagement/internal/adapters/email"
	"eventmanagement/internal/adapters/idempotency"
	"eventmanagement/internal/adapters/payment"
	httpdelivery "eventmanagement/internal/delivery/http"
	"eventmanagement/internal/delivery/http/controllers"
	"eventmanagement/internal/delivery/http/middleware"
	"eventmanagement/internal/domain"
	"eventmanagement/internal/metrics"
	"eventmanagement/internal/repository/postgres"
	"eventmanagement/internal/services"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var (
		port        string
		autoMigrate bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server and begin accepting API requests.

The server connects to Postgres, optionally to Redis for webhook de-duplication,
and shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(port, autoMigrate)
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func runServer(port string, autoMigrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if port != "" {
		cfg.Port = port
	}

	logger := config.NewLogger()
	metrics.Init()

	if autoMigrate {
		if err := postgres.MigrateUp(cfg.DBUrl); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	dedup := idempotency.NewNoopDeduplicator()
	if cfg.RedisURL != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		client, err := idempotency.NewRedisClient(pingCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			return err
		}
		defer client.Close()
		dedup = idempotency.NewRedisDeduplicator(client)
	} else {
		logger.Warn("REDIS_URL not set, webhook deliveries are not de-duplicated")
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHandler(cfg, db, dedup, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, nil
}

// newHandler wires repositories, adapters, services and controllers into the HTTP handler.
func newHandler(cfg *config.Config, db *sql.DB, dedup domain.WebhookDeduplicator, logger *slog.Logger) http.Handler {
	timeout := cfg.RequestTimeout

	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)

	jwt := auth.NewJWT(cfg.JWTSecret)
	stripe := payment.NewStripe(payment.StripeConfig{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
	}, logger)
	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, logger, timeout)
	eventService := services.NewEventService(eventRepo, userRepo, notificationService, logger, timeout)
	checkoutService := services.NewCheckoutService(eventRepo, userRepo, stripe, stripe, dedup, emailService,
		services.CheckoutConfig{
			Currency:    cfg.PaymentCurrency,
			FrontendURL: cfg.FrontendURL,
			DedupTTL:    cfg.WebhookDedupTTL,
		}, logger, timeout)
	registrationService := services.NewRegistrationService(eventRepo, userRepo, checkoutService, emailService, logger, timeout)
	authService := services.NewAuthService(userRepo, auth.NewBcryptHasher(bcrypt.DefaultCost), jwt, cfg.JWTExpiry, logger, timeout)
	adminService := services.NewAdminService(userRepo, logger, timeout)
	reviewService := services.NewReviewService(reviewRepo, eventRepo, userRepo, logger, timeout)

	return httpdelivery.NewHandler(httpdelivery.Controllers{
		Event:        controllers.NewEventController(logger, eventService),
		Attendee:     controllers.NewAttendeeController(logger, registrationService),
		Checkout:     controllers.NewCheckoutController(logger, checkoutService),
		Organizer:    controllers.NewOrganizerController(logger, eventService),
		Auth:         controllers.NewAuthController(logger, authService),
		Admin:        controllers.NewAdminController(logger, adminService),
		Notification: controllers.NewNotificationController(logger, notificationService),
		Review:       controllers.NewReviewController(logger, reviewService),
	}, httpdelivery.RouterConfig{
		Logger:         logger,
		TokenVerifier:  jwt,
		LoginLimiter:   middleware.NewRateLimiter(cfg.LoginRatePerMinute),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
}
