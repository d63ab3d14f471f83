package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/summari/telemed/internal/config"
	"github.com/summari/telemed/internal/domain/analytics"
	"github.com/summari/telemed/internal/domain/consultation"
	"github.com/summari/telemed/internal/domain/identity"
	"github.com/summari/telemed/internal/domain/medicalrecord"
	"github.com/summari/telemed/internal/domain/scheduling"
	"github.com/summari/telemed/internal/domain/settings"
	"github.com/summari/telemed/internal/domain/workflow"
	"github.com/summari/telemed/internal/platform/blobstore"
	"github.com/summari/telemed/internal/platform/db"
	"github.com/summari/telemed/internal/platform/docgen"
	"github.com/summari/telemed/internal/platform/middleware"
	"github.com/summari/telemed/internal/platform/notification"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "telemed-server",
		Short: "Telemedicine scheduling and consultation API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// File storage for consultation documents
	store, err := blobstore.NewFSStore(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize upload storage")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeoutDuration()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	api := e.Group("/api/v1")
	api.Use(middleware.RateLimit(int(cfg.RateLimitRPS), cfg.RateLimitBurst))

	// -- Register domain handlers --

	// Identity
	userRepo := identity.NewUserRepoPG(pool)
	identitySvc := identity.NewService(userRepo)
	identitySvc.SetStatsRepo(identity.NewStatsRepoPG(pool))
	identity.NewHandler(identitySvc).RegisterRoutes(api)

	// Scheduling
	apptRepo := scheduling.NewAppointmentRepoPG(pool)
	schedulingSvc := scheduling.NewService(apptRepo)
	scheduling.NewHandler(schedulingSvc).RegisterRoutes(api)

	// Consultations
	consultationRepo := consultation.NewRepoPG(pool)
	consultationSvc := consultation.NewService(consultationRepo, &appointmentGateway{svc: schedulingSvc})
	consultation.NewHandler(consultationSvc).RegisterRoutes(api)

	// Medical records
	recordRepo := medicalrecord.NewRepoPG(pool)
	recordSvc := medicalrecord.NewService(recordRepo)
	medicalrecord.NewHandler(recordSvc).RegisterRoutes(api)

	// Document generation
	docgenSource := &documentSource{svc: consultationSvc}
	docgen.NewHandler(docgenSource, &documentStorage{store: store}).RegisterRoutes(api)

	// Uploads
	blobstore.NewHandler(store).RegisterRoutes(api)

	// Notifications
	dispatcher := notification.NewDispatcher(
		&consultationSource{svc: consultationSvc},
		notification.NewLogSender(logger),
		notification.NewTemplateEngine(),
	)
	notification.NewHandler(dispatcher).RegisterRoutes(api)

	// Workflow sessions
	workflowSvc := workflow.NewService(
		workflow.NewMemoryStore(),
		&workflowDirectory{svc: identitySvc},
		&workflowAppointments{svc: schedulingSvc},
		&workflowConsultations{svc: consultationSvc},
		&workflowDispatcher{dispatcher: dispatcher},
	)
	workflow.NewHandler(workflowSvc).RegisterRoutes(api)

	// Admin analytics
	analyticsRepo := analytics.NewRepoPG(pool)
	analyticsSvc := analytics.NewService(analyticsRepo)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(api)

	// Admin settings
	settingsRepo := settings.NewRepoPG(pool)
	settingsSvc := settings.NewService(settingsRepo)
	settings.NewHandler(settingsSvc).RegisterRoutes(api)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
