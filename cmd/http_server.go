package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/worktrack/payroll/internal"
	"github.com/worktrack/payroll/internal/auth"
	authPostgres "github.com/worktrack/payroll/internal/auth/postgres"
	"github.com/worktrack/payroll/internal/rate"
	ratePostgres "github.com/worktrack/payroll/internal/rate/postgres"
	"github.com/worktrack/payroll/internal/stats"
	"github.com/worktrack/payroll/internal/timetrack"
	trackPostgres "github.com/worktrack/payroll/internal/timetrack/postgres"
	"github.com/worktrack/payroll/internal/transport/rest"
	"github.com/worktrack/payroll/internal/user"
	userPostgres "github.com/worktrack/payroll/internal/user/postgres"
	"github.com/worktrack/payroll/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	registerRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func registerRoutes(deps *Dependencies) {
	sec := deps.Config.Security

	tokenGen := auth.NewJWTTokenGenerator(
		sec.AccessTokenSecret,
		sec.RefreshTokenSecret,
		sec.AccessTokenDuration,
		sec.RefreshTokenDuration,
	)

	authRepo := authPostgres.NewRepository(deps.Gorm)
	rateRepo := ratePostgres.NewRateRepository(deps.Gorm)
	trackRepo := trackPostgres.NewTimeTrackRepository(deps.Gorm)
	userRepo := userPostgres.NewUserRepository(deps.Gorm)

	authService := auth.NewService(authRepo, tokenGen, sec.BCryptCost)
	rateService := rate.NewService(rateRepo, deps.Logger)
	trackService := timetrack.NewService(trackRepo, rateService, deps.Logger)
	userService := user.NewService(userRepo, rateService, sec.BCryptCost, deps.Logger)
	statsService := stats.NewService(trackService, rateService, userRepo, deps.Logger)

	rest.RegisterAllRoutes(
		deps.Router,
		deps.DB.DB,
		auth.NewHandler(authService),
		user.NewHandler(userService),
		rate.NewHandler(rateService),
		timetrack.NewHandler(trackService),
		stats.NewHandler(statsService),
		deps.Logger,
	)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		Gorm:   gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
