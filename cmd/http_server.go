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

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/accesscontrol"
	authzPostgres "github.com/frahmantamala/center-access/internal/accesscontrol/postgres"
	"github.com/frahmantamala/center-access/internal/auth"
	authPostgres "github.com/frahmantamala/center-access/internal/auth/postgres"
	"github.com/frahmantamala/center-access/internal/center"
	centerPostgres "github.com/frahmantamala/center-access/internal/center/postgres"
	"github.com/frahmantamala/center-access/internal/core/events"
	"github.com/frahmantamala/center-access/internal/membership"
	membershipPostgres "github.com/frahmantamala/center-access/internal/membership/postgres"
	"github.com/frahmantamala/center-access/internal/transport/middleware"
	"github.com/frahmantamala/center-access/internal/transport/rest"
	"github.com/frahmantamala/center-access/internal/transport/swagger"
	"github.com/frahmantamala/center-access/internal/user"
	userPostgres "github.com/frahmantamala/center-access/internal/user/postgres"
	"github.com/frahmantamala/center-access/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const openapiPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config            *internal.Config
	GormDB            *gorm.DB
	SqlxDB            *sqlx.DB
	Router            *chi.Mux
	Logger            *slog.Logger
	AuthzStore        *accesscontrol.Store
	AuthHandler       *auth.Handler
	UserHandler       *user.Handler
	CenterHandler     *center.Handler
	MembershipHandler *membership.Handler
	AuthzHandler      *accesscontrol.Handler
	Guard             *middleware.PermissionGuard
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := deps.AuthzStore.StartRefreshing(ctx, deps.Config.Authz.RefreshInterval); err != nil {
		deps.Logger.Error("initial authz snapshot load failed", "error", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(
		deps.Router,
		deps.SqlxDB.DB,
		deps.AuthHandler,
		deps.UserHandler,
		deps.CenterHandler,
		deps.MembershipHandler,
		deps.AuthzHandler,
		deps.Guard,
		deps.Logger,
	)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

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
		slog.Info("Received signal, shutting down...", "signal", sig)
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.SqlxDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	gormDB, sqlxDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if _, err := os.Stat(openapiPath); err == nil {
		if err := swagger.ValidateSpec(context.Background(), openapiPath); err != nil {
			return nil, err
		}
	}

	bus := events.NewEventBus(lg)

	// access control
	authzRepo := authzPostgres.NewRepository(gormDB)
	authzStore := accesscontrol.NewStore(authzRepo, lg)
	membershipLookup := membershipPostgres.NewLookup(gormDB)
	authzService := accesscontrol.NewService(authzStore, membershipLookup, authzRepo, bus, lg)
	slugResolver := centerPostgres.NewSlugResolver(gormDB)
	authzHandler := accesscontrol.NewHandler(authzService, slugResolver)
	guard := middleware.NewPermissionGuard(authzService, slugResolver, lg)

	// auth
	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(sqlxDB), tokenGen, config.Security.BCryptCost)
	authHandler := auth.NewHandler(authService)

	// users, centers, memberships
	userService := user.NewService(userPostgres.NewRepository(sqlxDB), lg)
	userHandler := user.NewHandler(userService)

	centerService := center.NewService(centerPostgres.NewCenterRepository(gormDB), lg)
	centerHandler := center.NewHandler(centerService)

	membershipService := membership.NewService(membershipPostgres.NewRepository(gormDB), bus, lg)
	membershipHandler := membership.NewHandler(membershipService, slugResolver)

	return &Dependencies{
		Config:            config,
		GormDB:            gormDB,
		SqlxDB:            sqlxDB,
		Router:            chi.NewRouter(),
		Logger:            lg,
		AuthzStore:        authzStore,
		AuthHandler:       authHandler,
		UserHandler:       userHandler,
		CenterHandler:     centerHandler,
		MembershipHandler: membershipHandler,
		AuthzHandler:      authzHandler,
		Guard:             guard,
	}, nil
}

// initDB opens one pgx-backed connection pool and exposes it both ways
// the repositories need it: gorm for the write-side modules, sqlx for
// the narrow read-only queries.
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	const driver = "pgx"

	sqlxDB, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlxDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlxDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlxDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlxDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlxDB.Ping(); err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlxDB.DB}), &gorm.Config{})
	if err != nil {
		_ = sqlxDB.Close()
		return nil, nil, fmt.Errorf("failed to open gorm over db connection: %w", err)
	}

	return gormDB, sqlxDB, nil
}
