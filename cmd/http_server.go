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

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/assignment"
	assignmentPostgres "github.com/adiwarna/identity-admin/internal/assignment/postgres"
	"github.com/adiwarna/identity-admin/internal/auth"
	authPostgres "github.com/adiwarna/identity-admin/internal/auth/postgres"
	"github.com/adiwarna/identity-admin/internal/businessunit"
	buPostgres "github.com/adiwarna/identity-admin/internal/businessunit/postgres"
	"github.com/adiwarna/identity-admin/internal/core/events"
	"github.com/adiwarna/identity-admin/internal/functionalrole"
	rolePostgres "github.com/adiwarna/identity-admin/internal/functionalrole/postgres"
	"github.com/adiwarna/identity-admin/internal/organization"
	orgPostgres "github.com/adiwarna/identity-admin/internal/organization/postgres"
	"github.com/adiwarna/identity-admin/internal/transport"
	"github.com/adiwarna/identity-admin/internal/transport/rest"
	"github.com/adiwarna/identity-admin/internal/transport/swagger"
	"github.com/adiwarna/identity-admin/internal/user"
	userPostgres "github.com/adiwarna/identity-admin/internal/user/postgres"
	"github.com/adiwarna/identity-admin/pkg/logger"

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
	GormDB *gorm.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := swagger.ValidateSpec("./api/openapi.yml"); err != nil {
		deps.Logger.Warn("openapi spec validation failed", "error", err)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
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

func setupRoutes(deps *Dependencies) {
	lg := deps.Logger
	baseHandler := transport.NewBaseHandler(lg)

	eventBus := events.NewEventBus(lg)
	registerAuditSubscribers(eventBus, lg)

	// repositories share the GORM session over the pgx pool
	orgRepo := orgPostgres.NewOrganizationRepository(deps.GormDB)
	buRepo := buPostgres.NewBusinessUnitRepository(deps.GormDB)
	roleRepo := rolePostgres.NewFunctionalRoleRepository(deps.GormDB)
	assignmentRepo := assignmentPostgres.NewAssignmentRepository(deps.GormDB)
	userRepo := userPostgres.NewUserRepository(deps.GormDB)
	authRepo := authPostgres.NewAuthRepository(deps.GormDB)

	orgService := organization.NewService(orgRepo, lg)
	buValidator := businessunit.NewValidator(buRepo, lg)
	buService := businessunit.NewService(buRepo, orgRepo, buValidator, eventBus, lg)
	roleService := functionalrole.NewService(roleRepo, lg)
	resolver := assignment.NewResolver(assignmentRepo, lg)
	assignmentService := assignment.NewService(assignmentRepo, resolver, eventBus, lg)
	userService := user.NewService(userRepo, buRepo, deps.Config.Security.BCryptCost, lg)

	tokenGenerator := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret)
	tokenGenerator.AccessTokenTTL = deps.Config.Security.AccessTokenDuration
	tokenGenerator.RefreshTokenTTL = deps.Config.Security.RefreshTokenDuration
	mailer := &auth.LogMailer{Logger: lg}
	authService := auth.NewService(authRepo, tokenGenerator, mailer,
		deps.Config.Security.TOTPIssuer, deps.Config.Security.EmailOTPTTL, eventBus, lg)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(baseHandler, authService),
		User:         user.NewHandler(baseHandler, userService),
		Organization: organization.NewHandler(baseHandler, orgService),
		BusinessUnit: businessunit.NewHandler(baseHandler, buService),
		Role:         functionalrole.NewHandler(baseHandler, roleService),
		Assignment:   assignment.NewHandler(baseHandler, assignmentService, resolver),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, lg)
}

// registerAuditSubscribers attaches the audit log handlers for the domain
// events the services publish.
func registerAuditSubscribers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypeRolesBulkAssigned, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: roles bulk assigned",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeRoleDisabled, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: role disabled",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeBusinessUnitReparented, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: business unit reparented",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypeUserLoggedIn, func(ctx context.Context, event events.Event) error {
		lg.Info("audit: user logged in",
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	})
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm session: %w", err)
	}

	return &Dependencies{
		Config: config,
		Logger: logger.L(),
		DB:     db,
		GormDB: gormDB,
		Router: chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
