package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/aidhubhq/aidhub/internal/api/handlers"
	"github.com/aidhubhq/aidhub/internal/config"
	"github.com/aidhubhq/aidhub/internal/domain"
	"github.com/aidhubhq/aidhub/internal/genai"
	"github.com/aidhubhq/aidhub/internal/jobs"
	"github.com/aidhubhq/aidhub/internal/redact"
	"github.com/aidhubhq/aidhub/internal/repository"
	"github.com/aidhubhq/aidhub/internal/server"
	"github.com/aidhubhq/aidhub/internal/service"
	"github.com/aidhubhq/aidhub/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the aidhub API server and the background triage worker",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.SentryDSN != "" {
		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: cfg.SentrySampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	tenantRepo := repository.NewTenantRepository(pool)
	apiKeyRepo := repository.NewAPIKeyRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	studentEventRepo := repository.NewStudentEventRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	knowledgeRepo := repository.NewKnowledgeRepository(pool)
	suggestionRepo := repository.NewSuggestionRepository(pool)
	triageJobRepo := repository.NewTriageJobRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	uuidGen := &service.DefaultUUIDGenerator{}
	authSvc := service.NewAuthService(tenantRepo, apiKeyRepo, uuidGen)

	if cfg.InitTenantName != "" {
		if err := bootstrapInitialTenant(ctx, cfg, tenantRepo, authSvc); err != nil {
			return fmt.Errorf("failed to bootstrap initial tenant: %w", err)
		}
	}

	generator := genai.NewClientWithConfig(genai.Config{
		APIKey:  cfg.GenerationAPIKey,
		Model:   cfg.GenerationModel,
		BaseURL: cfg.GenerationBaseURL,
	})
	masker := redact.NewRedactor()

	ticketSvc := service.NewTicketServiceWithTx(ticketRepo, messageRepo, triageJobRepo, txRunner)
	studentSvc := service.NewStudentService(studentRepo, studentEventRepo)
	knowledgeSvc := service.NewKnowledgeService(knowledgeRepo)
	searchSvc := service.NewKnowledgeSearchService(knowledgeRepo)
	draftSvc := service.NewDraftService(searchSvc, masker, generator, suggestionRepo)
	triageSvc := service.NewTriageService(masker, generator, suggestionRepo)

	var triageWorker *jobs.Worker
	if cfg.HasGeneration() {
		triageProcessor := jobs.NewTriageWorker(triageJobRepo, triageSvc, ticketSvc)
		triageWorker = jobs.NewWorker(triageProcessor, cfg.TriagePollInterval)
		go triageWorker.Start(ctx)
		log.Println("triage worker started")
	} else {
		log.Println("triage worker disabled: GENERATION_API_KEY not set")
	}

	routerCfg := server.RouterConfig{
		AuthValidator:    authSvc,
		TicketHandler:    handlers.NewTicketHandler(ticketSvc),
		StudentHandler:   handlers.NewStudentHandler(studentSvc),
		KnowledgeHandler: handlers.NewKnowledgeHandler(knowledgeSvc, searchSvc),
		AIHandler:        handlers.NewAIHandler(draftSvc, triageSvc, ticketSvc, studentSvc),
		AuthHandler:      handlers.NewAuthHandler(authSvc),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if triageWorker != nil {
		triageWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func bootstrapInitialTenant(ctx context.Context, cfg *config.Config, tenantRepo *repository.TenantRepository, authSvc *service.AuthService) error {
	tenant, err := tenantRepo.GetByName(ctx, cfg.InitTenantName)
	if err != nil && !errors.Is(err, domain.ErrTenantNotFound) {
		return fmt.Errorf("failed to check existing tenant: %w", err)
	}

	if tenant == nil {
		tenant, err = authSvc.CreateTenant(ctx, cfg.InitTenantName, "")
		if err != nil {
			return fmt.Errorf("failed to create tenant: %w", err)
		}
		log.Printf("bootstrap: created tenant '%s' (id: %s)", tenant.Name, tenant.ID)
	} else {
		log.Printf("bootstrap: tenant '%s' already exists (id: %s)", tenant.Name, tenant.ID)
	}

	if cfg.InitAPIKey != "" {
		if !service.IsValidAPIToken(cfg.InitAPIKey) {
			return fmt.Errorf("invalid AIDHUB_INIT_API_KEY format (expected 'adh_<64 hex chars>')")
		}

		// An already-registered token validates to its tenant
		if _, err := authSvc.ValidateAPIKey(ctx, cfg.InitAPIKey); err == nil {
			log.Println("bootstrap: API key already exists")
			return nil
		}

		if err := authSvc.CreateAPIKeyWithToken(ctx, tenant.ID, "bootstrap", cfg.InitAPIKey); err != nil {
			return fmt.Errorf("failed to create API key: %w", err)
		}
		log.Printf("bootstrap: created API key")
	}

	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, verr := m.Version()
	if verr != nil && verr != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", verr)
	}

	if verr == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
