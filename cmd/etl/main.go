package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	domainRepo "skyfleet-etl/internal/domain/repository"
	"skyfleet-etl/internal/infrastructure/config"
	"skyfleet-etl/internal/infrastructure/oauth"
	"skyfleet-etl/internal/infrastructure/persistence"
	"skyfleet-etl/internal/interface/repository"
	"skyfleet-etl/internal/interface/schedapi"
	"skyfleet-etl/internal/usecase"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/metrics"
	"skyfleet-etl/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	operator := flag.String("operator", "", "operator profile, selects .env.<operator>")
	initial := flag.Bool("initial", false, "run a full initial load instead of an incremental refresh")
	flag.Parse()

	// Load configuration first so the logger gets its level
	cfg, err := config.LoadConfig(*operator)
	if err != nil {
		logger.NewLogger("INFO").Fatal("Failed to load config", "error", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Starting SkyFleet ETL", "version", cfg.AppVersion, "operator", cfg.Operator)

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel the run on SIGINT/SIGTERM; a half-finished step commits or
	// rolls back on its own, staging cleanup handles the rest.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Warn("Received signal, cancelling run", "signal", sig)
		cancel()
	}()

	log.Info("Connecting to PostgreSQL warehouse")
	gormDB, err := persistence.NewPostgresDB(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", "error", err)
	}

	// Set up repositories
	lookupRepo := repository.NewGormLookupRepository(gormDB, log)
	movementRepo := repository.NewGormMovementRepository(gormDB, log)
	crewRepo := repository.NewGormCrewAssignmentRepository(gormDB, log)
	derivationRepo := repository.NewGormDerivationRepository(gormDB, log)

	// The raw-extract archive is optional; without a Mongo DSN the run
	// simply skips archiving.
	var archive domainRepo.ExtractArchiveRepository
	if cfg.MongoURI != "" {
		log.Info("Connecting to MongoDB extract archive")
		mongoClient, err := persistence.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB", "error", err)
		}
		defer mongoClient.Disconnect(context.Background())
		archive = repository.NewMongoExtractArchiveRepository(persistence.GetDatabase(mongoClient, cfg.MongoDB))
	}

	m := metrics.NewMetrics("skyfleet_etl")

	// Set up the provider client
	tokenSource := oauth.NewProviderTokenSource(ctx, cfg.ProviderBaseURL, cfg.ProviderClientID, cfg.ProviderClientSecret)
	apiClient := schedapi.NewClient(ctx, cfg.ProviderBaseURL, tokenSource, log)

	transformer := usecase.NewFlightTransformer(log)
	pipeline := usecase.NewFlightPipeline(lookupRepo, movementRepo, crewRepo, transformer, apiClient, m, log)
	derivation := usecase.NewCrewDerivation(derivationRepo, log)

	runner := usecase.NewETLRunner(
		cfg.Operator,
		apiClient,
		archive,
		pipeline,
		derivation,
		utils.LoadWindow{DaysPast: cfg.InitialLoadDaysPast, DaysFuture: cfg.InitialLoadDaysFuture},
		utils.LoadWindow{DaysPast: cfg.RefreshDaysPast, DaysFuture: cfg.RefreshDaysFuture},
		log,
	)

	// Set up HTTP server for metrics
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Healthy"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", "error", err)
		}
	}()

	result, runErr := runner.LoadFlightData(ctx, *initial)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}

	if runErr != nil {
		log.Fatal("Flight data load failed", "error", runErr)
	}
	log.Info("Run complete",
		"movements", result.MovementLoaded,
		"demand", result.DemandLoaded,
		"crewAssignments", result.CrewAssignmentsLoaded,
		"crewShifts", result.CrewShiftsLoaded)
}
