package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/gw2hardcore/contest-server/external/gw2"
	"github.com/gw2hardcore/contest-server/internal/config"
	"github.com/gw2hardcore/contest-server/internal/domain/event"
	"github.com/gw2hardcore/contest-server/internal/domain/zone"
	cacherepo "github.com/gw2hardcore/contest-server/internal/infrastructure/repository/cache"
	"github.com/gw2hardcore/contest-server/internal/infrastructure/repository/postgres"
	"github.com/gw2hardcore/contest-server/internal/interfaces/httpapi"
	basecache "github.com/gw2hardcore/contest-server/internal/platform/cache"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
	"github.com/gw2hardcore/contest-server/internal/platform/resilience"
	"github.com/gw2hardcore/contest-server/internal/platform/token"
	"github.com/gw2hardcore/contest-server/internal/usecase"
)

// NewHTTPServer wires repositories, use cases and the HTTP surface. The
// returned cleanup closes the database pool and must run after server
// shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	db, err := connectDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := db.Close

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		_ = cleanup()
		return nil, nil, fmt.Errorf("bootstrap seed: %w", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	characterRepo := postgres.NewCharacterRepository(db)

	var eventTypeRepo event.Repository = postgres.NewEventTypeRepository(db)
	var zoneRepo zone.Repository = postgres.NewForbiddenZoneRepository(db)
	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		eventTypeRepo = cacherepo.NewEventTypeRepository(eventTypeRepo, store)
		zoneRepo = cacherepo.NewForbiddenZoneRepository(zoneRepo, store)
	}

	gw2Client := gw2.NewClient(gw2.ClientConfig{
		BaseURL:    cfg.GW2BaseURL,
		Timeout:    cfg.GW2Timeout,
		MaxRetries: cfg.GW2MaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.GW2CircuitEnabled,
			FailureThreshold: cfg.GW2CircuitFailureCount,
			OpenTimeout:      cfg.GW2CircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.GW2CircuitHalfOpenMaxReq,
		},
	})

	registrationSvc := usecase.NewRegistrationService(accountRepo, gw2Client, token.NewUUIDGenerator(), logger)
	ingestionSvc := usecase.NewIngestionService(accountRepo, characterRepo, eventTypeRepo, zoneRepo, usecase.NewEventValidator(), logger)
	querySvc := usecase.NewContestQueryService(characterRepo)
	catalogSvc := usecase.NewCatalogService(eventTypeRepo, zoneRepo, logger)

	handler := httpapi.NewHandler(ingestionSvc, registrationSvc, querySvc, catalogSvc, logger)
	router := httpapi.NewRouter(handler, registrationSvc, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		_ = cleanup()
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func connectDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}
