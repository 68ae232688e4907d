package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/JamesMReilly/shopgraph/internal/adapters/customerrepository"
	"github.com/JamesMReilly/shopgraph/internal/adapters/database"
	"github.com/JamesMReilly/shopgraph/internal/adapters/orderrepository"
	"github.com/JamesMReilly/shopgraph/internal/adapters/paymentrepository"
	"github.com/JamesMReilly/shopgraph/internal/adapters/productrepository"
	"github.com/JamesMReilly/shopgraph/internal/config"
	"github.com/JamesMReilly/shopgraph/internal/graph"
	"github.com/JamesMReilly/shopgraph/internal/ports"
	"github.com/JamesMReilly/shopgraph/internal/reporting"
	"github.com/JamesMReilly/shopgraph/internal/telemetry"
	"github.com/google/uuid"
)

// TODO: Put in config
const PROD_DOMAIN_SUFFIX = "shopgraph.io"
const STAGING_DOMAIN_SUFFIX = "shopgraph-staging.pages.dev"

func main() {
	ctx := context.Background()

	instanceID := uuid.New().String()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	if !config.IsDevelopment() {
		shutdownTelemetry, err := telemetry.SetupOTelSDK(ctx, "shopgraph")
		if err != nil {
			fail("Failed to initialize telemetry", "error", err.Error())
		}
		defer shutdownTelemetry(ctx)
		logger.Info("Initialized telemetry")
	}

	sentryMiddleware, flush, err := reporting.NewSentryMiddlewareOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry middleware")

	logger.Info("Initializing database connection")
	db, err := database.NewConfiguredPostgresDatabase(config)
	if err != nil {
		fail("Failed to initialize database connection", "error", err.Error())
	}
	logger.Info("Initialized database connection")

	schemaName := database.GetSchemaName(!config.IsProduction())

	err = database.NewDatabaseMigrator(db, logger.With("component", "migrator")).Migrate(ctx, schemaName)
	if err != nil {
		fail("Failed to migrate database", "error", err.Error())
	}

	repos := graph.Repositories{
		Customers: customerrepository.NewPostgres(db, schemaName),
		Orders:    orderrepository.NewPostgres(db, schemaName),
		Products:  productrepository.NewPostgres(db, schemaName),
		Payments:  paymentrepository.NewPostgres(db, schemaName),
	}
	logger.Info("Initialized repositories")

	schema, err := graph.NewSchema(repos)
	if err != nil {
		fail("Failed to build schema", "error", err.Error())
	}

	allowedOrigins, err := ports.NewDomainSuffixes(PROD_DOMAIN_SUFFIX, STAGING_DOMAIN_SUFFIX)
	if err != nil {
		fail("Failed to initialize allowed origins", "error", err.Error())
	}

	http.HandleFunc(
		"OPTIONS /graphql",
		ports.BuildCORSHandler(allowedOrigins),
	)
	http.HandleFunc(
		"POST /graphql",
		ports.MakeGraphQLHandler(
			schema,
			func() *graph.Loaders { return graph.NewLoaders(repos) },
			allowedOrigins,
			logger.With("port", "graphql"),
			sentryMiddleware,
		),
	)

	logger.Info("Init complete")
	err = http.ListenAndServe(fmt.Sprintf(":%s", config.Port()), nil)
	if errors.Is(err, http.ErrServerClosed) {
		logger.Info("Server shutdown")
	} else {
		fail("Server error", "error", err.Error())
	}
}
