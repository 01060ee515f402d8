package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"greenforge/internal/compound"
	compoundcache "greenforge/internal/compound/cache"
	compoundhandler "greenforge/internal/compound/handler"
	compoundmetrics "greenforge/internal/compound/metrics"
	compoundstore "greenforge/internal/compound/store"
	"greenforge/internal/platform/config"
	"greenforge/internal/platform/kafka"
	platformmetrics "greenforge/internal/platform/metrics"
	"greenforge/internal/platform/postgres"
	redisclient "greenforge/internal/platform/redis"
	ratelimitmetrics "greenforge/internal/ratelimit/metrics"
	ratelimit "greenforge/internal/ratelimit/middleware"
	"greenforge/internal/ratelimit/store/bucket"
	"greenforge/internal/recommend"
	recommendhandler "greenforge/internal/recommend/handler"
	recommendmetrics "greenforge/internal/recommend/metrics"
	"greenforge/internal/strain"
	strainhandler "greenforge/internal/strain/handler"
	strainstore "greenforge/internal/strain/store"
	httptransport "greenforge/internal/transport/http"
	"greenforge/pkg/platform/audit"
	"greenforge/pkg/platform/audit/publishers/ops"
	kafkastore "greenforge/pkg/platform/audit/store/kafka"
	auditmemory "greenforge/pkg/platform/audit/store/memory"
	"greenforge/pkg/platform/tx"
)

const auditMemoryCapacity = 10000

// app holds the wired router and every resource that must be released on
// shutdown.
type app struct {
	Router         http.Handler
	CatalogBackend string

	closers []func()
}

// Close releases resources in reverse acquisition order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func buildApp(ctx context.Context, cfg config.Config, log *slog.Logger) (_ *app, err error) {
	a := &app{CatalogBackend: "embedded"}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	embeddedCompounds, err := compoundstore.NewDefaultStore()
	if err != nil {
		return nil, fmt.Errorf("load embedded compound catalog: %w", err)
	}
	embeddedStrains, err := strainstore.NewDefaultStore()
	if err != nil {
		return nil, fmt.Errorf("load embedded strain library: %w", err)
	}

	var (
		primary     compound.Store = embeddedCompounds
		strains     strain.Store   = embeddedStrains
		providerOps []compound.Option
		checks      []httptransport.Check
	)

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = db.Close() })

		pgCompounds, pgStrains, err := preparePostgres(ctx, db, log)
		if err != nil {
			return nil, err
		}
		primary, strains = pgCompounds, pgStrains
		providerOps = append(providerOps, compound.WithFallback(embeddedCompounds))
		a.CatalogBackend = "postgres"
	}

	var (
		cache   compound.Cache        = compoundcache.NewMemoryCache(cfg.CompoundCacheTTL)
		buckets ratelimit.BucketStore = bucket.NewInMemoryBucketStore()
	)
	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		a.closers = append(a.closers, func() { _ = rc.Close() })
		cache = compoundcache.NewRedisCache(rc.Client, cfg.CompoundCacheTTL)
		buckets = bucket.NewRedisBucketStore(rc.Client)
		checks = append(checks, httptransport.Check{Name: "redis", Probe: rc.Health})
	}

	provider, err := compound.New(primary, append(providerOps,
		compound.WithCache(cache),
		compound.WithMetrics(compoundmetrics.New()),
		compound.WithLogger(log),
	)...)
	if err != nil {
		return nil, err
	}
	checks = append([]httptransport.Check{{Name: "catalog", Probe: provider.Health}}, checks...)

	strainService, err := strain.New(strains, strain.WithLogger(log))
	if err != nil {
		return nil, err
	}

	sink, err := auditSink(ctx, a, cfg, &checks)
	if err != nil {
		return nil, err
	}
	tracker := ops.NewTracker(sink,
		ops.WithSampler(ops.NewSampler(cfg.AuditSampleRate)),
		ops.WithMetrics(ops.NewMetrics()),
		ops.WithLogger(log),
	)
	a.closers = append(a.closers, tracker.Close)

	recommendService, err := recommend.New(provider,
		recommend.WithAuditor(tracker),
		recommend.WithMetrics(recommendmetrics.New()),
		recommend.WithLogger(log),
		recommend.WithWorkers(cfg.ScoringWorkers),
		recommend.WithMaxProducts(cfg.MaxProducts),
		recommend.WithUnknownPolicy(cfg.UnknownPolicy),
	)
	if err != nil {
		return nil, err
	}

	limiter := ratelimit.New(buckets, cfg.RateLimitPerMinute, time.Minute, log,
		ratelimit.WithDisabled(cfg.RateLimitPerMinute == 0),
		ratelimit.WithMetrics(ratelimitmetrics.New()),
	)

	a.Router = httptransport.NewRouter(httptransport.Deps{
		Logger:  log,
		Metrics: platformmetrics.New(),
		Health:  httptransport.NewHealthHandler(a.CatalogBackend, provider.Degraded, checks...),
		Handlers: []httptransport.RouteRegistrar{
			recommendhandler.New(recommendService, log),
			compoundhandler.New(provider, log),
			strainhandler.New(strainService, log),
		},
		APIMiddleware: []func(http.Handler) http.Handler{limiter.RateLimit},
	})
	return a, nil
}

// preparePostgres creates both catalog tables and seeds empty ones from the
// embedded data in a single transaction.
func preparePostgres(ctx context.Context, db *sql.DB, log *slog.Logger) (*compoundstore.PostgresStore, *strainstore.PostgresStore, error) {
	compounds := compoundstore.NewPostgres(db)
	strains := strainstore.NewPostgres(db)
	if err := compounds.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}
	if err := strains.EnsureSchema(ctx); err != nil {
		return nil, nil, err
	}

	nCompounds, err := compounds.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	nVariants, err := strains.Count(ctx)
	if err != nil {
		return nil, nil, err
	}
	if nCompounds > 0 && nVariants > 0 {
		return compounds, strains, nil
	}

	rows, err := compoundstore.DefaultCatalog()
	if err != nil {
		return nil, nil, err
	}
	variants, err := strainstore.DefaultLibrary()
	if err != nil {
		return nil, nil, err
	}
	err = tx.Run(ctx, db, func(ctx context.Context, _ *sql.Tx) error {
		if nCompounds == 0 {
			if err := compounds.Upsert(ctx, rows); err != nil {
				return fmt.Errorf("seed compound catalog: %w", err)
			}
		}
		if nVariants == 0 {
			if err := strains.Upsert(ctx, variants); err != nil {
				return fmt.Errorf("seed strain library: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	log.InfoContext(ctx, "seeded catalogs",
		"compounds_seeded", nCompounds == 0,
		"strains_seeded", nVariants == 0,
	)
	return compounds, strains, nil
}

// auditSink delivers recommendation events to Kafka when brokers are
// configured and keeps a bounded in-memory tail otherwise.
func auditSink(ctx context.Context, a *app, cfg config.Config, checks *[]httptransport.Check) (audit.Store, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return auditmemory.NewBoundedStore(auditMemoryCapacity), nil
	}
	client, err := kafka.NewClient(cfg.Kafka.Brokers)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.Close)
	if err := kafka.EnsureTopic(ctx, client, cfg.Kafka.AuditTopic, -1, -1); err != nil {
		return nil, err
	}
	*checks = append(*checks, httptransport.Check{
		Name:  "kafka",
		Probe: func(ctx context.Context) error { return kafka.Health(ctx, client) },
	})
	return kafkastore.New(client, cfg.Kafka.AuditTopic), nil
}
