package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/twmb/franz-go/pkg/kgo"

	"licenseguard/internal/license/fingerprint"
	"licenseguard/internal/license/handler"
	"licenseguard/internal/license/incident"
	"licenseguard/internal/license/metrics"
	"licenseguard/internal/license/ports"
	"licenseguard/internal/license/service/countermeasure"
	"licenseguard/internal/license/service/detector"
	"licenseguard/internal/license/service/engine"
	"licenseguard/internal/license/service/sweeper"
	"licenseguard/internal/license/signing"
	incidentstore "licenseguard/internal/license/store/incident"
	licensestore "licenseguard/internal/license/store/license"
	policystore "licenseguard/internal/license/store/policy"
	restrictionstore "licenseguard/internal/license/store/restriction"
	usagestore "licenseguard/internal/license/store/usage"
	"licenseguard/internal/platform/config"
	"licenseguard/internal/platform/kafka"
	"licenseguard/internal/platform/postgres"
	"licenseguard/internal/platform/redis"
)

type application struct {
	router    http.Handler
	publisher *incident.Publisher
	sweeper   *sweeper.Sweeper
	storage   string
	closers   []func() error
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

type stores struct {
	licenses     ports.LicenseStore
	policies     ports.PolicyCatalog
	restrictions ports.RestrictionStore
	incidents    ports.IncidentStore
	usage        ports.UsageTracker
}

func build(ctx context.Context, cfg *config.Config, log *slog.Logger) (*application, error) {
	app := &application{storage: "memory"}
	ok := false
	defer func() {
		if !ok {
			app.close()
		}
	}()

	keys, err := cfg.DeriveKeys()
	if err != nil {
		return nil, err
	}
	codec, err := fingerprint.New(keys.Fingerprint)
	if err != nil {
		return nil, fmt.Errorf("fingerprint codec: %w", err)
	}
	signer, err := signing.New(keys.Signing, cfg.Security.SigningIssuer)
	if err != nil {
		return nil, fmt.Errorf("payload signer: %w", err)
	}

	st, ready, err := app.openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	sinks := []incident.Sink{incident.NewLogSink(log)}
	kc, err := kafka.New(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	if kc != nil {
		app.closers = append(app.closers, func() error { kc.Close(); return nil })
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka); err != nil {
			return nil, err
		}
		sinks = append(sinks, incidentstore.NewKafkaSink(kc, cfg.Kafka.IncidentTopic))
		ready = append(ready, func(ctx context.Context) error { return pingKafka(ctx, kc) })
	}

	app.publisher = incident.NewPublisher(incident.NewRingBuffer(cfg.Incidents.BufferSize), sinks,
		incident.WithPublisherLogger(log),
		incident.WithPublisherMetrics(m),
		incident.WithBatchSize(cfg.Incidents.BatchSize),
	)
	recorder := incident.NewRecorder(st.incidents, app.publisher,
		incident.WithRecorderLogger(log),
		incident.WithRecorderMetrics(m),
	)

	det, err := detector.New(st.usage,
		detector.WithLogger(log),
		detector.WithConfig(detectorConfig(cfg)),
	)
	if err != nil {
		return nil, err
	}
	dispatcher, err := countermeasure.New(st.restrictions, recorder,
		countermeasure.WithLogger(log),
		countermeasure.WithMetrics(m),
		countermeasure.WithConfig(countermeasure.Config{
			ExcessiveChecksThrottle: cfg.Countermeasure.ExcessiveChecksThrottle,
			MultipleIPsBlock:        cfg.Countermeasure.MultipleIPsBlock,
			MultipleDomainsBlock:    cfg.Countermeasure.MultipleDomainsBlock,
			ExcessiveFailuresBlock:  cfg.Countermeasure.ExcessiveFailuresBlock,
		}),
	)
	if err != nil {
		return nil, err
	}
	app.sweeper, err = sweeper.New(st.restrictions, recorder,
		sweeper.WithLogger(log),
		sweeper.WithMetrics(m),
	)
	if err != nil {
		return nil, err
	}

	svc, err := engine.New(st.licenses, st.policies, st.usage, st.restrictions, codec,
		engine.WithLogger(log),
		engine.WithMetrics(m),
		engine.WithSigner(signer),
		engine.WithRateLimit(cfg.Engine.RateLimitPerHour),
		engine.WithMonitoring(det, recorder, dispatcher),
	)
	if err != nil {
		return nil, err
	}

	h := handler.New(svc, dispatcher, st.incidents, log)
	app.router = handler.NewRouter(h, handler.RouterConfig{
		AdminToken: cfg.Security.AdminToken,
		Metrics:    promhttp.Handler(),
		Ready: func(r *http.Request) error {
			var errs []error
			for _, check := range ready {
				errs = append(errs, check(r.Context()))
			}
			return errors.Join(errs...)
		},
		Logger: log,
	})
	if cfg.Security.AdminToken == "" {
		log.Info("admin routes disabled; set LICENSEGUARD_SECURITY_ADMIN_TOKEN to enable")
	}

	ok = true
	return app, nil
}

// openStores picks Postgres and Redis when configured and falls back to memory.
func (a *application) openStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (*stores, []func(context.Context) error, error) {
	var ready []func(context.Context) error
	st := &stores{}

	if cfg.Postgres.DSN != "" {
		db, err := postgres.Open(ctx, cfg.Postgres.DSN, postgres.Options{
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
			MaxIdleConns: cfg.Postgres.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, nil, err
		}
		catalog := policystore.NewPostgres(db)
		if cfg.Postgres.SeedCatalog {
			if err := catalog.SeedDefaults(ctx); err != nil {
				return nil, nil, err
			}
		}
		st.licenses = licensestore.NewPostgres(db)
		st.policies = catalog
		st.restrictions = restrictionstore.NewPostgres(db)
		st.incidents = incidentstore.NewPostgres(db)
		ready = append(ready, pingDB(db))
		a.storage = "postgres"
	} else {
		log.Warn("no postgres DSN configured; license state is held in memory")
		st.licenses = licensestore.NewInMemory()
		st.policies = policystore.NewInMemory(policystore.Defaults()...)
		st.restrictions = restrictionstore.NewInMemory()
		st.incidents = incidentstore.NewInMemory()
	}

	retention := detectorConfig(cfg).LongestWindow()
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if rc != nil {
		a.closers = append(a.closers, rc.Close)
		st.usage = usagestore.NewRedis(rc.Client, usagestore.WithRedisRetention(retention))
		ready = append(ready, rc.Health)
	} else {
		st.usage = usagestore.NewInMemory(usagestore.WithRetention(retention))
	}
	return st, ready, nil
}

func detectorConfig(cfg *config.Config) detector.Config {
	return detector.Config{
		ExcessiveChecks:     cfg.Detector.ExcessiveChecks,
		ChecksWindow:        cfg.Detector.ChecksWindow,
		DomainsPerIP:        cfg.Detector.DomainsPerIP,
		DomainsWindow:       cfg.Detector.DomainsWindow,
		IPsPerLicense:       cfg.Detector.IPsPerLicense,
		IPsWindow:           cfg.Detector.IPsWindow,
		ExcessiveFailures:   cfg.Detector.ExcessiveFailures,
		FailuresWindow:      cfg.Detector.FailuresWindow,
		UserAgentsPerDomain: cfg.Detector.UserAgentsPerDomain,
		UserAgentsWindow:    cfg.Detector.UserAgentsWindow,
		ProductMismatches:   cfg.Detector.ProductMismatches,
		MismatchWindow:      cfg.Detector.MismatchWindow,
	}
}

func pingDB(db *sql.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		return nil
	}
}

func pingKafka(ctx context.Context, client *kgo.Client) error {
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka: %w", err)
	}
	return nil
}
