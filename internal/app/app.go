package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/satvikfoods/catalog/config"
	"github.com/satvikfoods/catalog/internal/adapter/commerce"
	"github.com/satvikfoods/catalog/internal/adapter/httphandler"
	"github.com/satvikfoods/catalog/internal/adapter/kafka"
	"github.com/satvikfoods/catalog/internal/adapter/localsource"
	"github.com/satvikfoods/catalog/internal/adapter/prefs"
	"github.com/satvikfoods/catalog/internal/adapter/sanity"
	"github.com/satvikfoods/catalog/internal/core/domain"
	"github.com/satvikfoods/catalog/internal/core/port"
	"github.com/satvikfoods/catalog/internal/core/service"
	"github.com/satvikfoods/catalog/pkg/retry"
	"github.com/satvikfoods/catalog/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

const warmUpAttempts = 3

type App struct {
	ctx          context.Context
	cfg          config.Config
	syncSerde    schema.Serde
	syncProducer *kafka.SyncProducer
	syncConsumer *kafka.SyncConsumer
	service      *service.CatalogService
	httpServer   httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	if app.brokerEnabled() {
		app.initSerdes()
		app.initSyncProducer()
	}
	app.initCoreService()
	if app.brokerEnabled() {
		app.initSyncConsumer()
	}
	app.initInboundAdapters()

	return app
}

func (app *App) brokerEnabled() bool {
	return len(app.cfg.Broker.SeedBrokers) != 0
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	syncSubject := app.cfg.Broker.Topics.CatalogSync + "-value"
	syncSerde, err := schema.NewSerdeCatalogSyncV1(
		app.ctx,
		schema.SubjectOpt(syncSubject),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.syncSerde = syncSerde
}

func (app *App) initSyncProducer() {
	const op = "App.initSyncProducer"

	p, err := kafka.NewSyncProducer(
		kafka.ProducerClientOpt(
			app.ctx,
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CatalogSync,
		),
		kafka.ProducerEncoderOpt(app.syncSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.syncProducer = &p
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	local, err := localsource.New()
	if err != nil {
		app.fallDown(op, err)
	}

	sources := map[domain.Source]port.CatalogSource{
		domain.SourceLocal: local,
	}

	if app.cfg.Sanity.ProjectID != "" {
		sources[domain.SourceSanity] = sanity.New(sanity.Config{
			ProjectID:  app.cfg.Sanity.ProjectID,
			Dataset:    app.cfg.Sanity.Dataset,
			APIVersion: app.cfg.Sanity.APIVersion,
			Token:      app.cfg.Sanity.Token,
		})
	}

	if app.cfg.Backend.BaseURL != "" {
		sources[domain.SourceBackend] = commerce.New(commerce.Config{
			BaseURL:  app.cfg.Backend.BaseURL,
			PageSize: app.cfg.Backend.PageSize,
		})
	}

	var prefStore port.SourcePrefs
	if app.cfg.Catalog.PrefsFile != "" {
		prefStore = prefs.New(app.cfg.Catalog.PrefsFile)
	}

	var broadcaster port.SyncBroadcaster
	if app.syncProducer != nil {
		broadcaster = *app.syncProducer
	}

	app.service = service.New(service.CatalogServiceConfig{
		Sources:         sources,
		Prefs:           prefStore,
		Broadcaster:     broadcaster,
		DefaultSource:   domain.Source(app.cfg.Catalog.Source),
		Instance:        app.instanceName(),
		TTL:             app.cfg.Catalog.CacheTTL,
		FallbackToLocal: app.cfg.Catalog.FallbackToLocal,
	})
}

func (app *App) instanceName() string {
	if app.cfg.Instance != "" {
		return app.cfg.Instance
	}
	host, err := os.Hostname()
	if err != nil {
		return "catalog"
	}
	return host
}

func (app *App) initSyncConsumer() {
	c := kafka.NewSyncConsumer(
		kafka.ConsumerClientOpt(
			app.cfg.Broker.SeedBrokers,
			app.cfg.Broker.Topics.CatalogSync,
			app.cfg.Broker.Consumers.CatalogSyncGroup,
		),
		kafka.ConsumerDecoderOpt(app.syncSerde),
		kafka.ConsumerSyncApplierOpt(app.service),
	)
	app.syncConsumer = &c
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.service, app.service)
	httphandler.RegisterAdmin(mux, app.service, app.service)

	handler := httphandler.AllowJSON(mux)
	httpServer := httphandler.NewHTTPServer(addr, handler)
	app.httpServer = httpServer
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	if app.syncConsumer != nil {
		go app.syncConsumer.Run(app.ctx)
	}
	go app.warmUp()

	slog.Info("application is running")
}

// warmUp fills the cache before the first request. The source adapters do
// not retry on their own, the backoff here is caller-side resilience.
func (app *App) warmUp() {
	const op = "App.warmUp"
	log := slog.With("op", op)

	retryCfg := retry.RetryConfig{
		MaxAttempts: warmUpAttempts,
		Backoff:     retry.ExponentialBackoff(time.Second),
	}

	err := retry.Do(app.ctx, retryCfg, func() error {
		_, err := app.service.Catalog(app.ctx)
		return err
	})
	if err != nil {
		log.Warn("catalog warm-up failed, first request will fetch", "err", err)
		return
	}
	log.Info("catalog cache is warm")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.syncConsumer != nil {
		app.syncConsumer.Close()
	}
	if app.syncProducer != nil {
		app.syncProducer.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
