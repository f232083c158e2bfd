// Package server wires the storefront server together: storage, the login
// lockout store, account events, metrics, and the HTTP and gRPC transports.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/lockout"
	"github.com/dmitrijs2005/storefront/internal/server/media"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/storefront/internal/server/grpc"
	hs "github.com/dmitrijs2005/storefront/internal/server/http"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	registry *prometheus.Registry

	httpMetrics *metrics.HTTPMetrics
	grpcMetrics *metrics.GRPCMetrics

	accountService *services.AccountService
	catalogService *services.CatalogService

	closers []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, registry: prometheus.NewRegistry()}

	if err := app.init(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}

	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	if err := checkSecretKey(ctx, c, app.logger); err != nil {
		return err
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db.Close)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	opts := metrics.Options{Registerer: app.registry}

	authMetrics, err := metrics.NewAuthMetrics(opts)
	if err != nil {
		return err
	}
	if app.httpMetrics, err = metrics.NewHTTPMetrics(opts); err != nil {
		return err
	}
	if app.grpcMetrics, err = metrics.NewGRPCMetrics(opts); err != nil {
		return err
	}

	store, closeStore, err := newLockoutStore(ctx, c)
	if err != nil {
		return err
	}
	app.closers = append(app.closers, closeStore)

	publisher := newPublisher(c)
	app.closers = append(app.closers, publisher.Close)

	signer, err := newSigner(ctx, c)
	if err != nil {
		return err
	}

	app.accountService = services.NewAccountService(db, rm, c, store,
		services.WithLogger(app.logger),
		services.WithEvents(publisher),
		services.WithAuthMetrics(authMetrics),
	)
	app.catalogService = services.NewCatalogService(db, rm, signer, app.logger)

	return nil
}

// checkSecretKey refuses an empty signing key and warns about the
// development default, which anyone can use to mint access tokens.
func checkSecretKey(ctx context.Context, c *config.Config, logger logging.Logger) error {
	switch c.SecretKey {
	case "":
		return errors.New("secret key is empty")
	case config.DefaultSecretKey:
		logger.Warn(ctx, "using the development secret key, set STOREFRONT_SECRET_KEY or -s in production")
	}
	return nil
}

// newLockoutStore returns the configured lockout store and a func releasing
// its resources.
func newLockoutStore(ctx context.Context, c *config.Config) (lockout.Store, func() error, error) {
	switch c.LockoutBackend {
	case "", config.LockoutBackendMemory:
		return lockout.NewMemoryStore(), func() error { return nil }, nil
	case config.LockoutBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping error: %w", err)
		}
		return lockout.NewRedisStore(client, lockout.RedisConfig{KeyPrefix: "storefront:lockout"}), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown lockout backend %q", c.LockoutBackend)
	}
}

func newPublisher(c *config.Config) events.Publisher {
	if len(c.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(c.KafkaBrokers, c.KafkaTopic)
}

func newSigner(ctx context.Context, c *config.Config) (media.Signer, error) {
	if c.S3Bucket == "" {
		return media.Passthrough{}, nil
	}
	signer, err := media.NewS3Signer(ctx, media.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return signer, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accountService, app.grpcMetrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.accountService, app.catalogService, hs.Options{
		RequestTimeout: app.config.RequestTimeout,
		AllowedOrigins: app.config.CORSAllowedOrigins,
		Metrics:        app.httpMetrics,
		Gatherer:       app.registry,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves both transports until ctx is cancelled, a termination signal
// arrives, or either server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.WithoutCancel(ctx))
	app.logger.Info(ctx, "App stopped")
}

func (app *App) close(ctx context.Context) {
	var errs []error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		app.logger.Error(ctx, "error releasing resources", "error", err)
	}
	app.closers = nil
}
