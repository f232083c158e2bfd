// Package http serves the storefront's JSON API: the account flows used by
// the browser and the catalog reads behind the product pages.
package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"github.com/prometheus/client_golang/prometheus"
)

// Accounts is the part of services.AccountService the API drives.
type Accounts interface {
	Signup(ctx context.Context, req services.SignupRequest) (*services.Result, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.LoginResult, error)
	VerifyIdentity(ctx context.Context, req services.VerifyRequest) (*services.VerifyResult, error)
	ResetPassword(ctx context.Context, req services.ResetRequest) (*services.Result, error)
	Authenticate(accessToken string) (string, error)
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
	ChangePassword(ctx context.Context, req services.ChangePasswordRequest) (*services.Result, error)
}

type Catalog interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.ProductDetail, error)
}

type Options struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
	Metrics        *metrics.HTTPMetrics
	// Gatherer backs /metrics. Nil leaves the route out.
	Gatherer prometheus.Gatherer
}

type HTTPServer struct {
	address  string
	accounts Accounts
	catalog  Catalog
	logger   logging.Logger
	opts     Options
}

func NewHTTPServer(a string, l logging.Logger, accounts Accounts, catalog Catalog, opts Options) *HTTPServer {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	return &HTTPServer{
		address:  a,
		accounts: accounts,
		catalog:  catalog,
		logger:   l.With("module", "http_server"),
		opts:     opts,
	}
}

// Run serves until ctx is cancelled and then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.RequestTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return <-stopped
}
