package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/storefront/internal/logging"
	pb "github.com/dmitrijs2005/storefront/internal/proto"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"google.golang.org/grpc"
)

// Accounts is the part of services.AccountService the RPC service drives.
type Accounts interface {
	Signup(ctx context.Context, req services.SignupRequest) (*services.Result, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.LoginResult, error)
	VerifyIdentity(ctx context.Context, req services.VerifyRequest) (*services.VerifyResult, error)
	ResetPassword(ctx context.Context, req services.ResetRequest) (*services.Result, error)
	Authenticate(accessToken string) (string, error)
	GetProfile(ctx context.Context, username string) (*models.Profile, error)
	ChangePassword(ctx context.Context, req services.ChangePasswordRequest) (*services.Result, error)
}

type GRPCServer struct {
	address  string
	accounts Accounts
	metrics  *metrics.GRPCMetrics
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, accounts Accounts, m *metrics.GRPCMetrics) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		accounts: accounts,
		metrics:  m,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		s.metrics.UnaryServerInterceptor(),
		s.accessTokenInterceptor,
	))
	pb.RegisterAccountServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
