package client

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/storefront/internal/common"
	pb "github.com/dmitrijs2005/storefront/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.AccountServiceClient
	session     string

	mu          sync.RWMutex
	accessToken string
}

func withMetadata(ctx context.Context, session, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.SessionHeaderName, session)
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withMetadata(ctx, s.session, s.token()), method, req, reply, cc, opts...)
}

func NewStorefrontClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, session: uuid.NewString()}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL, grpc.WithTransportCredentials(insecure.NewCredentials()), grpc.WithUnaryInterceptor(s.metadataInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewAccountServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &structpb.Struct{})
	if err != nil {
		return s.mapError(err, nil)
	}

	if pb.String(resp, pb.FieldStatus) != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) SecurityQuestions(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListSecurityQuestions(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err, nil)
	}
	return pb.Strings(resp, pb.FieldQuestions), nil
}

func (s *GRPCClient) Signup(ctx context.Context, form SignupForm) (*Reply, error) {

	req := pb.NewMessage(map[string]string{
		pb.FieldUsername:         form.Username,
		pb.FieldEmail:            form.Email,
		pb.FieldFirstName:        form.FirstName,
		pb.FieldLastName:         form.LastName,
		pb.FieldPassword:         form.Password,
		pb.FieldConfirmPassword:  form.ConfirmPassword,
		pb.FieldSecurityQuestion: form.SecurityQuestion,
		pb.FieldSecurityAnswer:   form.SecurityAnswer,
	})

	resp, err := s.client.Signup(ctx, req)
	if err != nil {
		return nil, s.mapError(err, nil)
	}

	return reply(resp), nil
}

// Login authenticates and keeps the access token for the calls that need it.
func (s *GRPCClient) Login(ctx context.Context, username, password string) (*LoginReply, error) {

	req := pb.NewMessage(map[string]string{
		pb.FieldUsername: username,
		pb.FieldPassword: password,
	})

	var trailer metadata.MD
	resp, err := s.client.Login(ctx, req, grpc.Trailer(&trailer))
	if err != nil {
		return nil, s.mapError(err, trailer)
	}

	s.setToken(pb.String(resp, pb.FieldAccessToken))

	return &LoginReply{Reply: *reply(resp), LastLogin: pb.Time(resp, pb.FieldLastLogin)}, nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

func (s *GRPCClient) VerifyIdentity(ctx context.Context, form IdentityForm) (*VerifyReply, error) {

	req := pb.NewMessage(map[string]string{
		pb.FieldUsername:         form.Username,
		pb.FieldEmail:            form.Email,
		pb.FieldSecurityQuestion: form.SecurityQuestion,
		pb.FieldSecurityAnswer:   form.SecurityAnswer,
	})

	resp, err := s.client.VerifyIdentity(ctx, req)
	if err != nil {
		return nil, s.mapError(err, nil)
	}

	return &VerifyReply{
		Reply:       *reply(resp),
		Username:    pb.String(resp, pb.FieldUsername),
		ResetTicket: pb.String(resp, pb.FieldResetTicket),
	}, nil
}

func (s *GRPCClient) ResetPassword(ctx context.Context, ticket, password, confirm string) (*Reply, error) {

	req := pb.NewMessage(map[string]string{
		pb.FieldResetTicket:     ticket,
		pb.FieldNewPassword:     password,
		pb.FieldConfirmPassword: confirm,
	})

	resp, err := s.client.ResetPassword(ctx, req)
	if err != nil {
		return nil, s.mapError(err, nil)
	}

	return reply(resp), nil
}

func (s *GRPCClient) Profile(ctx context.Context) (*Profile, error) {

	resp, err := s.client.GetProfile(ctx, &structpb.Struct{})
	if err != nil {
		return nil, s.mapError(err, nil)
	}

	return &Profile{
		Username:  pb.String(resp, pb.FieldUsername),
		Email:     pb.String(resp, pb.FieldEmail),
		FirstName: pb.String(resp, pb.FieldFirstName),
		LastName:  pb.String(resp, pb.FieldLastName),
		LastLogin: pb.Time(resp, pb.FieldLastLogin),
	}, nil
}

func (s *GRPCClient) ChangePassword(ctx context.Context, oldPassword, password, confirm string) (*Reply, error) {

	req := pb.NewMessage(map[string]string{
		pb.FieldOldPassword:     oldPassword,
		pb.FieldNewPassword:     password,
		pb.FieldConfirmPassword: confirm,
	})

	resp, err := s.client.ChangePassword(ctx, req)
	if err != nil {
		return nil, s.mapError(err, nil)
	}

	return reply(resp), nil
}

func reply(resp *structpb.Struct) *Reply {
	return &Reply{
		Message:  pb.String(resp, pb.FieldMessage),
		NextView: pb.String(resp, pb.FieldNextView),
	}
}

func (s *GRPCClient) mapError(err error, trailer metadata.MD) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return errors.Join(ErrUnavailable, err)
	}

	rejected := &RejectedError{Code: st.Code(), Message: st.Message()}
	if values := trailer.Get(pb.RetryAfterKey); len(values) > 0 {
		rejected.RetryAfter, _ = strconv.Atoi(values[0])
	}
	return rejected
}
