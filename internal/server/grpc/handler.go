package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/storefront/internal/proto"
	"github.com/dmitrijs2005/storefront/internal/server/passwords"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Ping(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return pb.NewMessage(map[string]string{pb.FieldStatus: "OK"}), nil
}

func (s *GRPCServer) ListSecurityQuestions(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	out := &structpb.Struct{}
	pb.SetStrings(out, pb.FieldQuestions, passwords.SecurityQuestions)
	return out, nil
}

func (s *GRPCServer) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	res, err := s.accounts.Signup(ctx, services.SignupRequest{
		Username:         pb.String(req, pb.FieldUsername),
		Email:            pb.String(req, pb.FieldEmail),
		FirstName:        pb.String(req, pb.FieldFirstName),
		LastName:         pb.String(req, pb.FieldLastName),
		Password:         pb.String(req, pb.FieldPassword),
		ConfirmPassword:  pb.String(req, pb.FieldConfirmPassword),
		SecurityQuestion: pb.String(req, pb.FieldSecurityQuestion),
		SecurityAnswer:   pb.String(req, pb.FieldSecurityAnswer),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", pb.String(req, pb.FieldUsername))
	return result(res), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	res, err := s.accounts.Login(ctx, services.LoginRequest{
		Session:  sessionFrom(ctx),
		Username: pb.String(req, pb.FieldUsername),
		Password: pb.String(req, pb.FieldPassword),
	})
	if err != nil {
		if md := retryAfter(err); md != nil {
			_ = grpc.SetTrailer(ctx, md)
		}
		return nil, toStatus(err)
	}

	out := pb.NewMessage(map[string]string{
		pb.FieldMessage:     res.Message,
		pb.FieldNextView:    res.NextView,
		pb.FieldAccessToken: res.AccessToken,
		pb.FieldExpiresAt:   pb.FormatTime(res.ExpiresAt),
	})
	if res.LastLogin != nil {
		out.Fields[pb.FieldLastLogin] = structpb.NewStringValue(pb.FormatTime(*res.LastLogin))
	}
	return out, nil
}

func (s *GRPCServer) VerifyIdentity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	res, err := s.accounts.VerifyIdentity(ctx, services.VerifyRequest{
		Username:         pb.String(req, pb.FieldUsername),
		Email:            pb.String(req, pb.FieldEmail),
		SecurityQuestion: pb.String(req, pb.FieldSecurityQuestion),
		SecurityAnswer:   pb.String(req, pb.FieldSecurityAnswer),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return pb.NewMessage(map[string]string{
		pb.FieldMessage:     res.Message,
		pb.FieldNextView:    res.NextView,
		pb.FieldUsername:    res.Username,
		pb.FieldResetTicket: res.ResetTicket,
		pb.FieldExpiresAt:   pb.FormatTime(res.ExpiresAt),
	}), nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	res, err := s.accounts.ResetPassword(ctx, services.ResetRequest{
		Ticket:          pb.String(req, pb.FieldResetTicket),
		NewPassword:     pb.String(req, pb.FieldNewPassword),
		ConfirmPassword: pb.String(req, pb.FieldConfirmPassword),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return result(res), nil
}

func (s *GRPCServer) GetProfile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	p, err := s.accounts.GetProfile(ctx, usernameFrom(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	out := pb.NewMessage(map[string]string{
		pb.FieldUsername:  p.Username,
		pb.FieldEmail:     p.Email,
		pb.FieldFirstName: p.FirstName,
		pb.FieldLastName:  p.LastName,
	})
	if p.LastLogin != nil {
		out.Fields[pb.FieldLastLogin] = structpb.NewStringValue(pb.FormatTime(*p.LastLogin))
	}
	return out, nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	res, err := s.accounts.ChangePassword(ctx, services.ChangePasswordRequest{
		Username:        usernameFrom(ctx),
		OldPassword:     pb.String(req, pb.FieldOldPassword),
		NewPassword:     pb.String(req, pb.FieldNewPassword),
		ConfirmPassword: pb.String(req, pb.FieldConfirmPassword),
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return result(res), nil
}

func result(res *services.Result) *structpb.Struct {
	return pb.NewMessage(map[string]string{
		pb.FieldMessage:  res.Message,
		pb.FieldNextView: res.NextView,
	})
}
