package grpc

import (
	"context"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/services"
)

type fakeAccounts struct {
	signupReq  services.SignupRequest
	loginReq   services.LoginRequest
	verifyReq  services.VerifyRequest
	resetReq   services.ResetRequest
	changeReq  services.ChangePasswordRequest
	profileFor string

	err     error
	login   *services.LoginResult
	verify  *services.VerifyResult
	profile *models.Profile
	tokens  map[string]string
}

func (f *fakeAccounts) Signup(_ context.Context, req services.SignupRequest) (*services.Result, error) {
	f.signupReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.Result{Message: services.MsgSignedUp, NextView: services.ViewLogin}, nil
}

func (f *fakeAccounts) Login(_ context.Context, req services.LoginRequest) (*services.LoginResult, error) {
	f.loginReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.login, nil
}

func (f *fakeAccounts) VerifyIdentity(_ context.Context, req services.VerifyRequest) (*services.VerifyResult, error) {
	f.verifyReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.verify, nil
}

func (f *fakeAccounts) ResetPassword(_ context.Context, req services.ResetRequest) (*services.Result, error) {
	f.resetReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.Result{Message: services.MsgPasswordReset, NextView: services.ViewLogin}, nil
}

func (f *fakeAccounts) Authenticate(token string) (string, error) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return "", &services.FlowError{Kind: common.ErrorUnauthorized, Message: "Please log in to continue."}
}

func (f *fakeAccounts) GetProfile(_ context.Context, username string) (*models.Profile, error) {
	f.profileFor = username
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

func (f *fakeAccounts) ChangePassword(_ context.Context, req services.ChangePasswordRequest) (*services.Result, error) {
	f.changeReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &services.Result{Message: services.MsgPasswordChanged}, nil
}
