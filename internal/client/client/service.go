package client

import (
	"context"
	"time"
)

type SignupForm struct {
	Username         string
	Email            string
	FirstName        string
	LastName         string
	Password         string
	ConfirmPassword  string
	SecurityQuestion string
	SecurityAnswer   string
}

type IdentityForm struct {
	Username         string
	Email            string
	SecurityQuestion string
	SecurityAnswer   string
}

// Reply is a successful server reply: the message to show and the view the
// storefront would open next.
type Reply struct {
	Message  string
	NextView string
}

type LoginReply struct {
	Reply
	LastLogin *time.Time
}

type VerifyReply struct {
	Reply
	Username    string
	ResetTicket string
}

type Profile struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	LastLogin *time.Time
}

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SecurityQuestions(ctx context.Context) ([]string, error)
	Signup(ctx context.Context, form SignupForm) (*Reply, error)
	Login(ctx context.Context, username, password string) (*LoginReply, error)
	Logout()
	VerifyIdentity(ctx context.Context, form IdentityForm) (*VerifyReply, error)
	ResetPassword(ctx context.Context, ticket, password, confirm string) (*Reply, error)
	Profile(ctx context.Context) (*Profile, error)
	ChangePassword(ctx context.Context, oldPassword, password, confirm string) (*Reply, error)
}
