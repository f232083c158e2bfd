// Package proto describes the storefront account RPC service. Messages are
// google.protobuf.Struct values keyed by the Field* names below, so server
// and client share one schema without generated code.
package proto

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "storefront.v1.AccountService"

const (
	PingMethod                  = "/" + ServiceName + "/Ping"
	SignupMethod                = "/" + ServiceName + "/Signup"
	LoginMethod                 = "/" + ServiceName + "/Login"
	VerifyIdentityMethod        = "/" + ServiceName + "/VerifyIdentity"
	ResetPasswordMethod         = "/" + ServiceName + "/ResetPassword"
	GetProfileMethod            = "/" + ServiceName + "/GetProfile"
	ChangePasswordMethod        = "/" + ServiceName + "/ChangePassword"
	ListSecurityQuestionsMethod = "/" + ServiceName + "/ListSecurityQuestions"
)

// RetryAfterKey is the trailer carrying the seconds left on a login lockout.
const RetryAfterKey = "retry-after"

// Message fields.
const (
	FieldStatus           = "status"
	FieldMessage          = "message"
	FieldNextView         = "next_view"
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldPassword         = "password"
	FieldConfirmPassword  = "confirm_password"
	FieldOldPassword      = "old_password"
	FieldNewPassword      = "new_password"
	FieldSecurityQuestion = "security_question"
	FieldSecurityAnswer   = "security_answer"
	FieldQuestions        = "questions"
	FieldAccessToken      = "access_token"
	FieldResetTicket      = "reset_ticket"
	FieldExpiresAt        = "expires_at"
	FieldLastLogin        = "last_login"
)

type AccountServiceServer interface {
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	VerifyIdentity(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ResetPassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ChangePassword(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSecurityQuestions(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

type unaryCall func(AccountServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryMethod(name string, call unaryCall) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AccountServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AccountServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("Ping", AccountServiceServer.Ping),
		unaryMethod("Signup", AccountServiceServer.Signup),
		unaryMethod("Login", AccountServiceServer.Login),
		unaryMethod("VerifyIdentity", AccountServiceServer.VerifyIdentity),
		unaryMethod("ResetPassword", AccountServiceServer.ResetPassword),
		unaryMethod("GetProfile", AccountServiceServer.GetProfile),
		unaryMethod("ChangePassword", AccountServiceServer.ChangePassword),
		unaryMethod("ListSecurityQuestions", AccountServiceServer.ListSecurityQuestions),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "storefront/v1/account",
}

type AccountServiceClient interface {
	Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Signup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	VerifyIdentity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetPassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ChangePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListSecurityQuestions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type accountServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAccountServiceClient(cc grpc.ClientConnInterface) AccountServiceClient {
	return &accountServiceClient{cc: cc}
}

func (c *accountServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountServiceClient) Ping(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PingMethod, in, opts)
}

func (c *accountServiceClient) Signup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, SignupMethod, in, opts)
}

func (c *accountServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, LoginMethod, in, opts)
}

func (c *accountServiceClient) VerifyIdentity(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, VerifyIdentityMethod, in, opts)
}

func (c *accountServiceClient) ResetPassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ResetPasswordMethod, in, opts)
}

func (c *accountServiceClient) GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetProfileMethod, in, opts)
}

func (c *accountServiceClient) ChangePassword(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ChangePasswordMethod, in, opts)
}

func (c *accountServiceClient) ListSecurityQuestions(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListSecurityQuestionsMethod, in, opts)
}

// NewMessage builds a message from string fields. Empty values are left out.
func NewMessage(fields map[string]string) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(fields))}
	for k, v := range fields {
		if v != "" {
			s.Fields[k] = structpb.NewStringValue(v)
		}
	}
	return s
}

// String returns the string field key of s, "" when absent or not a string.
func String(s *structpb.Struct, key string) string {
	return s.GetFields()[key].GetStringValue()
}

// Strings returns the string elements of the list field key of s.
func Strings(s *structpb.Struct, key string) []string {
	values := s.GetFields()[key].GetListValue().GetValues()
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.GetStringValue())
	}
	return out
}

// SetStrings stores list as the list field key of s.
func SetStrings(s *structpb.Struct, key string, list []string) {
	values := make([]*structpb.Value, 0, len(list))
	for _, v := range list {
		values = append(values, structpb.NewStringValue(v))
	}
	if s.Fields == nil {
		s.Fields = map[string]*structpb.Value{}
	}
	s.Fields[key] = structpb.NewListValue(&structpb.ListValue{Values: values})
}

// FormatTime renders t for a time field. The zero time renders as "".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// Time parses the time field key of s. Absent or malformed values yield nil.
func Time(s *structpb.Struct, key string) *time.Time {
	v := String(s, key)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil
	}
	return &t
}
