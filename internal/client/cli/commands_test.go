package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestSignup_SubmitsForm(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "Secret1!x", "Secret1!x")
	stubChoice(t, "What was the name of your first pet?")

	fc := &fakeClient{
		questions:   []string{"What was the name of your first pet?"},
		signupReply: &client.Reply{Message: "Signup successful.", NextView: "/login"},
	}
	a := newTestApp(fc, readerFromLines("alice", "alice@example.com", "Alice", "Smith", "Rex"))

	require.NoError(t, a.Signup(context.Background()))

	assert.Equal(t, client.SignupForm{
		Username:         "alice",
		Email:            "alice@example.com",
		FirstName:        "Alice",
		LastName:         "Smith",
		Password:         "Secret1!x",
		ConfirmPassword:  "Secret1!x",
		SecurityQuestion: "What was the name of your first pet?",
		SecurityAnswer:   "Rex",
	}, fc.signupForm)
	assert.Contains(t, *out, "Signup successful.")
	assert.False(t, a.isLoggedIn())
}

func TestSignup_ServerRejects(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "Secret1!x", "Secret1!y")
	stubChoice(t, "q")

	fc := &fakeClient{
		questions: []string{"q"},
		signupErr: &client.RejectedError{Code: codes.InvalidArgument, Message: "Passwords do not match."},
	}
	a := newTestApp(fc, readerFromLines("alice", "alice@example.com", "Alice", "Smith", "Rex"))

	err := a.Signup(context.Background())
	require.Error(t, err)
	assert.Equal(t, []string{"Passwords do not match."}, *out)
}

func TestSignup_QuestionsUnavailable(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "Secret1!x", "Secret1!x")

	fc := &fakeClient{questionsErr: errors.Join(client.ErrUnavailable, errors.New("dial"))}
	a := newTestApp(fc, readerFromLines("alice", "alice@example.com", "Alice", "Smith"))

	require.Error(t, a.Signup(context.Background()))
	assert.Equal(t, 0, fc.signupCalls)
	assert.Equal(t, []string{"Server unavailable, please try again later."}, *out)
}

func TestSignup_InputEnds(t *testing.T) {
	capturePrintln(t)
	fc := &fakeClient{}
	a := newTestApp(fc, readerFromLines("alice"))

	require.Error(t, a.Signup(context.Background()))
	assert.Equal(t, 0, fc.signupCalls)
}

func TestLogin_Success(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "Secret1!x")

	fc := &fakeClient{loginReply: &client.LoginReply{Reply: client.Reply{Message: "Welcome! This is your first login.", NextView: "/"}}}
	a := newTestApp(fc, readerFromLines("alice"))

	require.NoError(t, a.Login(context.Background()))
	assert.Equal(t, "alice", fc.loginUser)
	assert.Equal(t, "Secret1!x", fc.loginPassword)
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "(alice )", a.getStatus())
	assert.Equal(t, []string{"Welcome! This is your first login."}, *out)
}

func TestLogin_Locked(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "nope")

	msg := "Too many failed login attempts. Please try again in 300 seconds."
	fc := &fakeClient{loginErr: &client.RejectedError{Code: codes.ResourceExhausted, Message: msg, RetryAfter: 300}}
	a := newTestApp(fc, readerFromLines("alice"))

	err := a.Login(context.Background())
	require.ErrorIs(t, err, client.ErrLocked)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, []string{msg}, *out)
}

func TestLogout(t *testing.T) {
	capturePrintln(t)
	fc := &fakeClient{}
	a := newTestApp(fc, nil)
	a.userName = "alice"

	require.NoError(t, a.Logout(context.Background()))
	assert.True(t, fc.loggedOut)
	assert.False(t, a.isLoggedIn())
}

func TestForgot_VerifiesThenResets(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "NewSecret1!", "NewSecret1!")
	stubChoice(t, "q")

	fc := &fakeClient{
		questions: []string{"q"},
		verifyReply: &client.VerifyReply{
			Reply:       client.Reply{Message: "Identity verified.", NextView: "/reset-password?token=tkt"},
			Username:    "alice",
			ResetTicket: "tkt",
		},
		resetReply: &client.Reply{Message: "Password updated successfully.", NextView: "/login"},
	}
	a := newTestApp(fc, readerFromLines("alice", "alice@example.com", "Rex"))

	require.NoError(t, a.Forgot(context.Background()))
	assert.Equal(t, client.IdentityForm{
		Username:         "alice",
		Email:            "alice@example.com",
		SecurityQuestion: "q",
		SecurityAnswer:   "Rex",
	}, fc.verifyForm)
	assert.Equal(t, "tkt", fc.resetTicket)
	assert.Equal(t, "NewSecret1!", fc.resetPassword)
	assert.Equal(t, "NewSecret1!", fc.resetConfirm)
	assert.Equal(t, []string{"Identity verified.", "Password updated successfully."}, *out)
}

func TestForgot_VerifyFails(t *testing.T) {
	out := capturePrintln(t)
	stubChoice(t, "q")

	fc := &fakeClient{
		questions: []string{"q"},
		verifyErr: &client.RejectedError{Code: codes.Unauthenticated, Message: "Security question answer is incorrect."},
	}
	a := newTestApp(fc, readerFromLines("alice", "alice@example.com", "Max"))

	require.Error(t, a.Forgot(context.Background()))
	assert.Equal(t, 0, fc.resetCalls)
	assert.Equal(t, []string{"Security question answer is incorrect."}, *out)
}

func TestReset_FromLink(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "NewSecret1!", "NewSecret1!")

	fc := &fakeClient{resetReply: &client.Reply{Message: "Password updated successfully."}}
	a := newTestApp(fc, readerFromLines("/reset-password?token=abc.def"))

	require.NoError(t, a.Reset(context.Background()))
	assert.Equal(t, "abc.def", fc.resetTicket)
	assert.Equal(t, []string{"Password updated successfully."}, *out)
}

func TestReset_NoToken(t *testing.T) {
	out := capturePrintln(t)
	fc := &fakeClient{}
	a := newTestApp(fc, readerFromLines("/reset-password?foo=bar"))

	require.ErrorIs(t, a.Reset(context.Background()), errNoToken)
	assert.Equal(t, 0, fc.resetCalls)
	assert.Equal(t, []string{"This password reset link is invalid or has expired."}, *out)
}

func TestReset_Rejected(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "NewSecret1!", "NewSecret1!")

	msg := "This password reset link is invalid or has expired."
	fc := &fakeClient{resetErr: &client.RejectedError{Code: codes.InvalidArgument, Message: msg}}
	a := newTestApp(fc, readerFromLines("stale"))

	require.Error(t, a.Reset(context.Background()))
	assert.Equal(t, "stale", fc.resetTicket)
	assert.Equal(t, []string{msg}, *out)
}

func TestParseResetToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc", "abc"},
		{"  abc \t", "abc"},
		{"/reset-password?token=a%2Bb", "a+b"},
		{"https://shop.example/reset-password?x=1&token=t1", "t1"},
		{"/reset-password?x=1", ""},
		{"/reset-password?token=%zz", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := parseResetToken(tt.in); got != tt.want {
			t.Errorf("parseResetToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProfile_RequiresLogin(t *testing.T) {
	out := capturePrintln(t)
	a := newTestApp(&fakeClient{}, nil)

	require.NoError(t, a.Profile(context.Background()))
	require.NoError(t, a.ChangePassword(context.Background()))
	assert.Equal(t, []string{"Please log in first.", "Please log in first."}, *out)
}

func TestProfile_Prints(t *testing.T) {
	out := capturePrintln(t)
	last := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	fc := &fakeClient{profile: &client.Profile{
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Smith",
		LastLogin: &last,
	}}
	a := newTestApp(fc, nil)
	a.userName = "alice"

	require.NoError(t, a.Profile(context.Background()))
	joined := strings.Join(*out, "\n")
	assert.Contains(t, joined, "Username:   alice")
	assert.Contains(t, joined, "Email:      alice@example.com")
	assert.Contains(t, joined, "Name:       Alice Smith")
	assert.Contains(t, joined, "Last login: ")
}

func TestProfile_ExpiredToken(t *testing.T) {
	out := capturePrintln(t)
	fc := &fakeClient{profileErr: &client.RejectedError{Code: codes.Unauthenticated, Message: "Please log in again."}}
	a := newTestApp(fc, nil)
	a.userName = "alice"

	require.Error(t, a.Profile(context.Background()))
	assert.True(t, fc.loggedOut)
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, []string{"Please log in again."}, *out)
}

func TestChangePassword(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "Secret1!x", "NewSecret1!", "NewSecret1!")

	fc := &fakeClient{changeReply: &client.Reply{Message: "Password updated successfully!"}}
	a := newTestApp(fc, nil)
	a.userName = "alice"

	require.NoError(t, a.ChangePassword(context.Background()))
	assert.Equal(t, "Secret1!x", fc.changeOld)
	assert.Equal(t, "NewSecret1!", fc.changeNew)
	assert.Equal(t, "NewSecret1!", fc.changeConfirm)
	assert.Equal(t, []string{"Password updated successfully!"}, *out)
}

func TestChangePassword_Rejected(t *testing.T) {
	out := capturePrintln(t)
	stubPasswords(t, "wrong", "NewSecret1!", "NewSecret1!")

	fc := &fakeClient{changeErr: &client.RejectedError{Code: codes.Unauthenticated, Message: "Old password is incorrect."}}
	a := newTestApp(fc, nil)
	a.userName = "alice"

	require.Error(t, a.ChangePassword(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, []string{"Old password is incorrect."}, *out)
}
