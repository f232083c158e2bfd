package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/client/client"
	"github.com/dmitrijs2005/storefront/internal/client/config"
)

type fakeClient struct {
	pingErr error

	questions    []string
	questionsErr error

	signupForm  client.SignupForm
	signupCalls int
	signupReply *client.Reply
	signupErr   error

	loginUser     string
	loginPassword string
	loginReply    *client.LoginReply
	loginErr      error
	loggedOut     bool

	verifyForm  client.IdentityForm
	verifyReply *client.VerifyReply
	verifyErr   error

	resetTicket   string
	resetPassword string
	resetConfirm  string
	resetCalls    int
	resetReply    *client.Reply
	resetErr      error

	profile    *client.Profile
	profileErr error

	changeOld     string
	changeNew     string
	changeConfirm string
	changeReply   *client.Reply
	changeErr     error

	closed bool
}

func (f *fakeClient) Close() error                   { f.closed = true; return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeClient) Logout()                        { f.loggedOut = true }

func (f *fakeClient) SecurityQuestions(ctx context.Context) ([]string, error) {
	return f.questions, f.questionsErr
}

func (f *fakeClient) Signup(ctx context.Context, form client.SignupForm) (*client.Reply, error) {
	f.signupCalls++
	f.signupForm = form
	return f.signupReply, f.signupErr
}

func (f *fakeClient) Login(ctx context.Context, username, password string) (*client.LoginReply, error) {
	f.loginUser, f.loginPassword = username, password
	return f.loginReply, f.loginErr
}

func (f *fakeClient) VerifyIdentity(ctx context.Context, form client.IdentityForm) (*client.VerifyReply, error) {
	f.verifyForm = form
	return f.verifyReply, f.verifyErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, ticket, password, confirm string) (*client.Reply, error) {
	f.resetCalls++
	f.resetTicket, f.resetPassword, f.resetConfirm = ticket, password, confirm
	return f.resetReply, f.resetErr
}

func (f *fakeClient) Profile(ctx context.Context) (*client.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, oldPassword, password, confirm string) (*client.Reply, error) {
	f.changeOld, f.changeNew, f.changeConfirm = oldPassword, password, confirm
	return f.changeReply, f.changeErr
}

// ------------ helpers ------------

func readerFromLines(lines ...string) *bufio.Reader {
	if len(lines) == 0 || lines[len(lines)-1] != "" {
		lines = append(lines, "")
	}
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
}

func newTestApp(c client.Client, r *bufio.Reader) *App {
	return &App{
		config: &config.Config{},
		client: c,
		reader: r,
	}
}

// capturePrintln records everything the app prints.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		out = append(out, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

// stubPasswords answers password prompts in order. Each answer is a fresh
// slice because the commands wipe what they read.
func stubPasswords(t *testing.T, pw ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ string, _ io.Writer) ([]byte, error) {
		if i >= len(pw) {
			return nil, io.EOF
		}
		i++
		return []byte(pw[i-1]), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func stubChoice(t *testing.T, choice string) {
	t.Helper()
	orig := chooseOption
	chooseOption = func(_ *bufio.Reader, _ string, _ []string, _ io.Writer) (string, error) {
		return choice, nil
	}
	t.Cleanup(func() { chooseOption = orig })
}
