// Package services contains server-side business logic: the account flows
// (signup, login with lockout, forgot/reset, profile) and the catalog reads.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/auth"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/lockout"
	"github.com/dmitrijs2005/storefront/internal/server/metrics"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/dmitrijs2005/storefront/internal/server/passwords"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
)

type credentialHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hashed string) bool
}

type SignupRequest struct {
	Username         string
	Email            string
	FirstName        string
	LastName         string
	Password         string
	ConfirmPassword  string
	SecurityQuestion string
	SecurityAnswer   string
}

type LoginRequest struct {
	// Session identifies the client session the lockout counter belongs to.
	Session  string
	Username string
	Password string
}

type VerifyRequest struct {
	Username         string
	Email            string
	SecurityQuestion string
	SecurityAnswer   string
}

type ResetRequest struct {
	Ticket          string
	NewPassword     string
	ConfirmPassword string
}

type ChangePasswordRequest struct {
	Username        string
	OldPassword     string
	NewPassword     string
	ConfirmPassword string
}

// Result is the outcome of a successful flow: a message to show and the
// view to go to next.
type Result struct {
	Message  string
	NextView string
}

type LoginResult struct {
	Result
	AccessToken string
	ExpiresAt   time.Time
	// LastLogin is the login before this one, nil on the first login.
	LastLogin *time.Time
}

type VerifyResult struct {
	Result
	Username    string
	ResetTicket string
	ExpiresAt   time.Time
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	policy      passwords.Policy
	hasher      credentialHasher
	tokens      *auth.Tokens
	lockouts    lockout.Store
	events      events.Publisher
	metrics     *metrics.AuthMetrics
	logger      logging.Logger
	now         func() time.Time

	accessTokenValidity time.Duration
	resetTicketValidity time.Duration
	uniformVerifyErrors bool

	dummyOnce sync.Once
	dummyHash string
}

type AccountOption func(*AccountService)

func WithEvents(p events.Publisher) AccountOption {
	return func(s *AccountService) { s.events = p }
}

func WithAuthMetrics(m *metrics.AuthMetrics) AccountOption {
	return func(s *AccountService) { s.metrics = m }
}

func WithLogger(l logging.Logger) AccountOption {
	return func(s *AccountService) { s.logger = l }
}

func WithClock(now func() time.Time) AccountOption {
	return func(s *AccountService) { s.now = now }
}

func withHasher(h credentialHasher) AccountOption {
	return func(s *AccountService) { s.hasher = h }
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, lockouts lockout.Store, opts ...AccountOption) *AccountService {
	s := &AccountService{
		db:                  db,
		repomanager:         m,
		policy:              passwords.NewPolicy(cfg.PasswordMinLength),
		hasher:              passwords.NewHasher(),
		tokens:              auth.NewTokens([]byte(cfg.SecretKey)),
		lockouts:            lockouts,
		events:              events.NopPublisher{},
		logger:              logging.Nop(),
		now:                 time.Now,
		accessTokenValidity: cfg.AccessTokenValidityDuration,
		resetTicketValidity: cfg.ResetTicketValidityDuration,
		uniformVerifyErrors: cfg.UniformVerifyErrors,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("module", "accounts")
	return s
}

// Policy is the password policy every flow enforces.
func (s *AccountService) Policy() passwords.Policy {
	return s.policy
}

// Signup validates the form, hashes the password and the security answer
// and stores the new account. A step that fails never reaches the store.
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (*Result, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" || email == "" {
		return nil, s.reject(metrics.FlowSignup, newFlowError(common.ErrorValidation, MsgIdentityRequired, nil))
	}
	if err := s.checkPolicy(req.Password); err != nil {
		return nil, s.reject(metrics.FlowSignup, err)
	}
	if req.Password != req.ConfirmPassword {
		return nil, s.reject(metrics.FlowSignup, newFlowError(common.ErrorValidation, MsgPasswordsMismatch, nil))
	}
	if req.SecurityQuestion == "" || strings.TrimSpace(req.SecurityAnswer) == "" {
		return nil, s.reject(metrics.FlowSignup, newFlowError(common.ErrorValidation, MsgQuestionRequired, nil))
	}
	if !passwords.IsSecurityQuestion(req.SecurityQuestion) {
		return nil, s.reject(metrics.FlowSignup, newFlowError(common.ErrorValidation, MsgQuestionInvalid, nil))
	}
	answer := passwords.NormalizeAnswer(req.SecurityAnswer)
	if len(answer) > passwords.MaxBytes {
		return nil, s.reject(metrics.FlowSignup, newFlowError(common.ErrorValidation, MsgAnswerTooLong, nil))
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowSignup, "hash password", err)
	}
	answerHash, err := s.hasher.Hash(answer)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowSignup, "hash security answer", err)
	}

	user := &models.User{
		Username:         username,
		Email:            email,
		FirstName:        strings.TrimSpace(req.FirstName),
		LastName:         strings.TrimSpace(req.LastName),
		Password:         passwordHash,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   answerHash,
	}

	if _, err := s.repomanager.Users(s.db).Create(ctx, user); err != nil {
		s.logger.Error(ctx, "error creating user", "username", username, "error", err)
		// With uniform errors a taken username is indistinguishable from
		// a store failure.
		kind := common.ErrorInternal
		if errors.Is(err, common.ErrorAlreadyExists) && !s.uniformVerifyErrors {
			kind = common.ErrorAlreadyExists
		}
		s.metrics.Observe(metrics.FlowSignup, metrics.OutcomeError)
		return nil, newFlowError(kind, MsgSaveFailed, err)
	}

	s.metrics.Observe(metrics.FlowSignup, metrics.OutcomeSuccess)
	s.publish(ctx, events.SignedUp, username, "")

	return &Result{Message: MsgSignedUp, NextView: ViewLogin}, nil
}

// Login authenticates username within the client session of req. After
// lockout.MaxAttempts consecutive failures the pair is locked for
// lockout.Duration and further attempts are refused without a store call.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	key := lockout.Key{Session: req.Session, Username: username}
	now := s.now()

	state, err := s.lockouts.Load(ctx, key)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowLogin, "load lockout state", err)
	}
	if remaining := state.Remaining(now); remaining > 0 {
		s.metrics.Observe(metrics.FlowLogin, metrics.OutcomeLocked)
		return nil, lockedError(remaining)
	}

	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, s.fail(ctx, metrics.FlowLogin, "find user", err)
	}

	var ok bool
	if user != nil {
		ok = s.hasher.Compare(req.Password, user.Password)
	} else {
		s.hasher.Compare(req.Password, s.dummy())
	}

	if !ok {
		state, err = s.lockouts.Fail(ctx, key, now)
		if err != nil {
			s.logger.Error(ctx, "error counting failed login", "username", username, "error", err)
		}
		if remaining := state.Remaining(now); remaining > 0 {
			s.metrics.Observe(metrics.FlowLogin, metrics.OutcomeLocked)
			s.publish(ctx, events.LockedOut, username, req.Session)
			return nil, lockedError(remaining)
		}
		s.metrics.Observe(metrics.FlowLogin, metrics.OutcomeRejected)
		s.publish(ctx, events.LoginFailed, username, req.Session)
		return nil, newFlowError(common.ErrorUnauthorized, MsgInvalidCredentials, nil)
	}

	if err := s.lockouts.Clear(ctx, key); err != nil {
		s.logger.Error(ctx, "error clearing lockout state", "username", user.Username, "error", err)
	}

	if err := s.repomanager.Users(s.db).TouchLastLogin(ctx, user.Username, now); err != nil {
		s.logger.Error(ctx, "error updating last login", "username", user.Username, "error", err)
	}

	token, claims, err := s.tokens.GenerateToken(user.Username, auth.PurposeAccess, s.accessTokenValidity)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowLogin, "generate access token", err)
	}

	msg := MsgWelcomeFirst
	if user.LastLogin != nil {
		msg = fmt.Sprintf(MsgWelcomeBackFormat, user.LastLogin.UTC().Format(time.RFC1123))
	}

	s.metrics.Observe(metrics.FlowLogin, metrics.OutcomeSuccess)
	s.publish(ctx, events.LoginSucceeded, user.Username, req.Session)

	return &LoginResult{
		Result:      Result{Message: msg, NextView: ViewHome},
		AccessToken: token,
		ExpiresAt:   claims.ExpiresAt.Time,
		LastLogin:   user.LastLogin,
	}, nil
}

// VerifyIdentity checks username, email and security answer in that order
// and, when all match, mints a single-use reset ticket.
func (s *AccountService) VerifyIdentity(ctx context.Context, req VerifyRequest) (*VerifyResult, error) {
	username := strings.TrimSpace(req.Username)

	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.verifyRejected(ctx, username, common.ErrorNotFound, MsgNoAccount)
		}
		return nil, s.fail(ctx, metrics.FlowVerify, "find user", err)
	}

	if !strings.EqualFold(strings.TrimSpace(req.Email), user.Email) {
		return nil, s.verifyRejected(ctx, username, common.ErrorUnauthorized, MsgEmailMismatch)
	}

	if req.SecurityQuestion != user.SecurityQuestion ||
		!s.hasher.Compare(passwords.NormalizeAnswer(req.SecurityAnswer), user.SecurityAnswer) {
		return nil, s.verifyRejected(ctx, username, common.ErrorUnauthorized, MsgAnswerIncorrect)
	}

	ticket, claims, err := s.tokens.GenerateToken(user.Username, auth.PurposePasswordReset, s.resetTicketValidity)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowVerify, "generate reset ticket", err)
	}

	s.metrics.Observe(metrics.FlowVerify, metrics.OutcomeSuccess)
	s.publish(ctx, events.IdentityVerified, user.Username, "")

	return &VerifyResult{
		Result: Result{
			Message:  "Identity verified. You can now choose a new password.",
			NextView: ViewResetPassword + "?token=" + url.QueryEscape(ticket),
		},
		Username:    user.Username,
		ResetTicket: ticket,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// ResetPassword sets a new password for the account a reset ticket was
// minted for. The ticket is redeemed in the same transaction as the update.
func (s *AccountService) ResetPassword(ctx context.Context, req ResetRequest) (*Result, error) {
	if err := s.checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, s.reject(metrics.FlowReset, err)
	}

	claims, err := s.tokens.ParseToken(req.Ticket, auth.PurposePasswordReset)
	if err != nil {
		return nil, s.reject(metrics.FlowReset, newFlowError(common.ErrInvalidToken, MsgResetLinkInvalid, err))
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowReset, "hash password", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.ResetTickets(tx).Redeem(ctx, claims.ID, claims.Subject); err != nil {
			return err
		}
		return s.repomanager.Users(tx).UpdatePassword(ctx, claims.Subject, hash)
	})
	if err != nil {
		if errors.Is(err, common.ErrTokenRedeemed) {
			return nil, s.reject(metrics.FlowReset, newFlowError(common.ErrInvalidToken, MsgResetLinkInvalid, err))
		}
		s.logger.Error(ctx, "error updating password", "username", claims.Subject, "error", err)
		s.metrics.Observe(metrics.FlowReset, metrics.OutcomeError)
		return nil, newFlowError(common.ErrorInternal, MsgUpdateFailed, err)
	}

	s.metrics.Observe(metrics.FlowReset, metrics.OutcomeSuccess)
	s.publish(ctx, events.PasswordReset, claims.Subject, "")

	return &Result{Message: MsgPasswordReset, NextView: ViewLogin}, nil
}

// Authenticate resolves an access token to its username.
func (s *AccountService) Authenticate(accessToken string) (string, error) {
	claims, err := s.tokens.ParseToken(accessToken, auth.PurposeAccess)
	if err != nil {
		return "", newFlowError(common.ErrorUnauthorized, "Please log in to continue.", err)
	}
	return claims.Subject, nil
}

func (s *AccountService) GetProfile(ctx context.Context, username string) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, newFlowError(common.ErrorNotFound, MsgNoAccount, err)
		}
		s.logger.Error(ctx, "error loading profile", "username", username, "error", err)
		return nil, unexpected(err)
	}
	return user.Profile(), nil
}

// ChangePassword replaces the password of a logged in user after checking
// the old one.
func (s *AccountService) ChangePassword(ctx context.Context, req ChangePasswordRequest) (*Result, error) {
	user, err := s.repomanager.Users(s.db).FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, s.reject(metrics.FlowChangePassword, newFlowError(common.ErrorNotFound, MsgNoAccount, err))
		}
		return nil, s.fail(ctx, metrics.FlowChangePassword, "find user", err)
	}

	if !s.hasher.Compare(req.OldPassword, user.Password) {
		return nil, s.reject(metrics.FlowChangePassword, newFlowError(common.ErrorUnauthorized, MsgOldPasswordIncorrect, nil))
	}
	if err := s.checkNewPassword(req.NewPassword, req.ConfirmPassword); err != nil {
		return nil, s.reject(metrics.FlowChangePassword, err)
	}

	hash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return nil, s.fail(ctx, metrics.FlowChangePassword, "hash password", err)
	}

	if err := s.repomanager.Users(s.db).UpdatePassword(ctx, user.Username, hash); err != nil {
		s.logger.Error(ctx, "error updating password", "username", user.Username, "error", err)
		s.metrics.Observe(metrics.FlowChangePassword, metrics.OutcomeError)
		return nil, newFlowError(common.ErrorInternal, MsgUpdateFailed, err)
	}

	s.metrics.Observe(metrics.FlowChangePassword, metrics.OutcomeSuccess)
	s.publish(ctx, events.PasswordChanged, user.Username, "")

	return &Result{Message: MsgPasswordChanged}, nil
}

// checkNewPassword checks the confirmation match first and the policy second.
func (s *AccountService) checkNewPassword(password, confirm string) *FlowError {
	if password != confirm {
		return newFlowError(common.ErrorValidation, MsgPasswordsMismatch, nil)
	}
	return s.checkPolicy(password)
}

func (s *AccountService) checkPolicy(password string) *FlowError {
	if err := s.policy.Validate(password); err != nil {
		return newFlowError(common.ErrorValidation, err.Error(), err)
	}
	return nil
}

func (s *AccountService) verifyRejected(ctx context.Context, username string, kind error, msg string) error {
	if s.uniformVerifyErrors {
		kind, msg = common.ErrorUnauthorized, MsgVerificationFailed
	}
	s.publish(ctx, events.IdentityRejected, username, "")
	return s.reject(metrics.FlowVerify, newFlowError(kind, msg, nil))
}

func (s *AccountService) reject(flow string, err *FlowError) error {
	s.metrics.Observe(flow, metrics.OutcomeRejected)
	return err
}

func (s *AccountService) fail(ctx context.Context, flow, step string, err error) error {
	s.logger.Error(ctx, "account flow failed", "flow", flow, "step", step, "error", err)
	s.metrics.Observe(flow, metrics.OutcomeError)
	return unexpected(err)
}

func (s *AccountService) publish(ctx context.Context, t events.Type, username, session string) {
	e := events.Event{Type: t, Username: username, Session: session, At: s.now().UTC()}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn(ctx, "error publishing account event", "type", string(t), "error", err)
	}
}

// dummy is compared against when the username is unknown so that both
// branches of a failed login cost one bcrypt comparison.
func (s *AccountService) dummy() string {
	s.dummyOnce.Do(func() {
		seed, err := common.MakeRandHexString(16)
		if err != nil {
			return
		}
		if h, err := s.hasher.Hash(seed); err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func lockedError(remaining time.Duration) error {
	locked := &lockout.LockedError{Remaining: remaining}
	return newFlowError(common.ErrorLocked, locked.Error(), locked)
}
