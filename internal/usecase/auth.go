package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/coursely/course-api/internal/entity"
	"github.com/coursely/course-api/internal/logging"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrResetExpired       = errors.New("password reset link expired")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// Session is the identity handed to the rest of the system.
type Session struct {
	UserID string
	Email  string
	Admin  bool
}

type SignInOutput struct {
	Session   Session
	Token     string
	ExpiresIn time.Duration
}

// Auth implements the identity collaborator: sign in/up, password reset and
// update. Session lookup itself is done by the HTTP middleware parsing the
// bearer token.
type Auth struct {
	users    UserRepo
	hasher   PasswordHasher
	tokens   TokenIssuer
	resets   ResetSealer
	resetTTL time.Duration
}

func NewAuth(users UserRepo, hasher PasswordHasher, tokens TokenIssuer, resets ResetSealer, resetTTL time.Duration) *Auth {
	return &Auth{users: users, hasher: hasher, tokens: tokens, resets: resets, resetTTL: resetTTL}
}

func (a *Auth) SignUp(ctx context.Context, email, password string) (SignInOutput, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if len(password) < 8 {
		return SignInOutput{}, ErrWeakPassword
	}
	if existing, err := a.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return SignInOutput{}, ErrEmailTaken
	}
	hash, err := a.hasher.Hash(password)
	if err != nil {
		return SignInOutput{}, err
	}
	u := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := u.Validate(); err != nil {
		return SignInOutput{}, err
	}
	if err := a.users.Create(ctx, u); err != nil {
		return SignInOutput{}, err
	}
	return a.issue(u)
}

func (a *Auth) SignIn(ctx context.Context, email, password string) (SignInOutput, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return SignInOutput{}, ErrInvalidCredentials
	}
	if err := a.hasher.Compare(u.PasswordHash, password); err != nil {
		return SignInOutput{}, ErrInvalidCredentials
	}
	return a.issue(u)
}

// SendPasswordReset seals a short-lived token for the account. Delivery is a
// mail concern outside this service; the token is logged for the mailer to
// pick up.
func (a *Auth) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := a.users.GetByEmail(ctx, email)
	if err != nil || u == nil {
		// Do not reveal whether the account exists.
		return nil
	}
	token, err := a.resets.Seal(u.ID, time.Now().Add(a.resetTTL))
	if err != nil {
		return err
	}
	logging.FromCtx(ctx).Info("password reset issued", "user_id", u.ID, "token", token)
	return nil
}

func (a *Auth) UpdatePassword(ctx context.Context, resetToken, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	userID, expiresAt, err := a.resets.Unseal(resetToken)
	if err != nil {
		return ErrResetExpired
	}
	if time.Now().After(expiresAt) {
		return ErrResetExpired
	}
	hash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return a.users.UpdatePassword(ctx, userID, hash)
}

func (a *Auth) issue(u *entity.User) (SignInOutput, error) {
	token, ttl, err := a.tokens.Issue(u.ID, u.Email, u.Admin)
	if err != nil {
		return SignInOutput{}, err
	}
	return SignInOutput{
		Session:   Session{UserID: u.ID, Email: u.Email, Admin: u.Admin},
		Token:     token,
		ExpiresIn: ttl,
	}, nil
}
