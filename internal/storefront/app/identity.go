package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/storefront/internal/storefront/auth"
	"github.com/jcmexdev/storefront/internal/storefront/domain"
)

// Principal is the caller identity resolved from a bearer token.
type Principal struct {
	Status auth.Status
	User   domain.User
	// Reason explains an Invalid status.
	Reason string
}

// Authenticated reports whether the token resolved to an existing user.
func (p Principal) Authenticated() bool { return p.Status == auth.Authenticated }

// IdentityService registers and signs in users and resolves bearer tokens.
type IdentityService struct {
	users     UserRepo
	tokens    *auth.Tokens
	passwords auth.Passwords
	now       func() time.Time
}

// NewIdentityService wires the user store with token and password handling.
func NewIdentityService(users UserRepo, tokens *auth.Tokens, passwords auth.Passwords) *IdentityService {
	return &IdentityService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		now:       time.Now,
	}
}

// Register creates an account and returns it with a fresh token. An email
// that is already registered fails with domain.ErrEmailTaken.
func (s *IdentityService) Register(ctx context.Context, email, password, fullName string) (domain.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.User{}, "", fmt.Errorf("email and password are required: %w", domain.ErrInvalidInput)
	}

	_, err := s.users.UserByEmail(ctx, email)
	if err == nil {
		return domain.User{}, "", domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", err
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return domain.User{}, "", err
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		FullName:  strings.TrimSpace(fullName),
		CreatedAt: s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, domain.Credentials{User: user, PasswordHash: hash}); err != nil {
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return domain.User{}, "", err
	}

	slog.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks the password and issues a new token. Unknown emails and wrong
// passwords both fail with domain.ErrInvalidCredentials.
func (s *IdentityService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	cred, err := s.users.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, "", err
	}

	if err := s.passwords.Compare(cred.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return domain.User{}, "", domain.ErrInvalidCredentials
		}
		return domain.User{}, "", err
	}

	token, err := s.tokens.Issue(cred.User.ID)
	if err != nil {
		return domain.User{}, "", err
	}
	return cred.User, token, nil
}

// Authenticate resolves a raw token to a Principal. Token problems never
// produce an error; only store failures do.
func (s *IdentityService) Authenticate(ctx context.Context, rawToken string) (Principal, error) {
	res := s.tokens.Verify(rawToken)
	if res.Status != auth.Authenticated {
		return Principal{Status: res.Status, Reason: res.Reason}, nil
	}

	user, err := s.users.UserByID(ctx, res.UserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return Principal{Status: auth.Invalid, Reason: "unknown user"}, nil
	}
	if err != nil {
		return Principal{}, err
	}
	return Principal{Status: auth.Authenticated, User: user}, nil
}

// Me reloads the profile of an authenticated user.
func (s *IdentityService) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.users.UserByID(ctx, userID)
}
