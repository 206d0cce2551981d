package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/wonny/warehouse/internal/contracts"
)

var (
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrMissingCredentials = errors.New("login and password required")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidRole        = errors.New("invalid role")
)

// Session is a successful login
type Session struct {
	Token     string          `json:"token"`
	ExpiresAt int64           `json:"expires_at"`
	User      *contracts.User `json:"user"`
}

// Service manages accounts and logins
// ⭐ SSOT: password hashes are created and checked only here
type Service struct {
	users  contracts.UserRepository
	tokens *TokenIssuer
	log    zerolog.Logger
}

// NewService creates a service
func NewService(users contracts.UserRepository, tokens *TokenIssuer, log zerolog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		log:    log.With().Str("component", "auth.service").Logger(),
	}
}

// Tokens returns the issuer used to verify requests
func (s *Service) Tokens() *TokenIssuer {
	return s.tokens
}

// Login checks credentials and issues a token
func (s *Service) Login(ctx context.Context, login, password string) (*Session, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.users.GetByLogin(ctx, login)
	if errors.Is(err, contracts.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !CheckPassword(user.PasswordHash, password) {
		s.log.Info().Str("login", login).Msg("login rejected")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("login", login).Str("role", string(user.Role)).Msg("login")
	return &Session{Token: token, ExpiresAt: expiresAt.Unix(), User: user}, nil
}

// CreateAccount registers a non-admin user
func (s *Service) CreateAccount(ctx context.Context, login, password string, role contracts.Role) (*contracts.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	if !role.Valid() || role == contracts.RoleAdmin {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, login, password, role)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet
func (s *Service) EnsureAdmin(ctx context.Context, login, password string) (created bool, err error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return false, ErrMissingCredentials
	}

	_, err = s.users.GetByLogin(ctx, login)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, contracts.ErrNotFound) {
		return false, fmt.Errorf("load user: %w", err)
	}

	if _, err := s.create(ctx, login, password, contracts.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

// ListAccounts returns every non-admin user ordered by login
func (s *Service) ListAccounts(ctx context.Context) ([]contracts.User, error) {
	return s.users.ListNonAdmin(ctx)
}

func (s *Service) create(ctx context.Context, login, password string, role contracts.Role) (*contracts.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &contracts.User{Login: login, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, contracts.ErrConflict) {
			return nil, ErrLoginTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("login", login).Str("role", string(role)).Msg("account created")
	return user, nil
}
