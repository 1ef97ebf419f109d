package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrUnauthorized covers every authentication failure: unknown user,
	// wrong password, invalid or expired token, vanished subject. Callers
	// must not learn which one it was.
	ErrUnauthorized = errors.New("unauthorized")

	ErrUsernameTaken = errors.New("username already registered")
)

type Service struct {
	Store    *Store
	Secret   string
	TokenTTL time.Duration
}

func NewService(store *Store, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{Store: store, Secret: secret, TokenTTL: tokenTTL}
}

func (s *Service) Signup(ctx context.Context, username, password, groupName string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.Store.CreateUser(ctx, username, hash, groupName)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := s.Store.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

func (s *Service) IssueToken(username string) (string, error) {
	return GenerateToken(s.Secret, username, s.TokenTTL)
}

// ResolveToken verifies the token and maps its subject back to a stored user.
func (s *Service) ResolveToken(ctx context.Context, token string) (*User, error) {
	claims, err := ParseToken(s.Secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.Store.FindUserByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}
