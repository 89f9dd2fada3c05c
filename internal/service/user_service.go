package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"inventory-service/internal/domain"
	"inventory-service/internal/repository"
)

// PasswordHasher is the one-way function used for stored passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(identity domain.Identity) (string, error)
	Verify(raw string) (domain.Identity, error)
}

// UserService describes registration, login and token verification.
type UserService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Verify(ctx context.Context, token string) (domain.Identity, error)
	CurrentUser(ctx context.Context, identity domain.Identity) (domain.Identity, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

func (s *userService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, username)
		}
		return nil, err
	}

	return sanitizeUser(user), nil
}

// Login reports ErrInvalidCredentials for both an unknown username and a
// wrong password so callers cannot tell the two apart.
func (s *userService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Identity{UserID: user.ID, Username: user.Username})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *userService) Verify(_ context.Context, token string) (domain.Identity, error) {
	if strings.TrimSpace(token) == "" {
		return domain.Identity{}, ErrMissingToken
	}
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return identity, nil
}

// CurrentUser reloads the account behind a verified token. A token whose user
// no longer exists is reported as ErrInvalidToken.
func (s *userService) CurrentUser(ctx context.Context, identity domain.Identity) (domain.Identity, error) {
	if _, err := uuid.Parse(identity.UserID); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: malformed user id", ErrInvalidToken)
	}
	user, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Identity{}, fmt.Errorf("%w: user %s no longer exists", ErrInvalidToken, identity.UserID)
		}
		return domain.Identity{}, err
	}
	return domain.Identity{UserID: user.ID, Username: user.Username}, nil
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
