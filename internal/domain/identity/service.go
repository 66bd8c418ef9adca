package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"photomarket/internal/logger"
)

// UserRepository is the user persistence the service needs.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(userID string, role string) (string, error)
}

type Service struct {
	users  UserRepository
	tokens TokenIssuer
}

func NewService(users UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if req.Role == RoleAdmin || !req.Role.Valid() {
		return nil, ErrRoleNotAllowed
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
		Country:      strings.TrimSpace(req.Country),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	logger.CtxInfo(ctx, "user registered", "new_user_id", u.ID, "role", u.Role)
	return &AuthResult{User: u, AccessToken: token}, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{User: u, AccessToken: token}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// EnsureAdmin creates the bootstrap admin when no account uses its email.
// An existing account is left untouched. Safe to call on every start.
func (s *Service) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	exists, err := s.users.ExistsByEmail(ctx, seed.Email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	hash, err := hashPassword(seed.Password)
	if err != nil {
		return false, err
	}

	admin := &User{
		Email:        seed.Email,
		PasswordHash: hash,
		Name:         seed.Name,
		Role:         RoleAdmin,
		Country:      seed.Country,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			// another instance won the race
			return false, nil
		}
		return false, err
	}

	logger.CtxInfo(ctx, "bootstrap admin created", "email", admin.Email)
	return true, nil
}

// SeedVerified reports the seed-data verification default for userID.
// Unknown users have no default.
func (s *Service) SeedVerified(ctx context.Context, userID string) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.SeedVerified, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
