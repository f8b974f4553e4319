package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"surveyhub/internal/auth"
	apperrors "surveyhub/internal/errors"
	"surveyhub/internal/model"
	"surveyhub/internal/repository"
)

const bcryptCost = 10

// AuthService handles registration, login and admin provisioning.
type AuthService interface {
	// Register creates a user with the default role and returns it together
	// with a freshly issued token.
	Register(ctx context.Context, email, password string) (*model.User, string, error)
	// Authenticate verifies credentials and returns the user and a token.
	// Unknown email and wrong password are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	// ProvisionAdmin creates a user with the admin role. It only rejects a
	// duplicate when an existing user with that email already holds the
	// admin role.
	ProvisionAdmin(ctx context.Context, email, password string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register creates a new user with a hashed password. Email uniqueness is
// delegated to the store constraint rather than a lookup-then-insert, so
// concurrent signups cannot race past the check.
func (s *authService) Register(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.createUser(ctx, email, password, model.RoleUser)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperrors.ErrDuplicateEmail
		}
		return nil, "", err
	}

	token, err := s.jwtService.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// Authenticate verifies credentials and issues a token carrying the user's
// identifier, email and role.
func (s *authService) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Generate(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	return user, token, nil
}

// ProvisionAdmin creates an admin user. The duplicate pre-check only looks
// for an existing admin; a clash with a non-admin email surfaces as the
// store's uniqueness violation.
func (s *authService) ProvisionAdmin(ctx context.Context, email, password string) (*model.User, error) {
	existing, err := s.userRepo.FindAdminByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrDuplicateAdmin
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check admin existence: %w", err)
	}

	return s.createUser(ctx, email, password, model.RoleAdmin)
}

// createUser hashes the password and persists a user with the given role.
// Hashing happens here, before the persistence call, never via a store hook.
func (s *authService) createUser(ctx context.Context, email, password, role string) (*model.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
