package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/app/models"
	"github.com/sesi/membership/internal/app/models/dto"
	"github.com/sesi/membership/internal/app/repositories"
	"github.com/sesi/membership/internal/pkg/apperrors"
	"github.com/sesi/membership/internal/pkg/auth"
)

// AuthService handles back-office authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// CreateUser registers a back-office account; role defaults to admin
	CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error)
	// EnsureUser creates the account unless the email is already registered
	EnsureUser(ctx context.Context, req *dto.CreateUserRequest) (created bool, err error)
}

type authServiceImpl struct {
	users      repositories.UserStore
	jwtService *auth.JWTService
	bcryptCost int
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserStore, jwtService *auth.JWTService, logger zerolog.Logger) AuthService {
	return &authServiceImpl{
		users:      users,
		jwtService: jwtService,
		bcryptCost: auth.BcryptCost,
		logger:     logger.With().Str("component", "auth").Logger(),
		now:        time.Now,
	}
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
	}
}

// Login authenticates a user
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, expiresIn, err := s.jwtService.GenerateToken(auth.Subject{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
	})
	if err != nil {
		return nil, fmt.Errorf("error generating access token: %w", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to record last login")
	}
	s.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("User logged in")

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   expiresIn,
		User:        toUserResponse(user),
	}, nil
}

func (s *authServiceImpl) newUser(req *dto.CreateUserRequest) (*models.User, error) {
	role := models.RoleAdmin
	if req.Role != "" {
		role = models.RoleType(strings.ToLower(req.Role))
		if !role.Valid() {
			return nil, apperrors.NewFieldValidationError(apperrors.ErrBadRequest, "role", "role must be admin or editor")
		}
	}
	if len(req.Password) < 8 {
		return nil, apperrors.NewFieldValidationError(apperrors.ErrBadRequest, "password", "password must be at least 8 characters long")
	}

	hash, err := auth.HashPasswordWithCost(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = "SESI Admin"
	}
	return &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}, nil
}

// CreateUser implements AuthService
func (s *authServiceImpl) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	user, err := s.newUser(req)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("email", user.Email).Str("role", string(user.Role)).Msg("User created")
	resp := toUserResponse(user)
	return &resp, nil
}

// EnsureUser implements AuthService
func (s *authServiceImpl) EnsureUser(ctx context.Context, req *dto.CreateUserRequest) (bool, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return false, nil
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return false, err
	}

	if _, err := s.CreateUser(ctx, req); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
