package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/auth"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/jwt"
	"github.com/attendly/attendance-backend-go/internal/service/file"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type AuthServiceImpl struct {
	userRepo    user.Repository
	jwtService  jwt.Service
	fileService file.FileService
}

func NewAuthService(userRepo user.Repository, jwtService jwt.Service, fileService file.FileService) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		jwtService:  jwtService,
		fileService: fileService,
	}
}

// Signup implements auth.Service. Registers a fresh account, or completes
// setup for a placeholder account an admin provisioned without a password.
func (s *AuthServiceImpl) Signup(ctx context.Context, req auth.SignupRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	if req.Password != req.ConfirmPassword {
		return auth.LoginResponse{}, auth.ErrPasswordMismatch
	}
	if len(req.Password) < minPasswordLength {
		return auth.LoginResponse{}, auth.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return auth.LoginResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	var account user.User
	switch {
	case err == nil && existing.HasPassword():
		return auth.LoginResponse{}, user.ErrEmailExists

	case err == nil:
		// Admin-provisioned account completing setup
		existing.FirstName = req.FirstName
		existing.LastName = req.LastName
		existing.PasswordHash = &passwordHash
		if req.Domain != nil {
			existing.Domain = req.Domain
		}
		if req.Address != nil {
			existing.Address = req.Address
		}
		if req.File != nil && req.FileHeader != nil {
			path, err := s.fileService.UploadProfilePicture(ctx, existing.ID, req.File, req.FileHeader.Filename)
			if err != nil {
				return auth.LoginResponse{}, err
			}
			existing.ProfilePicturePath = &path
		}
		if err := s.userRepo.Update(ctx, existing); err != nil {
			return auth.LoginResponse{}, fmt.Errorf("failed to update user: %w", err)
		}
		account = existing

	default:
		created, err := s.userRepo.Create(ctx, user.User{
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Email:        req.Email,
			PasswordHash: &passwordHash,
			Domain:       req.Domain,
			Address:      req.Address,
		})
		if err != nil {
			return auth.LoginResponse{}, fmt.Errorf("failed to create user: %w", err)
		}
		if req.File != nil && req.FileHeader != nil {
			path, err := s.fileService.UploadProfilePicture(ctx, created.ID, req.File, req.FileHeader.Filename)
			if err != nil {
				return auth.LoginResponse{}, err
			}
			created.ProfilePicturePath = &path
			if err := s.userRepo.Update(ctx, created); err != nil {
				return auth.LoginResponse{}, fmt.Errorf("failed to update user: %w", err)
			}
		}
		account = created
	}

	return s.issueTokens(account)
}

// Login implements auth.Service.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, err
	}

	account, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, fmt.Errorf("failed to look up user: %w", err)
	}

	if !account.HasPassword() {
		return auth.LoginResponse{}, auth.ErrAccountNotSetUp
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(account)
}

func (s *AuthServiceImpl) issueTokens(account user.User) (auth.LoginResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(account.ID, account.Email, account.IsAdmin)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(account.ID)
	if err != nil {
		return auth.LoginResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return auth.LoginResponse{
		User:         user.ToResponse(account),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}
