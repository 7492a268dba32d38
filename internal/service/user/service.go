package user

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/service/file"
)

type UserServiceImpl struct {
	userRepo    user.Repository
	fileService file.FileService
}

func NewUserService(userRepo user.Repository, fileService file.FileService) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:    userRepo,
		fileService: fileService,
	}
}

// GetProfile implements user.Service.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID string) (user.UserResponse, error) {
	usr, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.ToResponse(usr), nil
}

// UpdateProfile implements user.Service.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	usr, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return user.UserResponse{}, err
	}

	if req.FirstName != nil && *req.FirstName != "" {
		usr.FirstName = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != "" {
		usr.LastName = *req.LastName
	}
	if req.Email != nil && *req.Email != "" && *req.Email != usr.Email {
		taken, err := s.userRepo.EmailExists(ctx, *req.Email, usr.ID)
		if err != nil {
			return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return user.UserResponse{}, user.ErrEmailExists
		}
		usr.Email = *req.Email
	}
	if req.Domain != nil {
		usr.Domain = req.Domain
	}
	if req.Address != nil {
		usr.Address = req.Address
	}

	if req.File != nil && req.FileHeader != nil {
		path, err := s.fileService.UploadProfilePicture(ctx, usr.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return user.UserResponse{}, err
		}
		// Old picture is replaced, not kept around
		if usr.ProfilePicturePath != nil {
			_ = s.fileService.DeleteFile(ctx, *usr.ProfilePicturePath)
		}
		usr.ProfilePicturePath = &path
	}

	if err := s.userRepo.Update(ctx, usr); err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user.ToResponse(usr), nil
}

// Create implements user.Service. Accounts provisioned here have no password
// until the user completes signup.
func (s *UserServiceImpl) Create(ctx context.Context, req user.CreateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	taken, err := s.userRepo.EmailExists(ctx, req.Email, "")
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return user.UserResponse{}, user.ErrEmailExists
	}

	isAdmin := false
	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
	}

	created, err := s.userRepo.Create(ctx, user.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Domain:    req.Domain,
		Address:   req.Address,
		IsAdmin:   isAdmin,
	})
	if err != nil {
		return user.UserResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user.ToResponse(created), nil
}

// List implements user.Service.
func (s *UserServiceImpl) List(ctx context.Context) ([]user.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.ToResponse(u))
	}
	return responses, nil
}
