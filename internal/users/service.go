package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/migapan/storefront-backend/pkg/db"
	"github.com/migapan/storefront-backend/pkg/db/models"
	pkgerrors "github.com/migapan/storefront-backend/pkg/errors"
)

// Service serves the authenticated user's own profile.
type Service interface {
	GetProfile(ctx context.Context, userID uint64) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uint64, req UpdateProfileRequest) (*UserDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uint64) (*models.User, error)
	UpdateProfile(ctx context.Context, id uint64, name, phone *string) (*models.User, error)
}

type service struct {
	repo profileRepository
}

func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uint64) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uint64, req UpdateProfileRequest) (*UserDTO, error) {
	var name *string
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		name = &trimmed
	}
	var phone *string
	if req.Phone != nil {
		trimmed := strings.TrimSpace(*req.Phone)
		phone = &trimmed
	}

	user, err := s.repo.UpdateProfile(ctx, userID, name, phone)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return FromModel(user), nil
}
