package service

import (
	"context"
	"errors"
	"strings"
	"taskboard/internal/common"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

type AdminUpdateUserRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      *string `json:"role"`
	IsActive  *bool   `json:"isActive"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*model.User, error) {
	upd := repository.UserProfileUpdate{
		FirstName: normalizeName(req.FirstName),
		LastName:  normalizeName(req.LastName),
	}
	if upd.FirstName == nil && upd.LastName == nil {
		return nil, common.NewError(common.ErrBadRequest, "No fields to update")
	}
	return s.userRepo.UpdateProfile(ctx, userID, upd)
}

func (s *UserService) ListUsers(ctx context.Context, p common.PageParams) ([]model.User, int, error) {
	return s.userRepo.List(ctx, p.Limit, p.Offset())
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req AdminUpdateUserRequest) (*model.User, error) {
	if req.Role != nil && !model.ValidRole(*req.Role) {
		return nil, common.NewError(common.ErrValidation, "Role must be either user or admin")
	}

	upd := repository.UserAdminUpdate{
		FirstName: normalizeName(req.FirstName),
		LastName:  normalizeName(req.LastName),
		Role:      req.Role,
		IsActive:  req.IsActive,
	}
	if upd.FirstName == nil && upd.LastName == nil && upd.Role == nil && upd.IsActive == nil {
		return nil, common.NewError(common.ErrBadRequest, "No fields to update")
	}

	// Existence check first so an invalid id reads as not found rather than
	// a silent no-op update.
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrNotFound, "User not found")
		}
		return nil, err
	}
	return s.userRepo.Update(ctx, id, upd)
}

// normalizeName trims the field and treats blank input as not supplied,
// matching the original API's falsy-field handling.
func normalizeName(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
