package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO.
// The role name falls back to the role ID mapping when Role is not preloaded.
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	role := user.Role.RoleName
	if role == "" {
		role = entity.RoleName(user.RoleID)
	}

	return &dto.UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Phone:     user.Phone,
		RoleID:    user.RoleID,
		Role:      role,
		IsActive:  user.Active(),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
