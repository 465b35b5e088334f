package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

func DepartmentToResponse(d *entity.Department) *dto.DepartmentResponse {
	if d == nil {
		return nil
	}

	return &dto.DepartmentResponse{
		ID:          d.ID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		Location:    d.Location,
		IsActive:    d.Active(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func DepartmentsToResponses(departments []entity.Department) []dto.DepartmentResponse {
	return lo.Map(departments, func(d entity.Department, _ int) dto.DepartmentResponse {
		return *DepartmentToResponse(&d)
	})
}

func SpecialtyToResponse(s *entity.Specialty) *dto.SpecialtyResponse {
	if s == nil {
		return nil
	}

	return &dto.SpecialtyResponse{
		ID:             s.ID,
		DepartmentID:   s.DepartmentID,
		DepartmentName: s.Department.Name,
		Name:           s.Name,
		Description:    s.Description,
		CreatedAt:      s.CreatedAt,
	}
}

func SpecialtiesToResponses(specialties []entity.Specialty) []dto.SpecialtyResponse {
	return lo.Map(specialties, func(s entity.Specialty, _ int) dto.SpecialtyResponse {
		return *SpecialtyToResponse(&s)
	})
}

func RoomToResponse(r *entity.Room) *dto.RoomResponse {
	if r == nil {
		return nil
	}

	return &dto.RoomResponse{
		ID:             r.ID,
		RoomNumber:     r.RoomNumber,
		DepartmentID:   r.DepartmentID,
		DepartmentName: r.Department.Name,
		Type:           r.Type,
		Floor:          r.Floor,
		Capacity:       r.Capacity,
		Status:         string(r.Status),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func RoomsToResponses(rooms []entity.Room) []dto.RoomResponse {
	return lo.Map(rooms, func(r entity.Room, _ int) dto.RoomResponse {
		return *RoomToResponse(&r)
	})
}
