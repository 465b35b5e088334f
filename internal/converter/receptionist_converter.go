package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

func ReceptionistToResponse(r *entity.Receptionist) *dto.ReceptionistResponse {
	if r == nil {
		return nil
	}

	response := &dto.ReceptionistResponse{
		ID:           r.ID,
		UserID:       r.UserID,
		FullName:     r.User.FullName,
		Email:        r.User.Email,
		Phone:        r.User.Phone,
		DepartmentID: r.DepartmentID,
		Shift:        r.Shift,
		CreatedAt:    r.CreatedAt,
	}
	if r.Department != nil {
		response.DepartmentName = r.Department.Name
	}

	return response
}

func ReceptionistsToResponses(receptionists []entity.Receptionist) []dto.ReceptionistResponse {
	return lo.Map(receptionists, func(r entity.Receptionist, _ int) dto.ReceptionistResponse {
		return *ReceptionistToResponse(&r)
	})
}
