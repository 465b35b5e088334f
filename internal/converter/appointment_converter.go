package converter

import (
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:              a.ID,
		PatientID:       a.PatientID,
		PatientName:     a.Patient.FullName,
		DoctorID:        a.DoctorID,
		DoctorName:      a.Doctor.User.FullName,
		DepartmentID:    a.DepartmentID,
		DepartmentName:  a.Department.Name,
		RoomID:          a.RoomID,
		AppointmentDate: a.AppointmentDate.Format(dateLayout),
		AppointmentTime: a.AppointmentTime,
		Type:            a.Type,
		Reason:          a.Reason,
		Status:          string(a.Status),
		QueueNumber:     a.QueueNumber,
		CheckedInAt:     a.CheckedInAt,
		CancelReason:    a.CancelReason,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Room != nil {
		response.RoomNumber = a.Room.RoomNumber
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	return lo.Map(appointments, func(a entity.Appointment, _ int) dto.AppointmentResponse {
		return *AppointmentToResponse(&a)
	})
}
