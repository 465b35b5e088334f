package converter

import (
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

// DoctorToResponse flattens the doctor with its user, department and specialty.
func DoctorToResponse(d *entity.Doctor) *dto.DoctorResponse {
	if d == nil {
		return nil
	}

	response := &dto.DoctorResponse{
		ID:                d.ID,
		UserID:            d.UserID,
		FullName:          d.User.FullName,
		Email:             d.User.Email,
		Phone:             d.User.Phone,
		DepartmentID:      d.DepartmentID,
		DepartmentCode:    d.Department.Code,
		DepartmentName:    d.Department.Name,
		SpecialtyID:       d.SpecialtyID,
		LicenseNumber:     d.LicenseNumber,
		YearsOfExperience: d.YearsOfExperience,
		ConsultationFee:   d.ConsultationFee,
		Bio:               d.Bio,
		IsAvailable:       d.Available(),
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
	if d.Specialty != nil {
		response.SpecialtyName = d.Specialty.Name
	}

	return response
}

func DoctorsToResponses(doctors []entity.Doctor) []dto.DoctorResponse {
	return lo.Map(doctors, func(d entity.Doctor, _ int) dto.DoctorResponse {
		return *DoctorToResponse(&d)
	})
}

func ScheduleToResponse(s *entity.DoctorSchedule) *dto.ScheduleResponse {
	if s == nil {
		return nil
	}

	return &dto.ScheduleResponse{
		ID:          s.ID,
		DoctorID:    s.DoctorID,
		DayOfWeek:   s.DayOfWeek,
		DayName:     time.Weekday(s.DayOfWeek).String(),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		SlotMinutes: s.SlotMinutes,
		CreatedAt:   s.CreatedAt,
	}
}

func SchedulesToResponses(schedules []entity.DoctorSchedule) []dto.ScheduleResponse {
	return lo.Map(schedules, func(s entity.DoctorSchedule, _ int) dto.ScheduleResponse {
		return *ScheduleToResponse(&s)
	})
}

func ReviewToResponse(r *entity.Review) *dto.ReviewResponse {
	if r == nil {
		return nil
	}

	return &dto.ReviewResponse{
		ID:            r.ID,
		AppointmentID: r.AppointmentID,
		DoctorID:      r.DoctorID,
		PatientID:     r.PatientID,
		PatientName:   r.Patient.FullName,
		Rating:        r.Rating,
		Comment:       r.Comment,
		CreatedAt:     r.CreatedAt,
	}
}

func ReviewsToResponses(reviews []entity.Review) []dto.ReviewResponse {
	return lo.Map(reviews, func(r entity.Review, _ int) dto.ReviewResponse {
		return *ReviewToResponse(&r)
	})
}
