package converter

import (
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"

	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

func PatientToResponse(p *entity.Patient) *dto.PatientResponse {
	if p == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:                    p.ID,
		PatientID:             p.ID,
		UserID:                p.UserID,
		FullName:              p.FullName,
		DateOfBirth:           p.DateOfBirth.Format(dateLayout),
		Age:                   p.AgeAt(time.Now().UTC()),
		Gender:                p.Gender,
		BloodType:             p.BloodType,
		Phone:                 p.Phone,
		Email:                 p.Email,
		Address:               p.Address,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		Allergies:             p.Allergies,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	return lo.Map(patients, func(p entity.Patient, _ int) dto.PatientResponse {
		return *PatientToResponse(&p)
	})
}

// MedicalRecordToResponse converts a record; attachments are included when preloaded,
// without download URLs.
func MedicalRecordToResponse(r *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if r == nil {
		return nil
	}

	response := &dto.MedicalRecordResponse{
		ID:            r.ID,
		PatientID:     r.PatientID,
		PatientName:   r.Patient.FullName,
		DoctorID:      r.DoctorID,
		DoctorName:    r.Doctor.User.FullName,
		AppointmentID: r.AppointmentID,
		VisitDate:     r.VisitDate.Format(dateLayout),
		Symptoms:      r.Symptoms,
		Diagnosis:     r.Diagnosis,
		Treatment:     r.Treatment,
		Prescription:  r.Prescription,
		Notes:         r.Notes,
		Vitals:        r.Vitals,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if len(r.Attachments) > 0 {
		response.Attachments = AttachmentsToResponses(r.Attachments)
	}

	return response
}

func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	return lo.Map(records, func(r entity.MedicalRecord, _ int) dto.MedicalRecordResponse {
		return *MedicalRecordToResponse(&r)
	})
}

func AttachmentToResponse(a *entity.MedicalRecordAttachment, downloadURL string) *dto.AttachmentResponse {
	if a == nil {
		return nil
	}

	return &dto.AttachmentResponse{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		DownloadURL: downloadURL,
		CreatedAt:   a.CreatedAt,
	}
}

func AttachmentsToResponses(attachments []entity.MedicalRecordAttachment) []dto.AttachmentResponse {
	return lo.Map(attachments, func(a entity.MedicalRecordAttachment, _ int) dto.AttachmentResponse {
		return *AttachmentToResponse(&a, "")
	})
}
