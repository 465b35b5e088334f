package handler

import (
	"errors"
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

// multipartOverhead leaves room for the form boundaries around the file part.
const multipartOverhead = 1 << 20

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

func (h *MedicalRecordHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicalRecordRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.CreateRecord(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create medical record")
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

func (h *MedicalRecordHandler) GetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "medical_record", "medical record")
	if !ok {
		return
	}

	record, err := h.recordUsecase.GetRecord(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err, "Failed to get medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record retrieved successfully", record)
}

func (h *MedicalRecordHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "medical_record", "medical record")
	if !ok {
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	record, err := h.recordUsecase.UpdateRecord(r.Context(), actorFrom(r), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record updated successfully", record)
}

func (h *MedicalRecordHandler) ListPatientRecords(w http.ResponseWriter, r *http.Request) {
	patientID, ok := pathID(w, r, h.validator, "id", "patient", "patient")
	if !ok {
		return
	}
	page := pagination(r)

	records, total, err := h.recordUsecase.ListPatientRecords(r.Context(), actorFrom(r), patientID, page)
	if err != nil {
		writeError(w, err, "Failed to get medical records")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Medical records retrieved successfully", records, pageMeta(page, total))
}

// UploadAttachment expects a multipart form with a single "file" part.
func (h *MedicalRecordHandler) UploadAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "medical_record", "medical record")
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, entity.MaxAttachmentSize+multipartOverhead)
	if err := r.ParseMultipartForm(entity.MaxAttachmentSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, usecase.ErrAttachmentTooLarge, "")
			return
		}
		response.BadRequest(w, "Invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required")
		return
	}
	defer file.Close()

	attachment, err := h.recordUsecase.UploadAttachment(r.Context(), actorFrom(r), id, usecase.AttachmentUpload{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, err, "Failed to upload attachment")
		return
	}

	response.Success(w, http.StatusCreated, "Attachment uploaded successfully", attachment)
}

func (h *MedicalRecordHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, h.validator, "id", "medical_record", "medical record")
	if !ok {
		return
	}

	attachments, err := h.recordUsecase.ListAttachments(r.Context(), actorFrom(r), id)
	if err != nil {
		writeError(w, err, "Failed to get attachments")
		return
	}

	response.Success(w, http.StatusOK, "Attachments retrieved successfully", attachments)
}
