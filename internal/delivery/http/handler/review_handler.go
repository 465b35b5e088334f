package handler

import (
	"net/http"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/usecase"
	"hospital-management/pkg/response"
	"hospital-management/pkg/validator"
)

type ReviewHandler struct {
	reviewUsecase usecase.ReviewUsecase
	validator     *validator.CustomValidator
}

func NewReviewHandler(reviewUsecase usecase.ReviewUsecase, validator *validator.CustomValidator) *ReviewHandler {
	return &ReviewHandler{
		reviewUsecase: reviewUsecase,
		validator:     validator,
	}
}

func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReviewRequest
	if !bind(w, r, h.validator, &req) {
		return
	}

	review, err := h.reviewUsecase.CreateReview(r.Context(), actorFrom(r), &req)
	if err != nil {
		writeError(w, err, "Failed to create review")
		return
	}

	response.Success(w, http.StatusCreated, "Review created successfully", review)
}

func (h *ReviewHandler) ListDoctorReviews(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}
	page := pagination(r)

	reviews, total, err := h.reviewUsecase.ListDoctorReviews(r.Context(), doctorID, page)
	if err != nil {
		writeError(w, err, "Failed to get reviews")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Reviews retrieved successfully", reviews, pageMeta(page, total))
}

func (h *ReviewHandler) GetDoctorRating(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := pathID(w, r, h.validator, "id", "doctor", "doctor")
	if !ok {
		return
	}

	rating, err := h.reviewUsecase.GetDoctorRating(r.Context(), doctorID)
	if err != nil {
		writeError(w, err, "Failed to get rating")
		return
	}

	response.Success(w, http.StatusOK, "Rating retrieved successfully", rating)
}

func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "review")
	if !ok {
		return
	}

	if err := h.reviewUsecase.DeleteReview(r.Context(), actorFrom(r), id); err != nil {
		writeError(w, err, "Failed to delete review")
		return
	}

	response.Success(w, http.StatusOK, "Review deleted successfully", nil)
}
