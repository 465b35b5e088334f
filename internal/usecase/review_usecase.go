package usecase

import (
	"context"
	"errors"
	"math"

	"hospital-management/internal/converter"
	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound           = errors.New("review not found")
	ErrReviewAlreadyExists      = errors.New("appointment has already been reviewed")
	ErrAppointmentNotReviewable = errors.New("only completed appointments can be reviewed")
)

type ReviewUsecase interface {
	CreateReview(ctx context.Context, actor Actor, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	ListDoctorReviews(ctx context.Context, doctorID string, page entity.Pagination) ([]dto.ReviewResponse, int64, error)
	GetDoctorRating(ctx context.Context, doctorID string) (*dto.RatingResponse, error)
	DeleteReview(ctx context.Context, actor Actor, id uuid.UUID) error
}

type reviewUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	reviewRepo      repository.ReviewRepository
	appointmentRepo repository.AppointmentRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	auditService    service.AuditService
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	appointmentRepo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) ReviewUsecase {
	return &reviewUsecase{
		db:              db,
		log:             log,
		reviewRepo:      reviewRepo,
		appointmentRepo: appointmentRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		auditService:    auditService,
	}
}

func (u *reviewUsecase) CreateReview(ctx context.Context, actor Actor, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	patient, err := u.patientRepo.FindByUserID(tx, actor.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient by user ID: %+v", err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientProfileNotFound
	}

	appointment, err := u.appointmentRepo.FindByID(tx, req.AppointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment by ID: %+v", err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != patient.ID {
		return nil, ErrForbidden
	}
	if appointment.Status != entity.AppointmentStatusCompleted {
		return nil, ErrAppointmentNotReviewable
	}

	existing, err := u.reviewRepo.FindByAppointmentID(tx, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to find review by appointment: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	review := &entity.Review{
		AppointmentID: appointment.ID,
		PatientID:     patient.ID,
		DoctorID:      appointment.DoctorID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}
	if err := u.reviewRepo.Create(tx, review); err != nil {
		if isDuplicateKeyError(err, "appointment_id") {
			return nil, ErrReviewAlreadyExists
		}
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	review.Patient = *patient
	return converter.ReviewToResponse(review), nil
}

func (u *reviewUsecase) requireDoctor(db *gorm.DB, doctorID string) error {
	doctor, err := u.doctorRepo.FindByID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor by ID: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	return nil
}

func (u *reviewUsecase) ListDoctorReviews(ctx context.Context, doctorID string, page entity.Pagination) ([]dto.ReviewResponse, int64, error) {
	db := u.db.WithContext(ctx)
	if err := u.requireDoctor(db, doctorID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := u.reviewRepo.FindByDoctorID(db, doctorID, page)
	if err != nil {
		u.log.Warnf("Failed to find reviews: %+v", err)
		return nil, 0, err
	}
	return converter.ReviewsToResponses(reviews), total, nil
}

// GetDoctorRating returns the average rounded to two decimals and a
// distribution holding every rating from 1 to 5.
func (u *reviewUsecase) GetDoctorRating(ctx context.Context, doctorID string) (*dto.RatingResponse, error) {
	db := u.db.WithContext(ctx)
	if err := u.requireDoctor(db, doctorID); err != nil {
		return nil, err
	}

	counts, err := u.reviewRepo.RatingCounts(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to count ratings: %+v", err)
		return nil, err
	}

	distribution := make(map[int]int64, entity.MaxRating)
	for rating := entity.MinRating; rating <= entity.MaxRating; rating++ {
		distribution[rating] = 0
	}

	var total, sum int64
	for _, c := range counts {
		if c.Rating < entity.MinRating || c.Rating > entity.MaxRating {
			continue
		}
		distribution[c.Rating] = c.Count
		total += c.Count
		sum += int64(c.Rating) * c.Count
	}

	average := 0.0
	if total > 0 {
		average = math.Round(float64(sum)/float64(total)*100) / 100
	}

	return &dto.RatingResponse{
		DoctorID:     doctorID,
		Average:      average,
		Total:        total,
		Distribution: distribution,
	}, nil
}

func (u *reviewUsecase) DeleteReview(ctx context.Context, actor Actor, id uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	review, err := u.reviewRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find review by ID: %+v", err)
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}

	if _, err := u.reviewRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete review: %+v", err)
		return err
	}

	u.auditService.LogDelete(ctx, tx, actor.ref(), entity.AuditActionReviewDelete, "review", id.String(), review)

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}
