package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/pkg/idgen"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrForbidden         = errors.New("you do not have access to this resource")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
	ErrInvalidDateRange  = errors.New("date_from must not be after date_to")
)

// now is the usecase clock. Tests replace it to pin "today".
var now = func() time.Time { return time.Now().UTC() }

func today() time.Time {
	return entity.DateOnly(now())
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID uuid.UUID
	RoleID int
}

func (a Actor) IsAdmin() bool {
	return a.RoleID == entity.RoleIDAdmin
}

func (a Actor) IsStaff() bool {
	return entity.IsStaffRole(a.RoleID)
}

// IsFrontDesk reports admins and receptionists.
func (a Actor) IsFrontDesk() bool {
	return a.RoleID == entity.RoleIDAdmin || a.RoleID == entity.RoleIDReceptionist
}

func (a Actor) ref() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

// nextID allocates the next identifier of kind. It must run inside the
// transaction that inserts the row.
func nextID(tx *gorm.DB, seqRepo repository.SequenceRepository, kind idgen.Kind, deptCode string) (string, error) {
	prefix := idgen.Prefix(kind, deptCode, now())
	seq, err := seqRepo.Next(tx, prefix)
	if err != nil {
		return "", fmt.Errorf("allocate %s: %w", prefix, err)
	}
	return idgen.FormatWithPrefix(prefix, seq), nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// parseDate parses a YYYY-MM-DD value into the stored date form.
func parseDate(value string) (time.Time, error) {
	t, err := entity.ParseDate(value)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return entity.DateOnly(t), nil
}

// parseDateRange parses optional inclusive day bounds.
func parseDateRange(from, to string) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if from != "" {
		t, err := parseDate(from)
		if err != nil {
			return nil, nil, err
		}
		fromDate = &t
	}
	if to != "" {
		t, err := parseDate(to)
		if err != nil {
			return nil, nil, err
		}
		toDate = &t
	}
	if fromDate != nil && toDate != nil && fromDate.After(*toDate) {
		return nil, nil, ErrInvalidDateRange
	}
	return fromDate, toDate, nil
}

// exclusiveEnd turns an inclusive last day into the next midnight.
func exclusiveEnd(day *time.Time) *time.Time {
	if day == nil {
		return nil
	}
	end := day.AddDate(0, 0, 1)
	return &end
}

func parseUUIDPtr(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
