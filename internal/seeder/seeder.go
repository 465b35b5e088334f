// Package seeder fills a database with deterministic demo data. Rows are
// created through the usecases so identifiers come from the same sequences
// the services use.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hospital-management/internal/delivery/dto"
	"hospital-management/internal/domain/entity"
	"hospital-management/internal/domain/repository"
	"hospital-management/internal/usecase"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrRolesMissing = errors.New("roles are not seeded, run `hms migrate up` first")

// DefaultPassword is set on every seeded doctor account.
const DefaultPassword = "Password123!"

type departmentSeed struct {
	Code        string
	Name        string
	Location    string
	Specialties []string
}

var departmentCatalog = []departmentSeed{
	{Code: "CARD", Name: "Cardiology", Location: "Building A, Floor 2", Specialties: []string{"Interventional Cardiology", "Electrophysiology"}},
	{Code: "NEURO", Name: "Neurology", Location: "Building A, Floor 3", Specialties: []string{"Stroke Care", "Epilepsy"}},
	{Code: "PED", Name: "Pediatrics", Location: "Building B, Floor 1", Specialties: []string{"Neonatology", "Pediatric Allergy"}},
	{Code: "ORTHO", Name: "Orthopedics", Location: "Building B, Floor 2", Specialties: []string{"Sports Medicine", "Spine Surgery"}},
	{Code: "GEN", Name: "General Medicine", Location: "Building C, Floor 1", Specialties: []string{"Family Medicine"}},
	{Code: "DERM", Name: "Dermatology", Location: "Building C, Floor 2", Specialties: []string{"Cosmetic Dermatology"}},
}

// Options mirror the flags of `hms seed`.
type Options struct {
	Departments bool
	Doctors     int
	Patients    int
	Seed        uint64
}

// Result counts the rows a run created. Existing rows are skipped, not counted.
type Result struct {
	Departments int
	Specialties int
	Doctors     int
	Schedules   int
	Patients    int
}

type Seeder struct {
	db          *gorm.DB
	log         *logrus.Logger
	roleRepo    repository.RoleRepository
	deptRepo    repository.DepartmentRepository
	departments usecase.DepartmentUsecase
	doctors     usecase.DoctorUsecase
	patients    usecase.PatientUsecase
}

func New(
	db *gorm.DB,
	log *logrus.Logger,
	roleRepo repository.RoleRepository,
	deptRepo repository.DepartmentRepository,
	departments usecase.DepartmentUsecase,
	doctors usecase.DoctorUsecase,
	patients usecase.PatientUsecase,
) *Seeder {
	return &Seeder{
		db:          db,
		log:         log,
		roleRepo:    roleRepo,
		deptRepo:    deptRepo,
		departments: departments,
		doctors:     doctors,
		patients:    patients,
	}
}

// system is the actor of seeded rows; audit entries get no user.
var system = usecase.Actor{RoleID: entity.RoleIDAdmin}

func (s *Seeder) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := s.checkRoles(ctx); err != nil {
		return nil, err
	}

	faker := gofakeit.New(opts.Seed)
	result := &Result{}

	if opts.Departments {
		if err := s.seedDepartments(ctx, result); err != nil {
			return result, err
		}
	}

	if opts.Doctors > 0 {
		if err := s.seedDoctors(ctx, faker, opts, result); err != nil {
			return result, err
		}
	}

	for i := 0; i < opts.Patients; i++ {
		if err := s.seedPatient(ctx, faker); err != nil {
			return result, fmt.Errorf("patient %d: %w", i+1, err)
		}
		result.Patients++
	}

	return result, nil
}

func (s *Seeder) checkRoles(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	for _, want := range entity.DefaultRoles {
		role, err := s.roleRepo.FindByName(db, want.RoleName)
		if err != nil {
			return fmt.Errorf("failed to look up role %s: %w", want.RoleName, err)
		}
		if role == nil || role.ID != want.ID {
			return ErrRolesMissing
		}
	}
	return nil
}

func (s *Seeder) seedDepartments(ctx context.Context, result *Result) error {
	for _, seed := range departmentCatalog {
		existing, err := s.deptRepo.FindByCode(s.db.WithContext(ctx), seed.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			s.log.Debugf("Department %s exists, skipping", seed.Code)
			continue
		}

		dept, err := s.departments.CreateDepartment(ctx, system, &dto.CreateDepartmentRequest{
			Code:     seed.Code,
			Name:     seed.Name,
			Location: seed.Location,
		})
		if err != nil {
			return fmt.Errorf("department %s: %w", seed.Code, err)
		}
		result.Departments++

		for _, name := range seed.Specialties {
			if _, err := s.departments.CreateSpecialty(ctx, &dto.CreateSpecialtyRequest{
				DepartmentID: dept.ID.String(),
				Name:         name,
			}); err != nil {
				return fmt.Errorf("specialty %s: %w", name, err)
			}
			result.Specialties++
		}
	}
	return nil
}

func (s *Seeder) seedDoctors(ctx context.Context, faker *gofakeit.Faker, opts Options, result *Result) error {
	active := true
	departments, err := s.departments.ListDepartments(ctx, &active)
	if err != nil {
		return err
	}
	if len(departments) == 0 {
		return errors.New("no active department to assign doctors to, use --departments")
	}

	for i := 0; i < opts.Doctors; i++ {
		dept := departments[i%len(departments)]
		first, last := faker.FirstName(), faker.LastName()
		fee := decimal.NewFromInt(int64(faker.Number(10, 50)) * 10000)

		doctor, err := s.doctors.CreateDoctor(ctx, system, &dto.CreateDoctorRequest{
			Email:             seedEmail(first, last, opts.Seed, i),
			Password:          DefaultPassword,
			FullName:          fmt.Sprintf("Dr. %s %s", first, last),
			Phone:             faker.Numerify("08##########"),
			DepartmentID:      dept.ID.String(),
			LicenseNumber:     fmt.Sprintf("LIC-%d-%05d", opts.Seed, i+1),
			YearsOfExperience: faker.Number(1, 35),
			ConsultationFee:   &fee,
		})
		if errors.Is(err, usecase.ErrEmailAlreadyExists) || errors.Is(err, usecase.ErrLicenseAlreadyExists) {
			s.log.Debugf("Doctor %d already seeded, skipping", i+1)
			continue
		}
		if err != nil {
			return fmt.Errorf("doctor %d: %w", i+1, err)
		}
		result.Doctors++

		created, err := s.seedSchedules(ctx, doctor.ID)
		if err != nil {
			return fmt.Errorf("schedules of %s: %w", doctor.ID, err)
		}
		result.Schedules += created
	}
	return nil
}

// seedSchedules gives a doctor weekday morning clinics.
func (s *Seeder) seedSchedules(ctx context.Context, doctorID string) (int, error) {
	created := 0
	for day := time.Monday; day <= time.Friday; day++ {
		dayOfWeek := int(day)
		if _, err := s.doctors.CreateSchedule(ctx, system, doctorID, &dto.CreateScheduleRequest{
			DayOfWeek:   &dayOfWeek,
			StartTime:   "09:00",
			EndTime:     "12:00",
			SlotMinutes: entity.DefaultSlotMinutes,
		}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (s *Seeder) seedPatient(ctx context.Context, faker *gofakeit.Faker) error {
	first, last := faker.FirstName(), faker.LastName()
	dob := faker.DateRange(
		time.Date(1940, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, time.December, 31, 0, 0, 0, 0, time.UTC),
	)

	_, err := s.patients.CreatePatient(ctx, system, &dto.CreatePatientRequest{
		FullName:              first + " " + last,
		DateOfBirth:           dob.Format("2006-01-02"),
		Gender:                faker.RandomString([]string{"M", "F"}),
		BloodType:             faker.RandomString([]string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}),
		Phone:                 faker.Numerify("08##########"),
		Address:               faker.Street() + ", " + faker.City(),
		EmergencyContactName:  faker.FirstName() + " " + last,
		EmergencyContactPhone: faker.Numerify("08##########"),
	})
	return err
}

func seedEmail(first, last string, seed uint64, i int) string {
	local := strings.ToLower(first + "." + last)
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || r == '.' {
			return r
		}
		return -1
	}, local)
	return fmt.Sprintf("%s.%d.%d@seed.hms.local", local, seed, i+1)
}
